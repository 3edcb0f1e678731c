package bankid

import "strings"

// Unknown is the sentinel bank name for statements whose issuer could not be
// identified but whose subject marks them as a statement.
const Unknown = "unknown bank"

// Bank pairs a canonical bank name with the substrings that identify it in
// email metadata (subject or sender address).
type Bank struct {
	Name        string
	Identifiers []string
}

// Registry holds banks in fixed registration order. Identification checks
// banks in that order, so the first registered match wins.
type Registry struct {
	banks []Bank
	names map[string]bool
}

// NewRegistry creates an empty bank registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// Register adds a bank. Panics on duplicate name.
func (r *Registry) Register(b Bank) {
	key := strings.ToLower(b.Name)
	if r.names[key] {
		panic("duplicate bank: " + key)
	}
	r.names[key] = true
	r.banks = append(r.banks, b)
}

// Banks returns all registered banks in registration order.
func (r *Registry) Banks() []Bank {
	return r.banks
}

// Identify classifies a statement email by subject and sender. It returns the
// first registered bank whose identifiers match either field, the Unknown
// sentinel when no bank matches but the subject mentions a statement, and ""
// when the message looks unrelated and should be skipped.
func (r *Registry) Identify(subject, sender string) string {
	subject = strings.ToLower(subject)
	sender = strings.ToLower(sender)

	for _, b := range r.banks {
		for _, ident := range b.Identifiers {
			if strings.Contains(subject, ident) || strings.Contains(sender, ident) {
				return b.Name
			}
		}
	}

	if strings.Contains(subject, "statement") {
		return Unknown
	}
	return ""
}

// Default returns a registry with the built-in banks.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Bank{Name: "chase", Identifiers: []string{"chase", "@chase.com"}})
	r.Register(Bank{Name: "bank of america", Identifiers: []string{"bank of america", "bankofamerica", "@bofa.com"}})
	r.Register(Bank{Name: "wells fargo", Identifiers: []string{"wells fargo", "wellsfargo", "@wellsfargo.com"}})
	r.Register(Bank{Name: "citi", Identifiers: []string{"citi", "citibank", "@citi.com"}})
	r.Register(Bank{Name: "capital one", Identifiers: []string{"capital one", "capitalone", "@capitalone.com"}})
	return r
}

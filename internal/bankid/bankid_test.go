package bankid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		subject string
		sender  string
		want    string
	}{
		{"sender domain", "Your monthly statement", "alerts@chase.com", "chase"},
		{"subject name", "Wells Fargo Statement Ready", "noreply@notifications.example", "wells fargo"},
		{"case insensitive", "BANK OF AMERICA eStatement", "X@Y.COM", "bank of america"},
		{"compact identifier", "statement available", "service@capitalone.com", "capital one"},
		{"unknown but statement", "Your statement is ready", "noreply@smallcreditunion.example", Unknown},
		{"unrelated", "Lunch on Friday?", "friend@example.com", ""},
		{"statement in subject only", "e-Statement notice", "billing@somebank.example", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Identify(tt.subject, tt.sender))
		})
	}
}

func TestIdentifyFirstMatchWins(t *testing.T) {
	r := NewRegistry()
	r.Register(Bank{Name: "first", Identifiers: []string{"acme"}})
	r.Register(Bank{Name: "second", Identifiers: []string{"acme"}})

	// Registration order is the tiebreak.
	assert.Equal(t, "first", r.Identify("acme statement", ""))
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(Bank{Name: "chase"})
	assert.Panics(t, func() {
		r.Register(Bank{Name: "Chase"})
	})
}

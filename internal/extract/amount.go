package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer(",", "", "$", "", " ", "")

// ParseAmount converts a monetary string like "1,234.56" or "$2,000.00" to a
// decimal. Malformed input yields zero rather than an error: the extraction
// patterns upstream already constrain the shape, and a bad amount is treated
// the same as "not found". No sign or magnitude validation is applied; that
// permissiveness is deliberate and matches how extraction misses default.
func ParseAmount(s string) decimal.Decimal {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

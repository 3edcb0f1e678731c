package extract

import (
	"regexp"
	"strings"
)

// Each field of a statement record has an ordered fallback chain of rules;
// the first rule that matches wins. Specific high-confidence phrasings come
// first, loose patterns last.

const (
	// amountTail matches a monetary amount somewhere after a label, e.g.
	// "$1,234.56". The gap is non-greedy so the nearest amount wins.
	amountTail = `.*?\$?([0-9,]+\.[0-9]{2})`
	usDate     = `(\d{2}/\d{2}/\d{4})`
	// rangeWord separates the two dates of a statement period. The literal
	// words are matched, not their individual characters.
	rangeWord = `\s*(?:through|to|-)\s*`
)

// amountRule compiles a case-insensitive rule capturing the first amount
// after a label phrase. The label is a regexp fragment.
func amountRule(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + label + amountTail)
}

// periodRange captures both dates of a "label: MM/DD/YYYY to MM/DD/YYYY" span.
func periodRange(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `:?\s*` + usDate + rangeWord + usDate)
}

// periodSingle captures a lone statement date.
func periodSingle(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `:?\s*` + usDate)
}

// tightAmountRule requires the amount to follow the label directly, with only
// whitespace in between. Used for loose labels like a bare "balance:" that
// would over-match with an unbounded gap.
func tightAmountRule(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `:?\s*\$?([0-9,]+\.[0-9]{2})`)
}

// ruleSet is the extraction table for one bank layout.
type ruleSet struct {
	balance []*regexp.Regexp
	period  []*regexp.Regexp // 1 capture = single date, 2 captures = range
	credits []*regexp.Regexp
	debits  []*regexp.Regexp
}

// bankRuleSets maps bank-identifier substrings to their rule tables, in
// dispatch order. rulesFor matches case-insensitively against the bank name.
var bankRuleSets = []struct {
	match string
	rules ruleSet
}{
	{
		match: "chase",
		rules: ruleSet{
			balance: []*regexp.Regexp{amountRule(`ending balance`)},
			period:  []*regexp.Regexp{periodRange(`statement period`)},
			credits: []*regexp.Regexp{amountRule(`total deposits (?:and credits|and other additions)`)},
			debits:  []*regexp.Regexp{amountRule(`total withdrawals (?:and debits|and fees)`)},
		},
	},
	{
		match: "bank of america",
		rules: ruleSet{
			balance: []*regexp.Regexp{amountRule(`ending balance`)},
			period:  []*regexp.Regexp{periodRange(`statement period`)},
			credits: []*regexp.Regexp{amountRule(`total deposits`)},
			debits:  []*regexp.Regexp{amountRule(`total withdrawals`)},
		},
	},
	{
		match: "wells fargo",
		rules: ruleSet{
			balance: []*regexp.Regexp{amountRule(`ending balance`)},
			period:  []*regexp.Regexp{periodRange(`statement period`)},
			credits: []*regexp.Regexp{amountRule(`total deposits`)},
			debits:  []*regexp.Regexp{amountRule(`total withdrawals`)},
		},
	},
	{
		match: "citi",
		rules: ruleSet{
			balance: []*regexp.Regexp{amountRule(`balance on \d{2}/\d{2}/\d{4}`)},
			period:  []*regexp.Regexp{periodRange(`statement period`)},
			credits: []*regexp.Regexp{amountRule(`total credits`)},
			debits:  []*regexp.Regexp{amountRule(`total debits`)},
		},
	},
	{
		match: "capital one",
		rules: ruleSet{
			balance: []*regexp.Regexp{amountRule(`ending balance`)},
			period:  []*regexp.Regexp{periodRange(`statement period`)},
			credits: []*regexp.Regexp{amountRule(`total credits`)},
			debits:  []*regexp.Regexp{amountRule(`total debits`)},
		},
	},
}

// genericRules is the fallback table for banks without a registered layout.
var genericRules = ruleSet{
	balance: []*regexp.Regexp{
		amountRule(`ending balance`),
		tightAmountRule(`balance`),
		amountRule(`closing balance`),
		amountRule(`total balance`),
	},
	period: []*regexp.Regexp{
		periodRange(`statement period`),
		periodSingle(`statement date`),
		periodRange(`period`),
	},
	credits: []*regexp.Regexp{
		amountRule(`total deposits`),
		amountRule(`total credits`),
		tightAmountRule(`deposits sum`),
	},
	debits: []*regexp.Regexp{
		amountRule(`total withdrawals`),
		amountRule(`total debits`),
		tightAmountRule(`withdrawals sum`),
	},
}

// rulesFor returns the rule table for a bank, falling back to the generic
// table when no bank-specific layout is registered.
func rulesFor(bank string) ruleSet {
	lower := strings.ToLower(bank)
	for _, brs := range bankRuleSets {
		if strings.Contains(lower, brs.match) {
			return brs.rules
		}
	}
	return genericRules
}

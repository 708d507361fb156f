// Package extract performs deterministic, rule-driven field extraction
// from raw receipt text. It is the cheap path that runs before any
// OCR/LLM oracle is consulted.
package extract

// Rule is the per-vendor extraction rule set: ordered field-specific
// patterns plus the acceptance policy that a strictly positive total
// must be found. Rules are data, consumed by one generic extractor.
type Rule struct {
	// Vendor is the exact identification key, as produced by the
	// vendor identifier.
	Vendor string

	// DisplayName is the canonical store name used when no store
	// pattern matches.
	DisplayName string

	// TotalLabels are tried in order; each label is tried against
	// every currency variant before moving to the next label.
	TotalLabels []string

	// StorePatterns and OrderIDPatterns are short fallback chains;
	// the first capture group of the first matching pattern wins.
	StorePatterns   []string
	OrderIDPatterns []string

	// ItemPatterns override the default line-item patterns when set.
	ItemPatterns []string

	// Confidence is a fixed constant reflecting how battle-tested
	// this vendor's rule set is.
	Confidence float64

	// MaxItems caps line-item collection; 0 means the default cap.
	MaxItems int
}

// DefaultRules returns the built-in extraction rule sets, keyed by the
// vendor names produced by merchant.DefaultPatterns.
func DefaultRules() []Rule {
	return []Rule{
		{
			Vendor:          "takealot",
			DisplayName:     "Takealot",
			TotalLabels:     []string{"Order Total", "Grand Total", "Total"},
			OrderIDPatterns: []string{`[Oo]rder\s*#?\s*:?\s*(\d{5,})`},
			Confidence:      0.9,
		},
		{
			Vendor:        "woolworths",
			DisplayName:   "Woolworths",
			TotalLabels:   []string{"Total Due", "Total"},
			StorePatterns: []string{`(?i)(Woolworths(?:\s+[A-Za-z ]+)?)\s*$`},
			Confidence:    0.85,
		},
		{
			Vendor:      "pick n pay",
			DisplayName: "Pick n Pay",
			TotalLabels: []string{"Grand Total", "Total Due", "Total"},
			Confidence:  0.85,
		},
		{
			Vendor:      "checkers",
			DisplayName: "Checkers",
			TotalLabels: []string{"Total Due", "Balance Due", "Total"},
			Confidence:  0.85,
		},
		{
			Vendor:          "netflix",
			DisplayName:     "Netflix",
			TotalLabels:     []string{"Amount Due", "Total"},
			OrderIDPatterns: []string{`[Ii]nvoice\s*#?\s*:?\s*([A-Z0-9-]{6,})`},
			Confidence:      0.9,
		},
		{
			Vendor:      "spotify",
			DisplayName: "Spotify",
			TotalLabels: []string{"Amount Due", "Total"},
			Confidence:  0.9,
		},
		{
			Vendor:      "uber",
			DisplayName: "Uber",
			TotalLabels: []string{"Total", "Amount Charged"},
			Confidence:  0.85,
		},
		{
			Vendor:      "mr price",
			DisplayName: "Mr Price",
			TotalLabels: []string{"Total", "Amount Due"},
			Confidence:  0.85,
		},
	}
}

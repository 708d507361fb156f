package merchant

// DefaultPatterns returns the built-in merchant classification rules.
// Order matters: the identifier accepts the first merchant that clears
// the threshold, so more specific merchants come first.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:            "takealot",
			DomainPatterns:  []string{`takealot\.com$`},
			SubjectPatterns: []string{`takealot`, `your order .* has been (confirmed|shipped)`},
			BodyPhrases:     []string{"takealot.com", "takealot order"},
		},
		{
			Name:            "woolworths",
			DomainPatterns:  []string{`woolworths\.co\.za$`, `wwdirect\.co\.za$`},
			SubjectPatterns: []string{`woolworths`, `woolies`},
			BodyPhrases:     []string{"woolworths", "woolies"},
		},
		{
			Name:            "pick n pay",
			DomainPatterns:  []string{`pnp\.co\.za$`, `picknpay\.co\.za$`},
			SubjectPatterns: []string{`pick n pay`, `smart shopper`},
			BodyPhrases:     []string{"pick n pay", "smart shopper"},
		},
		{
			Name:            "checkers",
			DomainPatterns:  []string{`checkers\.co\.za$`, `sixty60\.co\.za$`},
			SubjectPatterns: []string{`checkers`, `sixty60`},
			BodyPhrases:     []string{"checkers", "sixty60"},
		},
		{
			Name:            "netflix",
			DomainPatterns:  []string{`netflix\.com$`},
			SubjectPatterns: []string{`netflix`},
			BodyPhrases:     []string{"netflix"},
		},
		{
			Name:            "spotify",
			DomainPatterns:  []string{`spotify\.com$`},
			SubjectPatterns: []string{`spotify`, `your premium receipt`},
			BodyPhrases:     []string{"spotify"},
		},
		{
			Name:            "uber",
			DomainPatterns:  []string{`uber\.com$`},
			SubjectPatterns: []string{`your .* trip with uber`, `uber receipt`},
			BodyPhrases:     []string{"uber", "thanks for riding"},
		},
		{
			Name:            "mr price",
			DomainPatterns:  []string{`mrp\.com$`, `mrprice\.com$`},
			SubjectPatterns: []string{`mr ?price`, `mrp`},
			BodyPhrases:     []string{"mr price", "mrp.com"},
		},
	}
}

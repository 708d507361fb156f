package recurring

// CuratedSets are process-wide static configuration injected into the
// analyzer so tests can substitute fixtures. Membership is checked on
// normalized store names and on category names verbatim.
type CuratedSets struct {
	RecurringMerchants  map[string]struct{}
	RecurringCategories map[string]struct{}
}

// DefaultCuratedSets returns the built-in merchant and category sets:
// utilities, subscriptions, insurers, banks, gyms, ride-hailing.
func DefaultCuratedSets() CuratedSets {
	merchants := []string{
		"netflix",
		"spotify",
		"dstv",
		"showmax",
		"apple",
		"google",
		"vodacom",
		"mtn",
		"telkom",
		"cell c",
		"rain",
		"afrihost",
		"eskom",
		"city of cape town",
		"city of johannesburg",
		"virgin active",
		"planet fitness",
		"discovery",
		"outsurance",
		"santam",
		"old mutual",
		"momentum",
		"fnb",
		"absa",
		"standard bank",
		"nedbank",
		"capitec",
		"uber",
		"bolt",
	}
	categories := []string{
		"Utilities",
		"Subscriptions",
		"Insurance",
		"Rent",
		"Internet",
		"Phone",
		"Gym",
		"Banking",
		"Transport",
	}

	sets := CuratedSets{
		RecurringMerchants:  make(map[string]struct{}, len(merchants)),
		RecurringCategories: make(map[string]struct{}, len(categories)),
	}
	for _, m := range merchants {
		sets.RecurringMerchants[m] = struct{}{}
	}
	for _, c := range categories {
		sets.RecurringCategories[c] = struct{}{}
	}
	return sets
}

package search

import "github.com/proteahq/receiptiq/internal/model"

// Facets are count-by-value breakdowns computed over the filtered set
// before pagination, for filter UIs.
type Facets struct {
	Categories     map[string]int
	Stores         map[string]int
	PaymentMethods map[string]int
	AmountRanges   map[string]int
}

// AmountRangeLabels lists the fixed amount buckets in display order.
var AmountRangeLabels = []string{"<50", "50-100", "100-250", "250-500", "500-1000", ">1000"}

func newFacets() Facets {
	return Facets{
		Categories:     make(map[string]int),
		Stores:         make(map[string]int),
		PaymentMethods: make(map[string]int),
		AmountRanges:   make(map[string]int),
	}
}

func computeFacets(receipts []model.Receipt) Facets {
	f := newFacets()
	for _, r := range receipts {
		if r.Category != "" {
			f.Categories[r.Category]++
		}
		if r.StoreName != "" {
			f.Stores[r.StoreName]++
		}
		if r.PaymentMethod != "" {
			f.PaymentMethods[r.PaymentMethod]++
		}
		f.AmountRanges[amountBucket(r.Total)]++
	}
	return f
}

// amountBucket assigns a total to one of the fixed ranges. Boundaries
// are lower-inclusive: 50.00 lands in "50-100".
func amountBucket(total float64) string {
	switch {
	case total < 50:
		return "<50"
	case total < 100:
		return "50-100"
	case total < 250:
		return "100-250"
	case total < 500:
		return "250-500"
	case total < 1000:
		return "500-1000"
	default:
		return ">1000"
	}
}

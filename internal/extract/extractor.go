package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/proteahq/receiptiq/internal/model"
)

type compiledRule struct {
	displayName string
	totals      []totalMatcher
	stores      []*regexp.Regexp
	orders      []*regexp.Regexp
	items       []*regexp.Regexp
	confidence  float64
	maxItems    int
}

// Extractor runs per-vendor rule sets over raw receipt text. Rule sets
// are looked up by exact vendor name; an unknown vendor always fails.
type Extractor struct {
	rules map[string]compiledRule
	now   func() time.Time
}

// NewExtractor compiles the given rules. Pattern order within each rule
// is preserved exactly; first match wins everywhere.
func NewExtractor(rules []Rule) (*Extractor, error) {
	compiled := make(map[string]compiledRule, len(rules))

	for _, r := range rules {
		if r.Vendor == "" {
			return nil, fmt.Errorf("extraction rule without vendor name")
		}
		if r.Confidence <= 0 || r.Confidence > 1 {
			return nil, fmt.Errorf("extraction rule for %s has confidence %f outside (0,1]", r.Vendor, r.Confidence)
		}

		cr := compiledRule{
			displayName: r.DisplayName,
			totals:      compileTotalMatchers(r.TotalLabels),
			confidence:  r.Confidence,
			maxItems:    r.MaxItems,
		}
		if cr.displayName == "" {
			cr.displayName = r.Vendor
		}

		var err error
		if cr.stores, err = compileChain(r.StorePatterns); err != nil {
			return nil, fmt.Errorf("store patterns for %s: %w", r.Vendor, err)
		}
		if cr.orders, err = compileChain(r.OrderIDPatterns); err != nil {
			return nil, fmt.Errorf("order id patterns for %s: %w", r.Vendor, err)
		}

		itemExprs := r.ItemPatterns
		if len(itemExprs) == 0 {
			itemExprs = defaultItemPatterns
		}
		if cr.items, err = compileChain(itemExprs); err != nil {
			return nil, fmt.Errorf("item patterns for %s: %w", r.Vendor, err)
		}

		compiled[strings.ToLower(r.Vendor)] = cr
	}

	return &Extractor{rules: compiled, now: time.Now}, nil
}

// Extract runs the vendor's rule set over the text. The second return
// value is false when extraction failed and the caller must fall back
// to the external extraction oracle.
func (e *Extractor) Extract(vendorName, text string) (*model.ExtractedReceipt, bool) {
	rule, ok := e.rules[strings.ToLower(vendorName)]
	if !ok {
		return nil, false
	}

	total, currency, ok := extractTotal(text, rule.totals)
	if !ok {
		// No positive total means the record is rejected outright.
		return nil, false
	}

	date, ok := extractDate(text)
	if !ok {
		// A missing date should not block ingestion.
		date = e.now()
	}

	store := firstCapture(text, rule.stores)
	if store == "" {
		store = rule.displayName
	}

	return &model.ExtractedReceipt{
		StoreName:  store,
		Total:      total,
		Currency:   currency,
		Date:       date,
		OrderID:    firstCapture(text, rule.orders),
		Items:      extractItems(text, rule.items, rule.maxItems),
		Confidence: rule.confidence,
	}, true
}

// Vendors returns the vendor names with a configured rule set.
func (e *Extractor) Vendors() []string {
	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		names = append(names, name)
	}
	return names
}

func compileChain(exprs []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q: %w", expr, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// firstCapture returns the first capture group of the first matching
// pattern, or "" when nothing matches.
func firstCapture(text string, chain []*regexp.Regexp) string {
	for _, re := range chain {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

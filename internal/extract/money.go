package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyVariants are tried, in order, for every total label. The
// bare-digits variant comes last so an explicit symbol always decides
// the currency.
var currencyVariants = []struct {
	pattern string // regex fragment preceding the amount
	code    string
}{
	{`R\s*`, "ZAR"},
	{`\$\s*`, "USD"},
	{`ZAR\s*`, "ZAR"},
	{``, "ZAR"},
}

const amountFragment = `(\d[\d,]*(?:\.\d{1,2})?)`

type totalMatcher struct {
	re       *regexp.Regexp
	currency string
}

// compileTotalMatchers builds the ordered matcher list for a rule's
// total labels: label-major, then currency-variant order. The leading
// word boundary keeps a bare "Total" label from matching inside
// "Subtotal".
func compileTotalMatchers(labels []string) []totalMatcher {
	matchers := make([]totalMatcher, 0, len(labels)*len(currencyVariants))
	for _, label := range labels {
		for _, v := range currencyVariants {
			expr := `(?i)\b` + regexp.QuoteMeta(label) + `\s*:?\s*` + v.pattern + amountFragment
			matchers = append(matchers, totalMatcher{
				re:       regexp.MustCompile(expr),
				currency: v.code,
			})
		}
	}
	return matchers
}

// extractTotal returns the first strictly positive amount matched by
// the ordered label/variant chain. No positive match means the whole
// extraction fails: a wrong store name is tolerable, a wrong total is
// not.
func extractTotal(text string, matchers []totalMatcher) (total float64, currency string, ok bool) {
	for _, m := range matchers {
		match := m.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		amount, err := parseAmount(match[1])
		if err != nil || !amount.IsPositive() {
			continue
		}
		return amount.InexactFloat64(), m.currency, true
	}
	return 0, "", false
}

// parseAmount parses a money string, tolerating comma thousands
// separators ("1,234.56" parses as 1234.56).
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(cleaned)
}

// canonicalPrice normalizes a matched price string for storage on a
// line item, stripping separators but keeping the exact digits.
func canonicalPrice(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

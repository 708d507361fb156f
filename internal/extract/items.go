package extract

import (
	"regexp"
	"strings"

	"github.com/proteahq/receiptiq/internal/model"
)

const defaultMaxItems = 50

// defaultItemPatterns are tried in order; the first pattern that yields
// any raw matches wins, even if label filtering then discards them all.
// The quantity form must come first or the plain form swallows it.
var defaultItemPatterns = []string{
	`(?m)^[ \t]*(\d+)[ \t]*x[ \t]+(.+?)[ \t]+(?:R|\$|ZAR)?[ \t]*(\d[\d,]*\.\d{2})[ \t]*$`,
	`(?m)^[ \t]*(.+?)[ \t]+(?:R|\$|ZAR)?[ \t]*(\d[\d,]*\.\d{2})[ \t]*$`,
}

// excludeLineRe drops lines that look like totals rather than items.
// Grounded in the usual receipt footer vocabulary.
var excludeLineRe = regexp.MustCompile(`(?i)^(sub\s*-?\s*total|total|grand\s*total|vat|tax|discount|savings|change|cash|card|balance|amount\s*due|delivery|tip|rounding)\b`)

// extractItems collects line items using the ordered pattern chain.
// Extraction is best-effort: an empty result is valid.
func extractItems(text string, patterns []*regexp.Regexp, maxItems int) []model.ReceiptItem {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}

	for _, re := range patterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		items := make([]model.ReceiptItem, 0, len(matches))
		for _, m := range matches {
			var name, price string
			switch len(m) {
			case 4: // qty, name, price
				name, price = m[2], m[3]
			case 3: // name, price
				name, price = m[1], m[2]
			default:
				continue
			}

			name = strings.TrimSpace(name)
			if name == "" || excludeLineRe.MatchString(name) {
				continue
			}

			items = append(items, model.ReceiptItem{
				Name:  name,
				Price: canonicalPrice(price),
			})
			if len(items) >= maxItems {
				break
			}
		}

		return items
	}

	return nil
}

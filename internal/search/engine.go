// Package search indexes a user's receipts for filtered, free-text and
// similarity-based retrieval.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/model"
	"github.com/proteahq/receiptiq/internal/service"
)

// Filters are hard constraints AND-ed together; nil or empty fields
// are not applied.
type Filters struct {
	StartDate      *time.Time
	EndDate        *time.Time
	MinAmount      *float64
	MaxAmount      *float64
	Categories     []string
	Stores         []string
	PaymentMethods []string
	TaxDeductible  *bool
}

// Result carries the matched page plus facet counts computed over the
// whole filtered set, before pagination.
type Result struct {
	Receipts   []model.Receipt
	Facets     Facets
	TotalCount int
}

// Engine loads a user's receipts and runs the search pipeline over
// them: hard filters, then token matching, then facets and paging.
type Engine struct {
	store service.Storage
}

// NewEngine creates a search engine backed by the given store.
func NewEngine(store service.Storage) *Engine {
	return &Engine{store: store}
}

// Search applies filters and the free-text query, computes facets, and
// paginates. An empty query applies no token filtering. A storage read
// failure degrades to an empty result, never an error.
func (e *Engine) Search(ctx context.Context, userID, query string, filters Filters, limit, offset int) Result {
	receipts, err := e.store.GetReceiptsByUser(ctx, userID)
	if err != nil {
		common.LogError(err, "search could not load receipts", common.Fields{"user_id": userID})
		return Result{Facets: newFacets()}
	}

	filtered := applyFilters(receipts, filters)
	if strings.TrimSpace(query) != "" {
		filtered = filterByQuery(filtered, query)
	}

	// Newest first; a stable order makes pagination meaningful.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})

	return Result{
		Receipts:   paginate(filtered, offset, limit),
		Facets:     computeFacets(filtered),
		TotalCount: len(filtered),
	}
}

func applyFilters(receipts []model.Receipt, f Filters) []model.Receipt {
	matched := make([]model.Receipt, 0, len(receipts))

	categories := toLowerSet(f.Categories)
	stores := normalizedStoreSet(f.Stores)
	payments := toLowerSet(f.PaymentMethods)

	for _, r := range receipts {
		if f.StartDate != nil && r.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && r.Date.After(*f.EndDate) {
			continue
		}
		if f.MinAmount != nil && r.Total < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && r.Total > *f.MaxAmount {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[strings.ToLower(r.Category)]; !ok {
				continue
			}
		}
		if len(stores) > 0 {
			if _, ok := stores[model.NormalizeStoreName(r.StoreName)]; !ok {
				continue
			}
		}
		if len(payments) > 0 {
			if _, ok := payments[strings.ToLower(r.PaymentMethod)]; !ok {
				continue
			}
		}
		if f.TaxDeductible != nil && r.TaxDeductible != *f.TaxDeductible {
			continue
		}
		matched = append(matched, r)
	}

	return matched
}

// filterByQuery keeps receipts containing any query token (OR
// semantics, deliberately permissive for a personal-finance search
// box).
func filterByQuery(receipts []model.Receipt, query string) []model.Receipt {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return receipts
	}

	matched := make([]model.Receipt, 0, len(receipts))
	for _, r := range receipts {
		haystack := searchText(r)
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

// searchText concatenates every field the free-text query searches.
func searchText(r model.Receipt) string {
	parts := []string{r.StoreName, r.Category, r.Notes, r.Subcategory, r.PaymentMethod}
	for _, item := range r.Items {
		parts = append(parts, item.Name)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func paginate(receipts []model.Receipt, offset, limit int) []model.Receipt {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(receipts) {
		return nil
	}
	receipts = receipts[offset:]
	if limit > 0 && len(receipts) > limit {
		receipts = receipts[:limit]
	}
	return receipts
}

func toLowerSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func normalizedStoreSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[model.NormalizeStoreName(v)] = struct{}{}
	}
	return set
}

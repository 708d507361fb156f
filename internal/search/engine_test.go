package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteahq/receiptiq/internal/model"
	"github.com/proteahq/receiptiq/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func seedEngine(t *testing.T) *Engine {
	t.Helper()

	receipts := []model.Receipt{
		{
			ID: "r1", UserID: "u1", StoreName: "Woolworths", Category: "Groceries",
			PaymentMethod: "credit card", Total: 482.50, Date: day(1),
			Items: []model.ReceiptItem{{Name: "Free Range Eggs", Price: "54.99"}},
		},
		{
			ID: "r2", UserID: "u1", StoreName: "Netflix", Category: "Subscriptions",
			PaymentMethod: "debit order", Total: 199.00, Date: day(5),
			Notes: "family plan",
		},
		{
			ID: "r3", UserID: "u1", StoreName: "Checkers", Category: "Groceries",
			PaymentMethod: "cash", Total: 1250.75, Date: day(10),
			TaxDeductible: true,
		},
		{
			ID: "r4", UserID: "u1", StoreName: "Uber", Category: "Transport",
			Subcategory: "ride-hailing", Total: 85.00, Date: day(10),
		},
		{
			ID: "r5", UserID: "u2", StoreName: "Woolworths", Category: "Groceries",
			Total: 300.00, Date: day(2),
		},
	}

	store := storage.NewMemoryStorage()
	for i := range receipts {
		require.NoError(t, store.SaveReceipt(context.Background(), &receipts[i]))
	}
	return NewEngine(store)
}

func resultIDs(r Result) []string {
	ids := make([]string, 0, len(r.Receipts))
	for _, receipt := range r.Receipts {
		ids = append(ids, receipt.ID)
	}
	return ids
}

func TestSearchNoFiltersReturnsEverything(t *testing.T) {
	e := seedEngine(t)

	result := e.Search(context.Background(), "u1", "", Filters{}, 0, 0)
	assert.Equal(t, 4, result.TotalCount)
	assert.Len(t, result.Receipts, 4)

	// Newest first.
	for i := 1; i < len(result.Receipts); i++ {
		assert.False(t, result.Receipts[i].Date.After(result.Receipts[i-1].Date))
	}
}

func TestSearchScopedToUser(t *testing.T) {
	e := seedEngine(t)

	result := e.Search(context.Background(), "u2", "", Filters{}, 0, 0)
	assert.Equal(t, []string{"r5"}, resultIDs(result))
}

func TestSearchFilters(t *testing.T) {
	e := seedEngine(t)

	start := day(5)
	end := day(9)
	minAmount := 100.0
	maxAmount := 500.0
	deductible := true

	tests := []struct {
		name    string
		filters Filters
		wantIDs []string
	}{
		{
			name:    "date range",
			filters: Filters{StartDate: &start, EndDate: &end},
			wantIDs: []string{"r2"},
		},
		{
			name:    "amount range",
			filters: Filters{MinAmount: &minAmount, MaxAmount: &maxAmount},
			wantIDs: []string{"r2", "r1"},
		},
		{
			name:    "category",
			filters: Filters{Categories: []string{"groceries"}},
			wantIDs: []string{"r3", "r1"},
		},
		{
			name:    "store normalized",
			filters: Filters{Stores: []string{"WOOLWORTHS"}},
			wantIDs: []string{"r1"},
		},
		{
			name:    "payment method",
			filters: Filters{PaymentMethods: []string{"Cash"}},
			wantIDs: []string{"r3"},
		},
		{
			name:    "tax deductible",
			filters: Filters{TaxDeductible: &deductible},
			wantIDs: []string{"r3"},
		},
		{
			name:    "filters are conjunctive",
			filters: Filters{Categories: []string{"groceries"}, MaxAmount: &maxAmount},
			wantIDs: []string{"r1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Search(context.Background(), "u1", "", tt.filters, 0, 0)
			assert.Equal(t, tt.wantIDs, resultIDs(result))
		})
	}
}

func TestSearchQueryTokens(t *testing.T) {
	e := seedEngine(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"store name", "netflix", []string{"r2"}},
		{"notes", "family", []string{"r2"}},
		{"item name", "eggs", []string{"r1"}},
		{"subcategory", "ride-hailing", []string{"r4"}},
		{"payment method", "cash", []string{"r3"}},
		{"any token matches", "netflix uber", []string{"r4", "r2"}},
		{"case insensitive", "NETFLIX", []string{"r2"}},
		{"no match", "zanzibar", nil},
		{"whitespace only is no filter", "   ", []string{"r3", "r4", "r2", "r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Search(context.Background(), "u1", tt.query, Filters{}, 0, 0)
			if tt.wantIDs == nil {
				assert.Empty(t, result.Receipts)
				return
			}
			assert.Equal(t, tt.wantIDs, resultIDs(result))
		})
	}
}

func TestSearchPagination(t *testing.T) {
	e := seedEngine(t)

	page1 := e.Search(context.Background(), "u1", "", Filters{}, 2, 0)
	assert.Equal(t, 4, page1.TotalCount)
	assert.Len(t, page1.Receipts, 2)

	page2 := e.Search(context.Background(), "u1", "", Filters{}, 2, 2)
	assert.Equal(t, 4, page2.TotalCount)
	assert.Len(t, page2.Receipts, 2)
	assert.NotEqual(t, resultIDs(page1), resultIDs(page2))

	beyond := e.Search(context.Background(), "u1", "", Filters{}, 2, 10)
	assert.Equal(t, 4, beyond.TotalCount)
	assert.Empty(t, beyond.Receipts)
}

func TestSearchFacetsComputedBeforePagination(t *testing.T) {
	e := seedEngine(t)

	result := e.Search(context.Background(), "u1", "", Filters{}, 1, 0)
	require.Len(t, result.Receipts, 1)

	assert.Equal(t, 2, result.Facets.Categories["Groceries"])
	assert.Equal(t, 1, result.Facets.Categories["Subscriptions"])
	assert.Equal(t, 1, result.Facets.Stores["Netflix"])
	assert.Equal(t, 1, result.Facets.PaymentMethods["cash"])
	assert.Equal(t, 1, result.Facets.AmountRanges["<50"]+result.Facets.AmountRanges["50-100"])
	assert.Equal(t, 1, result.Facets.AmountRanges[">1000"])
}

func TestSearchFacetsRespectFilters(t *testing.T) {
	e := seedEngine(t)

	result := e.Search(context.Background(), "u1", "", Filters{Categories: []string{"Groceries"}}, 0, 0)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 2, result.Facets.Categories["Groceries"])
	assert.Zero(t, result.Facets.Categories["Subscriptions"])
}

type offlineStore struct {
	*storage.MemoryStorage
}

func (o *offlineStore) GetReceiptsByUser(_ context.Context, _ string) ([]model.Receipt, error) {
	return nil, errors.New("storage offline")
}

func TestSearchStorageFailureDegrades(t *testing.T) {
	e := NewEngine(&offlineStore{storage.NewMemoryStorage()})

	result := e.Search(context.Background(), "u1", "anything", Filters{}, 10, 0)
	assert.Zero(t, result.TotalCount)
	assert.Empty(t, result.Receipts)
	assert.NotNil(t, result.Facets.Categories)
}

func TestAmountBucket(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{0, "<50"},
		{49.99, "<50"},
		{50, "50-100"},
		{99.99, "50-100"},
		{100, "100-250"},
		{250, "250-500"},
		{500, "500-1000"},
		{999.99, "500-1000"},
		{1000, ">1000"},
		{5000, ">1000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, amountBucket(tt.total), "total %.2f", tt.total)
	}
}

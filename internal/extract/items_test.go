package extract

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteahq/receiptiq/internal/model"
)

func defaultItemChain(t *testing.T) []*regexp.Regexp {
	t.Helper()
	chain, err := compileChain(defaultItemPatterns)
	require.NoError(t, err)
	return chain
}

func TestExtractItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []model.ReceiptItem
	}{
		{
			name: "quantity form",
			text: "2 x Full Cream Milk 2L 39.98\n1 x Brown Bread 21.99",
			want: []model.ReceiptItem{
				{Name: "Full Cream Milk 2L", Price: "39.98"},
				{Name: "Brown Bread", Price: "21.99"},
			},
		},
		{
			name: "plain name price form",
			text: "Cheddar Cheese 500g R89.99\nTomatoes 1kg 24.99",
			want: []model.ReceiptItem{
				{Name: "Cheddar Cheese 500g", Price: "89.99"},
				{Name: "Tomatoes 1kg", Price: "24.99"},
			},
		},
		{
			name: "totals and tax lines excluded",
			text: "Tomatoes 24.99\nSubtotal 24.99\nVAT 3.75\nTotal 28.74",
			want: []model.ReceiptItem{
				{Name: "Tomatoes", Price: "24.99"},
			},
		},
		{
			name: "comma separators normalized",
			text: "Laptop Stand 1,299.00",
			want: []model.ReceiptItem{
				{Name: "Laptop Stand", Price: "1299.00"},
			},
		},
		{
			name: "duplicates and order preserved",
			text: "Coffee 34.99\nCoffee 34.99\nRusks 42.50",
			want: []model.ReceiptItem{
				{Name: "Coffee", Price: "34.99"},
				{Name: "Coffee", Price: "34.99"},
				{Name: "Rusks", Price: "42.50"},
			},
		},
		{
			name: "no price lines yields nothing",
			text: "Thank you for shopping with us",
			want: nil,
		},
	}

	chain := defaultItemChain(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractItems(tt.text, chain, 0)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractItemsFirstPatternWins(t *testing.T) {
	// The quantity pattern matches, so the plain pattern never runs even
	// though it would also match these lines.
	chain := defaultItemChain(t)
	got := extractItems("3 x Yoghurt 53.97", chain, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Yoghurt", got[0].Name)
	assert.Equal(t, "53.97", got[0].Price)
}

func TestExtractItemsEmptyAfterFiltering(t *testing.T) {
	// A pattern that matched raw lines wins even when every match is a
	// filtered label line; later patterns are not consulted.
	chain := defaultItemChain(t)
	got := extractItems("Subtotal 100.00\nVAT 15.00", chain, 0)
	assert.Empty(t, got)
}

func TestExtractItemsCap(t *testing.T) {
	text := ""
	for i := 0; i < 10; i++ {
		text += "Item line 10.00\n"
	}

	chain := defaultItemChain(t)
	got := extractItems(text, chain, 3)
	assert.Len(t, got, 3)
}

func TestExcludeLineRe(t *testing.T) {
	excluded := []string{
		"Subtotal", "SUB TOTAL", "sub-total", "Total", "Grand Total",
		"VAT", "Tax", "Discount", "Savings", "Change", "Cash", "Card",
		"Balance", "Amount Due", "Delivery", "Tip", "Rounding",
	}
	for _, line := range excluded {
		assert.True(t, excludeLineRe.MatchString(line), "expected %q excluded", line)
	}

	kept := []string{"Tomatoes", "Cardamom Pods", "Tipp-Ex", "Totally Bamboo Board"}
	for _, line := range kept {
		assert.False(t, excludeLineRe.MatchString(line), "expected %q kept", line)
	}
}

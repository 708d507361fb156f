package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTotal(t *testing.T) {
	matchers := compileTotalMatchers([]string{"Grand Total", "Total"})

	tests := []struct {
		name         string
		text         string
		wantTotal    float64
		wantCurrency string
		wantOK       bool
	}{
		{
			name:         "rand symbol",
			text:         "Total: R1,234.56",
			wantTotal:    1234.56,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "rand symbol with space",
			text:         "Total: R 349.99",
			wantTotal:    349.99,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "dollar symbol",
			text:         "Total: $15.99",
			wantTotal:    15.99,
			wantCurrency: "USD",
			wantOK:       true,
		},
		{
			name:         "explicit ZAR code",
			text:         "Total: ZAR 199.00",
			wantTotal:    199,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "bare amount defaults to ZAR",
			text:         "Total 42.50",
			wantTotal:    42.5,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "no colon",
			text:         "Grand Total R85.00",
			wantTotal:    85,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "earlier label wins over later label",
			text:         "Total: R10.00\nGrand Total: R99.99",
			wantTotal:    99.99,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "zero amount falls through to next matcher",
			text:         "Grand Total: 0.00\nTotal: R55.00",
			wantTotal:    55,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:         "subtotal line does not satisfy the total label",
			text:         "Subtotal: R450.00\nTotal: R482.50",
			wantTotal:    482.50,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
		{
			name:   "only zero amounts fails",
			text:   "Total: R0.00",
			wantOK: false,
		},
		{
			name:   "no label at all",
			text:   "thanks for shopping",
			wantOK: false,
		},
		{
			name:         "integer amount",
			text:         "Total: R250",
			wantTotal:    250,
			wantCurrency: "ZAR",
			wantOK:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, currency, ok := extractTotal(tt.text, matchers)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantTotal, total, 1e-9)
				assert.Equal(t, tt.wantCurrency, currency)
			}
		})
	}
}

func TestCurrencyVariantOrder(t *testing.T) {
	// The R variant is tried before the bare variant, so a rand-prefixed
	// amount never parses as a bare number with the R swallowed.
	matchers := compileTotalMatchers([]string{"Total"})
	total, currency, ok := extractTotal("Total: R1,234.56", matchers)
	assert.True(t, ok)
	assert.InDelta(t, 1234.56, total, 1e-9)
	assert.Equal(t, "ZAR", currency)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"1,234.56", 1234.56, false},
		{"199.00", 199, false},
		{"42", 42, false},
		{" 85.50 ", 85.5, false},
		{"12,345,678.90", 12345678.9, false},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got.InexactFloat64(), 1e-9)
		})
	}
}

func TestCanonicalPrice(t *testing.T) {
	assert.Equal(t, "1234.56", canonicalPrice("1,234.56"))
	assert.Equal(t, "34.99", canonicalPrice("34.99"))
	assert.Equal(t, "199", canonicalPrice("199"))
}

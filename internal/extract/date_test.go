package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "iso date",
			text:   "Order placed on 2026-03-15",
			want:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "day month year",
			text:   "Delivered 15 Mar 2026 to your door",
			want:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "full month name",
			text:   "Invoice date: 3 September 2026",
			want:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "slash date day first",
			text:   "Date: 15/3/2026",
			want:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "dash separated numeric date",
			text:   "Date: 15-03-2026",
			want:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso wins over later formats",
			text:   "2026-01-02 ... also 15 Mar 2026",
			want:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "iso lookalike in order id skipped",
			text:   "Ref 2026-99-99 ... Paid on 2026-03-15",
			want:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "invalid slash date skipped for later valid one",
			text:   "Batch 32/13/2026, purchased 15/3/2026",
			want:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "invalid month rejected",
			text:   "Date: 15/13/2026",
			wantOK: false,
		},
		{
			name:   "invalid day rejected",
			text:   "Date: 32/01/2026",
			wantOK: false,
		},
		{
			name:   "february overflow rejected",
			text:   "2026-02-30",
			wantOK: false,
		},
		{
			name:   "no date at all",
			text:   "Total: R100.00",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractDate(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMakeDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		wantOK           bool
	}{
		{"valid", 2026, 3, 15, true},
		{"leap day on leap year", 2024, 2, 29, true},
		{"leap day on non-leap year", 2026, 2, 29, false},
		{"month thirteen", 2026, 13, 1, false},
		{"month zero", 2026, 0, 1, false},
		{"day thirty two", 2026, 1, 32, false},
		{"april thirty one", 2026, 4, 31, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := makeDate(tt.year, tt.month, tt.day)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

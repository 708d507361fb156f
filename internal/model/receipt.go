// Package model defines the core entities of the receipt pipeline.
package model

import (
	"fmt"
	"time"
)

// Frequency is the cadence of a recurring expense.
type Frequency string

const (
	// FrequencyWeekly is an average occurrence gap of at most 10 days.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly is an average occurrence gap of at most 45 days.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyQuarterly is an average occurrence gap of at most 120 days.
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyYearly is any larger average occurrence gap.
	FrequencyYearly Frequency = "yearly"
)

// ReceiptItem is one line item on a receipt. Order is preserved and
// duplicates are kept.
type ReceiptItem struct {
	Name  string `json:"name"`
	Price string `json:"price"` // decimal string, e.g. "34.99"
}

// Receipt represents a single purchase event. The ID is assigned at
// creation and never changes.
type Receipt struct {
	Date            time.Time
	CreatedAt       time.Time
	ID              string
	UserID          string
	StoreName       string
	Currency        string
	Category        string
	Subcategory     string
	PaymentMethod   string
	Notes           string
	OrderID         string
	Frequency       Frequency // empty when not recurring
	Items           []ReceiptItem
	Tags            []string
	Total           float64
	ConfidenceScore float64
	IsRecurring     bool
	TaxDeductible   bool
}

// Validate ensures the receipt satisfies the pipeline's invariants.
func (r *Receipt) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("receipt id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if r.Total < 0 {
		return fmt.Errorf("total must not be negative, got %.2f", r.Total)
	}
	if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
		return fmt.Errorf("confidence score must be between 0 and 1, got %f", r.ConfidenceScore)
	}
	switch r.Frequency {
	case "", FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
	default:
		return fmt.Errorf("invalid frequency %q", r.Frequency)
	}
	return nil
}

// ExtractedReceipt is the output of deterministic field extraction (or
// of the external OCR/LLM fallback, which returns the same shape).
type ExtractedReceipt struct {
	Date       time.Time
	StoreName  string
	Currency   string
	OrderID    string
	Items      []ReceiptItem
	Total      float64
	Confidence float64
}

// RecurringPattern is an inferred repeating expense. It is computed
// fresh from receipt history on each query and has no lifecycle of
// its own.
type RecurringPattern struct {
	NextExpectedDate time.Time
	StoreName        string
	Category         string
	Frequency        Frequency
	AverageAmount    float64
	Confidence       float64
	VarianceRatio    float64
	Occurrences      int
}

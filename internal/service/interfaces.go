// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/proteahq/receiptiq/internal/model"
)

// Storage defines the contract for the receipt persistence layer. The
// pipeline treats read failures as an empty history; only write paths
// surface errors to the caller.
type Storage interface {
	SaveReceipt(ctx context.Context, receipt *model.Receipt) error
	GetReceipt(ctx context.Context, id string) (*model.Receipt, error)
	GetReceiptsByUser(ctx context.Context, userID string) ([]model.Receipt, error)
	GetReceiptsByUserSince(ctx context.Context, userID string, since time.Time) ([]model.Receipt, error)
	UpdateReceipt(ctx context.Context, receipt *model.Receipt) error
	ListUserIDs(ctx context.Context) ([]string, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// FallbackExtractor is the external OCR/LLM field-extraction oracle the
// pipeline consults when deterministic extraction fails. It returns the
// same shape as the rule-based extractor.
type FallbackExtractor interface {
	ExtractFields(ctx context.Context, text string) (*model.ExtractedReceipt, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

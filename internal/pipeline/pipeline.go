// Package pipeline wires the receipt intelligence stages together:
// vendor identification, field extraction (with OCR/LLM fallback),
// duplicate detection and recurring annotation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/dedupe"
	"github.com/proteahq/receiptiq/internal/extract"
	"github.com/proteahq/receiptiq/internal/merchant"
	"github.com/proteahq/receiptiq/internal/model"
	"github.com/proteahq/receiptiq/internal/recurring"
	"github.com/proteahq/receiptiq/internal/service"
)

// fallbackConfidencePenalty scales oracle-derived confidence so a
// fallback extraction always trusts less than a vendor rule set.
const fallbackConfidencePenalty = 0.8

// Pipeline runs an inbound message through every ingestion stage.
type Pipeline struct {
	identifier *merchant.Identifier
	extractor  *extract.Extractor
	fallback   service.FallbackExtractor
	detector   *dedupe.Detector
	analyzer   *recurring.Analyzer
	store      service.Storage
	now        func() time.Time
}

// Outcome describes one ingestion run. When Duplicates is non-empty
// the receipt was not persisted; blocking, merging or flagging is the
// caller's decision.
type Outcome struct {
	Receipt      *model.Receipt
	Vendor       merchant.Identification
	Duplicates   []model.Receipt
	Recurring    recurring.Analysis
	UsedFallback bool
	Persisted    bool
}

// New assembles a pipeline. The fallback extractor may be nil, in
// which case extraction misses are surfaced as errors.
func New(identifier *merchant.Identifier, extractor *extract.Extractor, fallback service.FallbackExtractor, store service.Storage, sets recurring.CuratedSets) *Pipeline {
	return &Pipeline{
		identifier: identifier,
		extractor:  extractor,
		fallback:   fallback,
		detector:   dedupe.NewDetector(store),
		analyzer:   recurring.NewAnalyzer(store, sets),
		store:      store,
		now:        time.Now,
	}
}

// Ingest turns a raw inbound message into a persisted, annotated
// receipt. The only hard failures are "no fields extractable" and a
// failed write; analysis failures degrade per stage.
func (p *Pipeline) Ingest(ctx context.Context, userID string, msg merchant.InboundMessage) (*Outcome, error) {
	ident := p.identifier.Identify(msg)

	var extracted *model.ExtractedReceipt
	usedFallback := false

	if ident.Vendor != "" {
		if ex, ok := p.extractor.Extract(ident.Vendor, msg.BodyText); ok {
			extracted = ex
		} else {
			slog.Debug("deterministic extraction failed, falling back",
				"vendor", ident.Vendor, "user_id", userID)
		}
	}

	if extracted == nil {
		if p.fallback == nil {
			return nil, fmt.Errorf("extract receipt: %w", common.ErrNoFallback)
		}

		err := common.WithRetry(ctx, func() error {
			ex, err := p.fallback.ExtractFields(ctx, msg.BodyText)
			if err != nil {
				return err
			}
			extracted = ex
			return nil
		}, service.RetryOptions{MaxAttempts: 3})
		if err != nil {
			return nil, fmt.Errorf("fallback extraction: %w", err)
		}
		usedFallback = true
		extracted.Confidence *= fallbackConfidencePenalty
	}

	receipt := &model.Receipt{
		ID:              uuid.New().String(),
		UserID:          userID,
		StoreName:       extracted.StoreName,
		Date:            extracted.Date,
		Total:           extracted.Total,
		Currency:        extracted.Currency,
		Items:           extracted.Items,
		OrderID:         extracted.OrderID,
		ConfidenceScore: extracted.Confidence,
		CreatedAt:       p.now(),
	}
	if err := receipt.Validate(); err != nil {
		return nil, fmt.Errorf("extracted receipt invalid: %w", err)
	}

	outcome := &Outcome{
		Receipt:      receipt,
		Vendor:       ident,
		UsedFallback: usedFallback,
	}

	outcome.Duplicates = p.detector.FindDuplicates(ctx, userID, receipt.StoreName, receipt.Date, receipt.Total)
	if len(outcome.Duplicates) > 0 {
		slog.Info("duplicate receipt detected, not persisting",
			"user_id", userID, "store", receipt.StoreName, "candidates", len(outcome.Duplicates))
		return outcome, nil
	}

	outcome.Recurring = p.analyzer.Analyze(ctx, userID, *receipt)
	if outcome.Recurring.IsRecurring && outcome.Recurring.Pattern != nil {
		receipt.IsRecurring = true
		receipt.Frequency = outcome.Recurring.Pattern.Frequency
	}

	if err := p.store.SaveReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("save receipt: %w", err)
	}
	outcome.Persisted = true

	return outcome, nil
}

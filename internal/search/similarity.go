package search

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/model"
)

// Similarity weights. The sum is a ranking key, not a calibrated
// probability; tunable policy.
const (
	sameStoreWeight    = 0.4
	sameCategoryWeight = 0.3
	closeAmountWeight  = 0.2
	itemOverlapWeight  = 0.1

	closeAmountRatio = 0.2
)

// Similarity scores how related two receipts are for "find similar"
// features. Higher ranks first.
func Similarity(a, b model.Receipt) float64 {
	score := 0.0

	if model.NormalizeStoreName(a.StoreName) == model.NormalizeStoreName(b.StoreName) {
		score += sameStoreWeight
	}
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		score += sameCategoryWeight
	}
	if amountsClose(a.Total, b.Total) {
		score += closeAmountWeight
	}
	score += itemOverlapWeight * itemOverlap(a.Items, b.Items)

	return score
}

// FindSimilar ranks the user's other receipts by similarity to the
// given one and returns the top matches.
func (e *Engine) FindSimilar(ctx context.Context, userID string, receipt model.Receipt, limit int) []model.Receipt {
	receipts, err := e.store.GetReceiptsByUser(ctx, userID)
	if err != nil {
		common.LogError(err, "find-similar could not load receipts", common.Fields{"user_id": userID})
		return nil
	}

	type scored struct {
		receipt model.Receipt
		score   float64
	}
	candidates := make([]scored, 0, len(receipts))
	for _, r := range receipts {
		if r.ID == receipt.ID {
			continue
		}
		if s := Similarity(receipt, r); s > 0 {
			candidates = append(candidates, scored{receipt: r, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]model.Receipt, len(candidates))
	for i, c := range candidates {
		result[i] = c.receipt
	}
	return result
}

func amountsClose(a, b float64) bool {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return true
	}
	return math.Abs(a-b)/larger < closeAmountRatio
}

// itemOverlap is a Jaccard-style ratio over lowercased item names.
func itemOverlap(a, b []model.ReceiptItem) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, item := range a {
		setA[strings.ToLower(item.Name)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, item := range b {
		setB[strings.ToLower(item.Name)] = struct{}{}
	}

	var intersection int
	for name := range setA {
		if _, ok := setB[name]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

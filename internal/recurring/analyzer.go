// Package recurring infers repeating expense patterns from a user's
// receipt history using fuzzy store-name matching and amount-variance
// analysis.
package recurring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/model"
	"github.com/proteahq/receiptiq/internal/service"
)

// Heuristic thresholds and confidence weights. These are hand-tuned
// policy values kept for behavioral compatibility, not statistical
// probabilities.
const (
	storeSimilarityThreshold = 0.8
	amountSimilarityRatio    = 0.2

	minSimilarForAnalysis   = 2
	minOccurrencesForBulk   = 3
	recurringThreshold      = 0.7
	bulkConfidenceThreshold = 0.6

	occurrenceWeight      = 0.15
	occurrenceWeightCap   = 0.4
	knownMerchantWeight   = 0.3
	knownCategoryWeight   = 0.2
	lowVarianceWeight     = 0.2
	mediumVarianceWeight  = 0.1
	monthlyCadenceWeight  = 0.1
	lowVarianceThreshold  = 0.1
	mediumVarianceLimit   = 0.2
	historyWindowMonths   = 12
)

// Analysis is the result of single-receipt recurring analysis. A
// failed or empty analysis is the zero value: not recurring, zero
// confidence, no similar receipts.
type Analysis struct {
	Pattern         *model.RecurringPattern
	SimilarReceipts []model.Receipt
	Confidence      float64
	IsRecurring     bool
}

// Analyzer detects recurring expense patterns. It is stateless apart
// from its injected collaborators and never returns an error to its
// caller: every failure degrades to "no pattern found".
type Analyzer struct {
	store service.Storage
	sets  CuratedSets
	now   func() time.Time
}

// NewAnalyzer creates an analyzer with the given curated sets.
func NewAnalyzer(store service.Storage, sets CuratedSets) *Analyzer {
	return &Analyzer{store: store, sets: sets, now: time.Now}
}

// Analyze checks whether the given receipt is part of a repeating
// series within the user's last 12 months of history.
func (a *Analyzer) Analyze(ctx context.Context, userID string, receipt model.Receipt) (analysis Analysis) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError(fmt.Errorf("%v", r), "recurring analysis panicked", common.Fields{"user_id": userID})
			analysis = Analysis{}
		}
	}()

	since := a.now().AddDate(0, -historyWindowMonths, 0)
	history, err := a.store.GetReceiptsByUserSince(ctx, userID, since)
	if err != nil {
		common.LogError(err, "recurring analysis could not load history", common.Fields{"user_id": userID})
		return Analysis{}
	}

	similar := a.findSimilar(receipt, history)
	if len(similar) < minSimilarForAnalysis {
		return Analysis{SimilarReceipts: similar}
	}

	series := append(append([]model.Receipt{}, similar...), receipt)
	pattern := a.buildPattern(receipt.StoreName, receipt.Category, series)

	return Analysis{
		IsRecurring:     pattern.Confidence > recurringThreshold,
		Confidence:      pattern.Confidence,
		Pattern:         pattern,
		SimilarReceipts: similar,
	}
}

// Discover runs bulk pattern discovery over a user's whole history:
// receipts grouped by normalized store name, groups of at least three
// analyzed, and weak patterns dropped.
func (a *Analyzer) Discover(ctx context.Context, userID string) (patterns []model.RecurringPattern) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError(fmt.Errorf("%v", r), "pattern discovery panicked", common.Fields{"user_id": userID})
			patterns = nil
		}
	}()

	history, err := a.store.GetReceiptsByUser(ctx, userID)
	if err != nil {
		common.LogError(err, "pattern discovery could not load history", common.Fields{"user_id": userID})
		return nil
	}

	groups := make(map[string][]model.Receipt)
	for _, r := range history {
		key := model.NormalizeStoreName(r.StoreName)
		groups[key] = append(groups[key], r)
	}

	for _, group := range groups {
		if len(group) < minOccurrencesForBulk {
			continue
		}

		latest := latestReceipt(group)
		pattern := a.buildPattern(latest.StoreName, modalCategory(group), group)
		if pattern.Confidence <= bulkConfidenceThreshold {
			continue
		}
		patterns = append(patterns, *pattern)
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].StoreName < patterns[j].StoreName
	})

	return patterns
}

// findSimilar returns history receipts whose normalized store name is
// close enough and whose amount is within the relative tolerance of
// the candidate. The candidate itself is excluded by ID.
func (a *Analyzer) findSimilar(receipt model.Receipt, history []model.Receipt) []model.Receipt {
	wantStore := model.NormalizeStoreName(receipt.StoreName)

	var similar []model.Receipt
	for _, r := range history {
		if r.ID != "" && r.ID == receipt.ID {
			continue
		}
		if Similarity(wantStore, model.NormalizeStoreName(r.StoreName)) < storeSimilarityThreshold {
			continue
		}
		if !amountsSimilar(receipt.Total, r.Total) {
			continue
		}
		similar = append(similar, r)
	}
	return similar
}

func amountsSimilar(a, b float64) bool {
	if a == 0 {
		return b == 0
	}
	return math.Abs(a-b)/math.Abs(a) <= amountSimilarityRatio
}

// buildPattern computes the pattern for a series of receipts that have
// already been judged to belong together.
func (a *Analyzer) buildPattern(storeName, category string, series []model.Receipt) *model.RecurringPattern {
	dates := make([]time.Time, len(series))
	amounts := make([]float64, len(series))
	last := series[0].Date
	for i, r := range series {
		dates[i] = r.Date
		amounts[i] = r.Total
		if r.Date.After(last) {
			last = r.Date
		}
	}

	freq := DetectFrequency(dates)
	vr := varianceRatio(amounts)
	similarCount := len(series) - 1

	return &model.RecurringPattern{
		StoreName:        storeName,
		Category:         category,
		Frequency:        freq,
		AverageAmount:    mean(amounts),
		Confidence:       a.confidence(storeName, category, similarCount, freq, vr),
		Occurrences:      len(series),
		VarianceRatio:    vr,
		NextExpectedDate: NextExpectedDate(last, freq),
	}
}

// confidence is the additive heuristic score, clamped to 1.0. It is
// monotone non-decreasing in the similar-occurrence count.
func (a *Analyzer) confidence(storeName, category string, similarCount int, freq model.Frequency, vr float64) float64 {
	score := occurrenceWeight * float64(similarCount)
	if score > occurrenceWeightCap {
		score = occurrenceWeightCap
	}

	if _, ok := a.sets.RecurringMerchants[model.NormalizeStoreName(storeName)]; ok {
		score += knownMerchantWeight
	}
	if _, ok := a.sets.RecurringCategories[category]; ok {
		score += knownCategoryWeight
	}

	switch {
	case vr < lowVarianceThreshold:
		score += lowVarianceWeight
	case vr < mediumVarianceLimit:
		score += mediumVarianceWeight
	}

	if freq == model.FrequencyMonthly && similarCount >= 3 {
		score += monthlyCadenceWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// varianceRatio is the coefficient of variation: population standard
// deviation divided by the mean. A zero mean yields zero.
func varianceRatio(amounts []float64) float64 {
	if len(amounts) == 0 {
		return 0
	}
	m := mean(amounts)
	if m == 0 {
		return 0
	}

	var sumSq float64
	for _, v := range amounts {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq/float64(len(amounts))) / m
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func latestReceipt(group []model.Receipt) model.Receipt {
	latest := group[0]
	for _, r := range group[1:] {
		if r.Date.After(latest.Date) {
			latest = r
		}
	}
	return latest
}

// modalCategory picks the most common category in a group, breaking
// ties toward the lexically smaller name for determinism.
func modalCategory(group []model.Receipt) string {
	counts := make(map[string]int)
	for _, r := range group {
		if r.Category != "" {
			counts[r.Category]++
		}
	}

	best, bestCount := "", 0
	for cat, n := range counts {
		if n > bestCount || (n == bestCount && cat < best) {
			best, bestCount = cat, n
		}
	}
	return best
}

package recurring

import (
	"sort"
	"time"

	"github.com/proteahq/receiptiq/internal/model"
)

// Frequency bucket boundaries on the average day-gap between
// consecutive occurrences. Tunable policy.
const (
	weeklyMaxGapDays    = 10
	monthlyMaxGapDays   = 45
	quarterlyMaxGapDays = 120
)

// DetectFrequency buckets the average gap between consecutive dates.
// With fewer than two dates there is nothing to average; monthly is
// the default assumption.
func DetectFrequency(dates []time.Time) model.Frequency {
	if len(dates) < 2 {
		return model.FrequencyMonthly
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var totalDays float64
	for i := 1; i < len(sorted); i++ {
		totalDays += sorted[i].Sub(sorted[i-1]).Hours() / 24
	}
	avgGap := totalDays / float64(len(sorted)-1)

	switch {
	case avgGap <= weeklyMaxGapDays:
		return model.FrequencyWeekly
	case avgGap <= monthlyMaxGapDays:
		return model.FrequencyMonthly
	case avgGap <= quarterlyMaxGapDays:
		return model.FrequencyQuarterly
	default:
		return model.FrequencyYearly
	}
}

// NextExpectedDate advances the last occurrence by one unit of the
// detected frequency.
func NextExpectedDate(last time.Time, freq model.Frequency) time.Time {
	switch freq {
	case model.FrequencyWeekly:
		return last.AddDate(0, 0, 7)
	case model.FrequencyMonthly:
		return last.AddDate(0, 1, 0)
	case model.FrequencyQuarterly:
		return last.AddDate(0, 3, 0)
	case model.FrequencyYearly:
		return last.AddDate(1, 0, 0)
	default:
		return last.AddDate(0, 1, 0)
	}
}

// Package dedupe detects receipts that already represent the same
// purchase. It only reports candidates; blocking, merging or flagging
// is the caller's decision.
package dedupe

import (
	"context"
	"math"
	"time"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/model"
	"github.com/proteahq/receiptiq/internal/service"
)

// amountTolerance absorbs floating point and rounding noise between
// sources reporting the same purchase.
const amountTolerance = 0.01

// Detector finds stored receipts matching a candidate purchase.
type Detector struct {
	store service.Storage
}

// NewDetector creates a duplicate detector backed by the given store.
func NewDetector(store service.Storage) *Detector {
	return &Detector{store: store}
}

// FindDuplicates returns existing receipts considered to represent the
// same purchase: same calendar day, same normalized store name, and
// amount within the tolerance. All three must agree. A storage read
// failure degrades to an empty history.
func (d *Detector) FindDuplicates(ctx context.Context, userID, storeName string, date time.Time, total float64) []model.Receipt {
	history, err := d.store.GetReceiptsByUser(ctx, userID)
	if err != nil {
		common.LogError(err, "duplicate check could not load history", common.Fields{"user_id": userID})
		return nil
	}

	day := truncateToDay(date)
	wantStore := model.NormalizeStoreName(storeName)

	var duplicates []model.Receipt
	for _, r := range history {
		if !truncateToDay(r.Date).Equal(day) {
			continue
		}
		if model.NormalizeStoreName(r.StoreName) != wantStore {
			continue
		}
		if math.Abs(r.Total-total) > amountTolerance+1e-9 {
			continue
		}
		duplicates = append(duplicates, r)
	}

	return duplicates
}

// truncateToDay drops the time-of-day component; duplicate matching is
// exact-day with no tolerance window. The instant is moved to UTC
// first so the same moment carried in different locations lands on the
// same day.
func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

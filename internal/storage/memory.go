package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/model"
)

// MemoryStorage implements service.Storage with an in-memory map,
// guarded by a RWMutex. It backs tests and fixtures.
type MemoryStorage struct {
	mu       sync.RWMutex
	receipts map[string]model.Receipt
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{receipts: make(map[string]model.Receipt)}
}

// SaveReceipt stores a copy of the receipt.
func (m *MemoryStorage) SaveReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.receipts[receipt.ID]; exists {
		return fmt.Errorf("receipt %s: %w", receipt.ID, common.ErrDuplicateEntry)
	}
	m.receipts[receipt.ID] = *receipt
	return nil
}

// GetReceipt fetches one receipt by id.
func (m *MemoryStorage) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	receipt, ok := m.receipts[id]
	if !ok {
		return nil, fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}
	return &receipt, nil
}

// GetReceiptsByUser returns all of a user's receipts, newest first.
func (m *MemoryStorage) GetReceiptsByUser(ctx context.Context, userID string) ([]model.Receipt, error) {
	return m.list(ctx, userID, nil)
}

// GetReceiptsByUserSince returns a user's receipts on or after the
// given time, newest first.
func (m *MemoryStorage) GetReceiptsByUserSince(ctx context.Context, userID string, since time.Time) ([]model.Receipt, error) {
	return m.list(ctx, userID, &since)
}

// UpdateReceipt replaces a stored receipt.
func (m *MemoryStorage) UpdateReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.receipts[receipt.ID]; !ok {
		return fmt.Errorf("receipt %s: %w", receipt.ID, common.ErrNotFound)
	}
	m.receipts[receipt.ID] = *receipt
	return nil
}

// ListUserIDs returns every user with at least one stored receipt.
func (m *MemoryStorage) ListUserIDs(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range m.receipts {
		seen[r.UserID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Migrate is a no-op for the in-memory store.
func (m *MemoryStorage) Migrate(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) list(ctx context.Context, userID string, since *time.Time) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var receipts []model.Receipt
	for _, r := range m.receipts {
		if r.UserID != userID {
			continue
		}
		if since != nil && r.Date.Before(*since) {
			continue
		}
		receipts = append(receipts, r)
	}

	sort.Slice(receipts, func(i, j int) bool {
		if !receipts[i].Date.Equal(receipts[j].Date) {
			return receipts[i].Date.After(receipts[j].Date)
		}
		return receipts[i].ID < receipts[j].ID
	})
	return receipts, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/proteahq/receiptiq/internal/common"
	"github.com/proteahq/receiptiq/internal/model"
)

const receiptColumns = `id, user_id, store_name, date, total, currency, category, subcategory,
	payment_method, notes, order_id, items, tags, confidence_score, is_recurring,
	frequency, tax_deductible, created_at`

// SaveReceipt inserts a new receipt.
func (s *SQLiteStorage) SaveReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}

	itemsJSON, tagsJSON, err := marshalReceiptLists(receipt)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO receipts (`+receiptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.UserID, receipt.StoreName, receipt.Date, receipt.Total,
		receipt.Currency, receipt.Category, receipt.Subcategory, receipt.PaymentMethod,
		receipt.Notes, receipt.OrderID, itemsJSON, tagsJSON, receipt.ConfidenceScore,
		receipt.IsRecurring, string(receipt.Frequency), receipt.TaxDeductible, receipt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

// GetReceipt fetches one receipt by id.
func (s *SQLiteStorage) GetReceipt(ctx context.Context, id string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = ?`, id)
	receipt, err := scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return receipt, nil
}

// GetReceiptsByUser returns all of a user's receipts, newest first.
func (s *SQLiteStorage) GetReceiptsByUser(ctx context.Context, userID string) ([]model.Receipt, error) {
	return s.queryReceipts(ctx, userID,
		`SELECT `+receiptColumns+` FROM receipts WHERE user_id = ? ORDER BY date DESC`, userID)
}

// GetReceiptsByUserSince returns a user's receipts on or after the
// given time, newest first.
func (s *SQLiteStorage) GetReceiptsByUserSince(ctx context.Context, userID string, since time.Time) ([]model.Receipt, error) {
	return s.queryReceipts(ctx, userID,
		`SELECT `+receiptColumns+` FROM receipts WHERE user_id = ? AND date >= ? ORDER BY date DESC`, userID, since)
}

// UpdateReceipt rewrites a stored receipt's mutable fields. The id is
// immutable.
func (s *SQLiteStorage) UpdateReceipt(ctx context.Context, receipt *model.Receipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}

	itemsJSON, tagsJSON, err := marshalReceiptLists(receipt)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE receipts SET store_name = ?, date = ?, total = ?,
		currency = ?, category = ?, subcategory = ?, payment_method = ?, notes = ?, order_id = ?,
		items = ?, tags = ?, confidence_score = ?, is_recurring = ?, frequency = ?, tax_deductible = ?
		WHERE id = ?`,
		receipt.StoreName, receipt.Date, receipt.Total, receipt.Currency, receipt.Category,
		receipt.Subcategory, receipt.PaymentMethod, receipt.Notes, receipt.OrderID,
		itemsJSON, tagsJSON, receipt.ConfidenceScore, receipt.IsRecurring,
		string(receipt.Frequency), receipt.TaxDeductible, receipt.ID)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("receipt %s: %w", receipt.ID, common.ErrNotFound)
	}
	return nil
}

// ListUserIDs returns every user with at least one stored receipt.
func (s *SQLiteStorage) ListUserIDs(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM receipts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStorage) queryReceipts(ctx context.Context, userID, query string, args ...any) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*model.Receipt, error) {
	var (
		r         model.Receipt
		frequency sql.NullString
		category  sql.NullString
		subcat    sql.NullString
		payment   sql.NullString
		notes     sql.NullString
		orderID   sql.NullString
		itemsJSON sql.NullString
		tagsJSON  sql.NullString
	)

	err := row.Scan(&r.ID, &r.UserID, &r.StoreName, &r.Date, &r.Total, &r.Currency,
		&category, &subcat, &payment, &notes, &orderID, &itemsJSON, &tagsJSON,
		&r.ConfidenceScore, &r.IsRecurring, &frequency, &r.TaxDeductible, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.Category = category.String
	r.Subcategory = subcat.String
	r.PaymentMethod = payment.String
	r.Notes = notes.String
	r.OrderID = orderID.String
	r.Frequency = model.Frequency(frequency.String)

	if itemsJSON.Valid && itemsJSON.String != "" {
		if err := json.Unmarshal([]byte(itemsJSON.String), &r.Items); err != nil {
			return nil, fmt.Errorf("%w: bad items payload: %v", common.ErrDatabaseCorrupted, err)
		}
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
			return nil, fmt.Errorf("%w: bad tags payload: %v", common.ErrDatabaseCorrupted, err)
		}
	}

	return &r, nil
}

func marshalReceiptLists(receipt *model.Receipt) (itemsJSON, tagsJSON string, err error) {
	items, err := json.Marshal(receipt.Items)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal items: %w", err)
	}
	tags, err := json.Marshal(receipt.Tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(items), string(tags), nil
}

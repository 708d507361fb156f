package storage

import (
	"context"
	"fmt"

	"github.com/proteahq/receiptiq/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func validateReceipt(receipt *model.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("receipt is required")
	}
	if err := receipt.Validate(); err != nil {
		return fmt.Errorf("invalid receipt: %w", err)
	}
	return nil
}

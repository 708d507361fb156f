package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/proteahq/receiptiq/internal/config"
	"github.com/proteahq/receiptiq/internal/extract"
	"github.com/proteahq/receiptiq/internal/merchant"
	"github.com/proteahq/receiptiq/internal/service"
	"github.com/proteahq/receiptiq/internal/storage"
)

const defaultDBPath = "~/.local/share/receiptiq/receipts.db"

// openStorage opens the configured SQLite store.
func openStorage() (service.Storage, error) {
	path := viper.GetString("database.path")
	if path == "" {
		path = defaultDBPath
	}

	store, err := storage.NewSQLiteStorage(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt database: %w", err)
	}
	return store, nil
}

// loadVendors returns the configured vendor patterns and extraction
// rules, falling back to the compiled-in defaults.
func loadVendors() ([]merchant.Pattern, []extract.Rule, error) {
	if path := viper.GetString("vendors.path"); path != "" {
		return config.LoadVendors(path)
	}
	patterns, rules := config.DefaultVendors()
	return patterns, rules, nil
}

// readInput reads a file argument, or stdin when the argument is "-"
// or absent.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied input path
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

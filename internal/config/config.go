// Package config provides configuration utilities for the application,
// including loading vendor rule files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/proteahq/receiptiq/internal/extract"
	"github.com/proteahq/receiptiq/internal/merchant"
)

// VendorFile is the on-disk shape of a vendor rules file. Each entry
// carries both the classification pattern and the extraction rule for
// one merchant; order in the file is the matching order.
type VendorFile struct {
	Vendors []VendorEntry `yaml:"vendors"`
}

// VendorEntry configures one merchant.
type VendorEntry struct {
	Name            string   `yaml:"name"`
	DisplayName     string   `yaml:"display_name"`
	Domains         []string `yaml:"domains"`
	Subjects        []string `yaml:"subjects"`
	Phrases         []string `yaml:"phrases"`
	TotalLabels     []string `yaml:"total_labels"`
	StorePatterns   []string `yaml:"store_patterns"`
	OrderIDPatterns []string `yaml:"order_id_patterns"`
	ItemPatterns    []string `yaml:"item_patterns"`
	Confidence      float64  `yaml:"confidence"`
	MaxItems        int      `yaml:"max_items"`
}

// LoadVendors reads a YAML vendor rules file and converts it into
// identification patterns and extraction rules, preserving order.
func LoadVendors(path string) ([]merchant.Pattern, []extract.Rule, error) {
	data, err := os.ReadFile(ExpandPath(path)) // #nosec G304 -- user-supplied config path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read vendor rules file: %w", err)
	}

	var file VendorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse vendor rules file: %w", err)
	}
	if len(file.Vendors) == 0 {
		return nil, nil, fmt.Errorf("vendor rules file %s defines no vendors", path)
	}

	patterns := make([]merchant.Pattern, 0, len(file.Vendors))
	rules := make([]extract.Rule, 0, len(file.Vendors))

	for i, entry := range file.Vendors {
		if entry.Name == "" {
			return nil, nil, fmt.Errorf("vendor entry %d has no name", i)
		}
		confidence := entry.Confidence
		if confidence == 0 {
			confidence = 0.85
		}

		patterns = append(patterns, merchant.Pattern{
			Name:            entry.Name,
			DomainPatterns:  entry.Domains,
			SubjectPatterns: entry.Subjects,
			BodyPhrases:     entry.Phrases,
		})
		rules = append(rules, extract.Rule{
			Vendor:          entry.Name,
			DisplayName:     entry.DisplayName,
			TotalLabels:     entry.TotalLabels,
			StorePatterns:   entry.StorePatterns,
			OrderIDPatterns: entry.OrderIDPatterns,
			ItemPatterns:    entry.ItemPatterns,
			Confidence:      confidence,
			MaxItems:        entry.MaxItems,
		})
	}

	return patterns, rules, nil
}

// DefaultVendors returns the compiled-in merchant configuration.
func DefaultVendors() ([]merchant.Pattern, []extract.Rule) {
	return merchant.DefaultPatterns(), extract.DefaultRules()
}

// ExpandPath expands a leading ~ and $VAR style environment variables
// in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	} else if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

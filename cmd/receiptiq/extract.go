package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proteahq/receiptiq/internal/extract"
)

func extractCmd() *cobra.Command {
	var vendorName string

	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Run deterministic field extraction for one vendor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(args)
			if err != nil {
				return err
			}

			_, rules, err := loadVendors()
			if err != nil {
				return err
			}
			extractor, err := extract.NewExtractor(rules)
			if err != nil {
				return err
			}

			extracted, ok := extractor.Extract(vendorName, body)
			if !ok {
				return fmt.Errorf("extraction failed for vendor %q; an OCR fallback would be required", vendorName)
			}

			cmd.Printf("Store: %s\nTotal: %.2f %s\nDate: %s\nConfidence: %.2f\n",
				extracted.StoreName, extracted.Total, extracted.Currency,
				extracted.Date.Format("2006-01-02"), extracted.Confidence)
			if extracted.OrderID != "" {
				cmd.Printf("Order: %s\n", extracted.OrderID)
			}
			for _, item := range extracted.Items {
				cmd.Printf("  - %s  %s\n", item.Name, item.Price)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vendorName, "vendor", "", "vendor whose rule set to apply")
	_ = cmd.MarkFlagRequired("vendor")

	return cmd
}

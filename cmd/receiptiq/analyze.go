package main

import (
	"github.com/spf13/cobra"

	"github.com/proteahq/receiptiq/internal/recurring"
)

func analyzeCmd() *cobra.Command {
	var (
		userID    string
		receiptID string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Check one receipt for a recurring pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			receipt, err := store.GetReceipt(cmd.Context(), receiptID)
			if err != nil {
				return err
			}

			analyzer := recurring.NewAnalyzer(store, recurring.DefaultCuratedSets())
			analysis := analyzer.Analyze(cmd.Context(), userID, *receipt)

			if !analysis.IsRecurring {
				cmd.Printf("No recurring pattern (confidence %.2f, %d similar receipts)\n",
					analysis.Confidence, len(analysis.SimilarReceipts))
				return nil
			}

			p := analysis.Pattern
			cmd.Printf("Recurring %s expense at %s\n", p.Frequency, p.StoreName)
			cmd.Printf("  average %.2f, variance ratio %.3f, %d occurrences\n",
				p.AverageAmount, p.VarianceRatio, p.Occurrences)
			cmd.Printf("  next expected %s (confidence %.2f)\n",
				p.NextExpectedDate.Format("2006-01-02"), p.Confidence)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id owning the receipt")
	cmd.Flags().StringVar(&receiptID, "receipt", "", "receipt id to analyze")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("receipt")

	return cmd
}

package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/proteahq/receiptiq/internal/model"
	"github.com/proteahq/receiptiq/internal/recurring"
)

func discoverCmd() *cobra.Command {
	var (
		userID   string
		allUsers bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover recurring patterns across receipt history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" && !allUsers {
				return fmt.Errorf("either --user or --all is required")
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			analyzer := recurring.NewAnalyzer(store, recurring.DefaultCuratedSets())

			if !allUsers {
				printPatterns(cmd, userID, analyzer.Discover(cmd.Context(), userID))
				return nil
			}

			userIDs, err := store.ListUserIDs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			bar := progressbar.NewOptions(len(userIDs),
				progressbar.OptionSetDescription("Discovering patterns..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
			)
			for _, id := range userIDs {
				printPatterns(cmd, id, analyzer.Discover(cmd.Context(), id))
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			cmd.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to analyze")
	cmd.Flags().BoolVar(&allUsers, "all", false, "analyze every user with stored receipts")

	return cmd
}

func printPatterns(cmd *cobra.Command, userID string, patterns []model.RecurringPattern) {
	if len(patterns) == 0 {
		cmd.Printf("%s: no recurring patterns\n", userID)
		return
	}

	cmd.Printf("%s:\n", userID)
	for _, p := range patterns {
		cmd.Printf("  %-30s %-10s avg %10.2f  conf %.2f  next %s\n",
			p.StoreName, p.Frequency, p.AverageAmount, p.Confidence,
			p.NextExpectedDate.Format("2006-01-02"))
	}
}

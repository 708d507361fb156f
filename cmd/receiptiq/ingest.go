package main

import (
	"github.com/spf13/cobra"

	"github.com/proteahq/receiptiq/internal/extract"
	"github.com/proteahq/receiptiq/internal/merchant"
	"github.com/proteahq/receiptiq/internal/pipeline"
	"github.com/proteahq/receiptiq/internal/recurring"
)

func ingestCmd() *cobra.Command {
	var (
		userID  string
		from    string
		subject string
	)

	cmd := &cobra.Command{
		Use:   "ingest [file|-]",
		Short: "Run an inbound message through the full pipeline",
		Long: `Ingest reads raw receipt or order-confirmation text, identifies the
vendor, extracts structured fields, checks for duplicates, annotates
recurring patterns, and persists the result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(args)
			if err != nil {
				return err
			}

			patterns, rules, err := loadVendors()
			if err != nil {
				return err
			}
			identifier, err := merchant.NewIdentifier(patterns)
			if err != nil {
				return err
			}
			extractor, err := extract.NewExtractor(rules)
			if err != nil {
				return err
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p := pipeline.New(identifier, extractor, nil, store, recurring.DefaultCuratedSets())

			outcome, err := p.Ingest(cmd.Context(), userID, merchant.InboundMessage{
				Subject:  subject,
				From:     from,
				BodyText: body,
			})
			if err != nil {
				return err
			}

			printOutcome(cmd, outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id owning the receipt")
	cmd.Flags().StringVar(&from, "from", "", "sender address of the message")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line of the message")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printOutcome(cmd *cobra.Command, outcome *pipeline.Outcome) {
	r := outcome.Receipt

	if outcome.Vendor.Vendor != "" {
		cmd.Printf("Vendor: %s (confidence %.2f)\n", outcome.Vendor.Vendor, outcome.Vendor.Confidence)
	} else {
		cmd.Println("Vendor: unknown")
	}

	cmd.Printf("Store: %s\nTotal: %.2f %s\nDate: %s\n",
		r.StoreName, r.Total, r.Currency, r.Date.Format("2006-01-02"))
	if r.OrderID != "" {
		cmd.Printf("Order: %s\n", r.OrderID)
	}
	for _, item := range r.Items {
		cmd.Printf("  - %s  %s\n", item.Name, item.Price)
	}

	if len(outcome.Duplicates) > 0 {
		cmd.Printf("Not persisted: %d duplicate(s) on file:\n", len(outcome.Duplicates))
		for _, d := range outcome.Duplicates {
			cmd.Printf("  %s  %s  %.2f  %s\n", d.ID, d.StoreName, d.Total, d.Date.Format("2006-01-02"))
		}
		return
	}

	if outcome.Recurring.IsRecurring {
		cmd.Printf("Recurring: %s (confidence %.2f)\n",
			outcome.Recurring.Pattern.Frequency, outcome.Recurring.Confidence)
	}
	cmd.Printf("Saved receipt %s\n", r.ID)
}

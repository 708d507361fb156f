package main

import (
	"github.com/spf13/cobra"

	"github.com/proteahq/receiptiq/internal/merchant"
)

func identifyCmd() *cobra.Command {
	var (
		from    string
		subject string
	)

	cmd := &cobra.Command{
		Use:   "identify [file|-]",
		Short: "Identify the vendor of an inbound message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(args)
			if err != nil {
				return err
			}

			patterns, _, err := loadVendors()
			if err != nil {
				return err
			}
			identifier, err := merchant.NewIdentifier(patterns)
			if err != nil {
				return err
			}

			ident := identifier.Identify(merchant.InboundMessage{
				Subject:  subject,
				From:     from,
				BodyText: body,
			})

			if ident.Vendor == "" {
				cmd.Println("No vendor matched")
				return nil
			}
			cmd.Printf("%s (confidence %.2f)\n", ident.Vendor, ident.Confidence)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender address of the message")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line of the message")

	return cmd
}

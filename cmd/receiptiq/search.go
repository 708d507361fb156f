package main

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/proteahq/receiptiq/internal/search"
)

func searchCmd() *cobra.Command {
	var (
		userID        string
		query         string
		startDate     string
		endDate       string
		minAmount     float64
		maxAmount     float64
		categories    []string
		stores        []string
		payments      []string
		taxDeductible bool
		limit         int
		offset        int
		showFacets    bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a user's receipts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filters := search.Filters{
				Categories:     categories,
				Stores:         stores,
				PaymentMethods: payments,
			}
			if startDate != "" {
				t, err := time.Parse("2006-01-02", startDate)
				if err != nil {
					return err
				}
				filters.StartDate = &t
			}
			if endDate != "" {
				t, err := time.Parse("2006-01-02", endDate)
				if err != nil {
					return err
				}
				filters.EndDate = &t
			}
			if cmd.Flags().Changed("min-amount") {
				filters.MinAmount = &minAmount
			}
			if cmd.Flags().Changed("max-amount") {
				filters.MaxAmount = &maxAmount
			}
			if cmd.Flags().Changed("tax-deductible") {
				filters.TaxDeductible = &taxDeductible
			}

			engine := search.NewEngine(store)
			result := engine.Search(cmd.Context(), userID, query, filters, limit, offset)

			cmd.Printf("%d receipt(s) matched\n", result.TotalCount)
			for _, r := range result.Receipts {
				cmd.Printf("  %s  %-25s %10.2f %s  %s\n",
					r.Date.Format("2006-01-02"), r.StoreName, r.Total, r.Currency, r.Category)
			}

			if showFacets {
				printFacets(cmd, result.Facets)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to search")
	cmd.Flags().StringVar(&query, "query", "", "free-text query (any token matches)")
	cmd.Flags().StringVar(&startDate, "start", "", "earliest receipt date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "latest receipt date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&minAmount, "min-amount", 0, "minimum total")
	cmd.Flags().Float64Var(&maxAmount, "max-amount", 0, "maximum total")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "restrict to categories")
	cmd.Flags().StringSliceVar(&stores, "store", nil, "restrict to stores")
	cmd.Flags().StringSliceVar(&payments, "payment", nil, "restrict to payment methods")
	cmd.Flags().BoolVar(&taxDeductible, "tax-deductible", false, "restrict by tax-deductible flag")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")
	cmd.Flags().BoolVar(&showFacets, "facets", false, "print facet counts")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printFacets(cmd *cobra.Command, facets search.Facets) {
	printFacet(cmd, "Categories", facets.Categories)
	printFacet(cmd, "Stores", facets.Stores)
	printFacet(cmd, "Payment methods", facets.PaymentMethods)

	cmd.Println("Amount ranges:")
	for _, label := range search.AmountRangeLabels {
		if n := facets.AmountRanges[label]; n > 0 {
			cmd.Printf("  %-10s %d\n", label, n)
		}
	}
}

func printFacet(cmd *cobra.Command, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Printf("%s:\n", title)
	for _, k := range keys {
		cmd.Printf("  %-25s %d\n", k, counts[k])
	}
}

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

type revenueFlags struct {
	from     string
	to       string
	location string
}

func (f *revenueFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD, DD.MM.YYYY, today)")
	cmd.Flags().StringVar(&f.to, "to", "", "End date")
	cmd.Flags().StringVar(&f.location, "location", "", "Only this location (id or alias)")
}

func (f *revenueFlags) params() (api.RevenueParams, error) {
	from, err := parseOptionalDate(f.from)
	if err != nil {
		return api.RevenueParams{}, err
	}
	to, err := parseOptionalDate(f.to)
	if err != nil {
		return api.RevenueParams{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return api.RevenueParams{}, fmt.Errorf("--to must not be before --from")
	}
	locationID, err := resolveLocationID(f.location)
	if err != nil {
		return api.RevenueParams{}, err
	}
	return api.RevenueParams{From: from, To: to, LocationID: locationID}, nil
}

func revenueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Revenue reports",
	}

	cmd.AddCommand(revenueSummaryCmd())
	cmd.AddCommand(revenueDailyCmd())
	cmd.AddCommand(revenueByPaymentModeCmd())
	cmd.AddCommand(revenueHistoryCmd())
	return cmd
}

// revenueQuery wraps a report call in the cache under its own resource.
func revenueQuery[T any](cmd *cobra.Command, resource string, flags *revenueFlags, fn func(context.Context, api.RevenueParams) (T, error)) (T, error) {
	var zero T
	if err := requireLogin(); err != nil {
		return zero, err
	}
	params, err := flags.params()
	if err != nil {
		return zero, err
	}
	return fetchCached(cmd.Context(), cache.NewKey(resource, params.Values()), func(ctx context.Context) (T, error) {
		return fn(ctx, params)
	})
}

func revenueSummaryCmd() *cobra.Command {
	var flags revenueFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and the platform/tenant split",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := revenueQuery(cmd, "revenue/summary", &flags, client.RevenueSummary)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, summary)
			}
			currency := summary.Currency
			if currency == "" {
				currency = cfg.Currency
			}
			format := func(minor int64) string { return view.FormatMinor(minor, currency) }
			return writeFields(out,
				"Total revenue", format(summary.TotalRevenue),
				"Platform fee", format(summary.TotalPlatformFee),
				"Tenant share", format(summary.TotalTenantShare),
				"Transactions", strconv.Itoa(summary.TransactionCount),
				"Today", format(summary.TodayRevenue),
				"This week", format(summary.WeekRevenue),
				"This month", format(summary.MonthRevenue),
			)
		},
	}

	flags.bind(cmd)
	return cmd
}

func revenueDailyCmd() *cobra.Command {
	var flags revenueFlags

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Revenue per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := revenueQuery(cmd, "revenue/daily", &flags, client.RevenueDaily)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, days)
			}
			if len(days) == 0 {
				fmt.Fprintln(out, "No revenue in range.")
				return nil
			}

			t := newTable(out, "DATE", "REVENUE", "TRANSACTIONS")
			var total int64
			for _, day := range days {
				total += day.Revenue
				t.row(view.FormatDate(day.Date), money(day.Revenue), strconv.Itoa(day.TransactionCount))
			}
			if !outputCompact {
				t.row("TOTAL", money(total), "")
			}
			return t.flush()
		},
	}

	flags.bind(cmd)
	return cmd
}

func revenueByPaymentModeCmd() *cobra.Command {
	var flags revenueFlags

	cmd := &cobra.Command{
		Use:   "by-payment-mode",
		Short: "Revenue per payment mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			modes, err := revenueQuery(cmd, "revenue/by-payment-mode", &flags, client.RevenueByPaymentMode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, modes)
			}
			if len(modes) == 0 {
				fmt.Fprintln(out, "No revenue in range.")
				return nil
			}

			var total int64
			for _, mode := range modes {
				total += mode.Revenue
			}
			t := newTable(out, "MODE", "REVENUE", "TRANSACTIONS", "SHARE")
			for _, mode := range modes {
				t.row(mode.PaymentMode, money(mode.Revenue), strconv.Itoa(mode.TransactionCount), share(mode.Revenue, total))
			}
			return t.flush()
		},
	}

	flags.bind(cmd)
	return cmd
}

func share(part, total int64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func revenueHistoryCmd() *cobra.Command {
	var flags revenueFlags
	var opts listOptions
	var status string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List revenue transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := revenueQuery(cmd, "revenue/history", &flags, client.RevenueHistory)
			if err != nil {
				return err
			}

			fields := []func(api.RevenueTransaction) string{
				func(tx api.RevenueTransaction) string { return tx.ID },
				func(tx api.RevenueTransaction) string { return tx.StorageID },
				func(tx api.RevenueTransaction) string { return tx.PaymentMode },
			}
			filters := filterOn(status, func(tx api.RevenueTransaction) string { return tx.Status })
			result := view.Apply(history, listQuery(opts, fields, filters...))
			return writeList(cmd.OutOrStdout(), result, "No transactions found.",
				[]string{"DATE", "ID", "STORAGE", "MODE", "AMOUNT", "STATUS"},
				func(tx api.RevenueTransaction) []string {
					return []string{view.FormatDate(tx.CreatedAt), tx.ID, orDash(tx.StorageID), tx.PaymentMode, money(tx.Amount), tx.Status}
				})
		},
	}

	flags.bind(cmd)
	opts.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Only transactions with this status")
	return cmd
}

func settlementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settlements",
		Short: "Payment settlements",
	}

	cmd.AddCommand(settlementsListCmd())
	return cmd
}

func settlementsListCmd() *cobra.Command {
	var flags revenueFlags
	var opts listOptions
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List settlements",
		RunE: func(cmd *cobra.Command, args []string) error {
			settlements, err := revenueQuery(cmd, "settlements", &flags, client.ListSettlements)
			if err != nil {
				return err
			}

			fields := []func(api.Settlement) string{
				func(s api.Settlement) string { return s.ID },
				func(s api.Settlement) string { return s.TransactionID },
			}
			filters := filterOn(status, func(s api.Settlement) string { return s.Status })
			result := view.Apply(settlements, listQuery(opts, fields, filters...))
			return writeList(cmd.OutOrStdout(), result, "No settlements found.",
				[]string{"DATE", "TRANSACTION", "TOTAL", "PLATFORM FEE", "TENANT SHARE", "STATUS", "SETTLED"},
				func(s api.Settlement) []string {
					return []string{
						view.FormatDate(s.CreatedAt),
						s.TransactionID,
						money(s.TotalAmount),
						money(s.PlatformFee),
						money(s.TenantShare),
						s.Status,
						orDash(view.FormatDate(s.SettledAt)),
					}
				})
		},
	}

	flags.bind(cmd)
	opts.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Only settlements with this status")
	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

func pricingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Manage pricing rules",
	}

	cmd.AddCommand(pricingListCmd())
	cmd.AddCommand(pricingCreateCmd())
	cmd.AddCommand(pricingUpdateCmd())
	cmd.AddCommand(pricingDeleteCmd())
	return cmd
}

func cachedPricing(ctx context.Context) ([]api.PricingRule, error) {
	return fetchCached(ctx, cache.NewKey("pricing", nil), client.ListPricing)
}

func ruleTarget(rule api.PricingRule, names, codes map[string]string) string {
	switch rule.Scope {
	case api.ScopeLocation:
		return nameOr(names, rule.LocationID)
	case api.ScopeStorage:
		return nameOr(codes, rule.StorageID)
	}
	return "-"
}

func pricingListCmd() *cobra.Command {
	var opts listOptions
	var scope string
	var active string
	var location string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pricing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			switch active {
			case "", "true", "false":
			default:
				return fmt.Errorf("--active must be true or false")
			}
			locationID, err := resolveLocationID(location)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rules, err := cachedPricing(ctx)
			if err != nil {
				return err
			}
			names := locationNames(ctx)
			codes := storageCodes(ctx)

			var filters []view.Filter[api.PricingRule]
			filters = append(filters, filterOn(strings.ToUpper(scope), func(r api.PricingRule) string { return string(r.Scope) })...)
			filters = append(filters, filterOn(active, func(r api.PricingRule) string { return strconv.FormatBool(r.IsActive) })...)
			filters = append(filters, filterOn(locationID, func(r api.PricingRule) string { return r.LocationID })...)
			fields := []func(api.PricingRule) string{
				func(r api.PricingRule) string { return r.ID },
				func(r api.PricingRule) string { return string(r.PricingType) },
				func(r api.PricingRule) string { return ruleTarget(r, names, codes) },
			}

			result := view.Apply(rules, listQuery(opts, fields, filters...))
			return writeList(cmd.OutOrStdout(), result, "No pricing rules found.",
				[]string{"ID", "SCOPE", "TARGET", "TYPE", "PRICE", "MINIMUM", "PRIORITY", "ACTIVE"},
				func(r api.PricingRule) []string {
					return []string{
						r.ID,
						string(r.Scope),
						ruleTarget(r, names, codes),
						string(r.PricingType),
						money(r.UnitPrice()),
						money(r.MinimumCharge),
						strconv.Itoa(r.Priority),
						yesNo(r.IsActive),
					}
				})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&scope, "scope", "", "Only rules with this scope (GLOBAL|TENANT|LOCATION|STORAGE)")
	cmd.Flags().StringVar(&active, "active", "", "Only active (true) or inactive (false) rules")
	cmd.Flags().StringVar(&location, "location", "", "Only rules for this location (id or alias)")
	return cmd
}

// pricingFlags holds the rule form; amounts are major units as typed.
type pricingFlags struct {
	scope       string
	location    string
	storage     string
	pricingType string
	hourly      string
	daily       string
	weekly      string
	monthly     string
	minimum     string
	priority    int
	active      bool
}

func (f *pricingFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scope, "scope", "", "Scope (GLOBAL|TENANT|LOCATION|STORAGE)")
	cmd.Flags().StringVar(&f.location, "location", "", "Location (id or alias) for LOCATION scope")
	cmd.Flags().StringVar(&f.storage, "storage", "", "Storage ID for STORAGE scope")
	cmd.Flags().StringVar(&f.pricingType, "type", "", "Pricing type (hourly|daily|weekly|monthly)")
	cmd.Flags().StringVar(&f.hourly, "hourly", "", "Price per hour, e.g. 12.50")
	cmd.Flags().StringVar(&f.daily, "daily", "", "Price per day")
	cmd.Flags().StringVar(&f.weekly, "weekly", "", "Price per week")
	cmd.Flags().StringVar(&f.monthly, "monthly", "", "Price per month")
	cmd.Flags().StringVar(&f.minimum, "minimum", "", "Minimum charge")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "Priority, higher wins")
	cmd.Flags().BoolVar(&f.active, "active", true, "Rule is active")
}

var pricingFlagNames = []string{"scope", "location", "storage", "type", "hourly", "daily", "weekly", "monthly", "minimum", "priority", "active"}

func (f *pricingFlags) changed(cmd *cobra.Command) bool {
	for _, name := range pricingFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies every flag the user set onto input. A new rule always takes
// the --active value, including its default.
func (f *pricingFlags) apply(cmd *cobra.Command, input *api.PricingInput, create bool) error {
	flags := cmd.Flags()
	if flags.Changed("scope") {
		input.Scope = api.PricingScope(strings.ToUpper(f.scope))
	}
	if flags.Changed("location") {
		id, err := resolveLocationID(f.location)
		if err != nil {
			return err
		}
		input.LocationID = id
	}
	if flags.Changed("storage") {
		input.StorageID = strings.TrimSpace(f.storage)
	}
	if flags.Changed("type") {
		input.PricingType = api.PricingType(strings.ToLower(f.pricingType))
	}

	amounts := []struct {
		flag  string
		value string
		dest  *int64
	}{
		{"hourly", f.hourly, &input.PricePerHour},
		{"daily", f.daily, &input.PricePerDay},
		{"weekly", f.weekly, &input.PricePerWeek},
		{"monthly", f.monthly, &input.PricePerMonth},
		{"minimum", f.minimum, &input.MinimumCharge},
	}
	for _, amount := range amounts {
		if !flags.Changed(amount.flag) {
			continue
		}
		minor, err := parseAmount(amount.flag, amount.value)
		if err != nil {
			return err
		}
		*amount.dest = minor
	}

	if flags.Changed("priority") {
		input.Priority = f.priority
	}
	if create || flags.Changed("active") {
		input.IsActive = f.active
	}
	return nil
}

func pricingCreateCmd() *cobra.Command {
	var form pricingFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pricing rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			var input api.PricingInput
			if err := form.apply(cmd, &input, true); err != nil {
				return err
			}

			rule, err := client.CreatePricing(cmd.Context(), input)
			if err != nil {
				return err
			}
			invalidate("pricing")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), rule)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s rule %s at %s.\n", rule.Scope, rule.PricingType, rule.ID, money(rule.UnitPrice()))
			return nil
		},
	}

	form.bind(cmd)
	return cmd
}

func pricingUpdateCmd() *cobra.Command {
	var form pricingFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a pricing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			if !form.changed(cmd) {
				return fmt.Errorf("nothing to update")
			}

			ctx := cmd.Context()
			rules, err := client.ListPricing(ctx)
			if err != nil {
				return err
			}
			var input api.PricingInput
			found := false
			for _, rule := range rules {
				if rule.ID == args[0] {
					input = api.InputFromRule(rule)
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("pricing rule %q not found", args[0])
			}
			if err := form.apply(cmd, &input, false); err != nil {
				return err
			}

			rule, err := client.UpdatePricing(ctx, args[0], input)
			if err != nil {
				return err
			}
			invalidate("pricing")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), rule)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated rule %s.\n", rule.ID)
			return nil
		},
	}

	form.bind(cmd)
	return cmd
}

func pricingDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pricing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			if err := client.DeletePricing(cmd.Context(), args[0]); err != nil {
				return err
			}
			invalidate("pricing")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %s.\n", args[0])
			return nil
		},
	}

	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

func locationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"location"},
		Short:   "Manage locations",
	}

	cmd.AddCommand(locationsListCmd())
	cmd.AddCommand(locationsShowCmd())
	cmd.AddCommand(locationsCreateCmd())
	cmd.AddCommand(locationsUpdateCmd())
	cmd.AddCommand(locationsDeleteCmd())
	cmd.AddCommand(aliasCmd())
	return cmd
}

func cachedLocations(ctx context.Context) ([]api.Location, error) {
	return fetchCached(ctx, cache.NewKey("locations", nil), client.ListLocations)
}

func locationSearchFields() []func(api.Location) string {
	return []func(api.Location) string{
		func(l api.Location) string { return l.Name },
		func(l api.Location) string { return l.Address },
		func(l api.Location) string { return l.PhoneNumber },
	}
}

func locationsListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			locations, err := cachedLocations(cmd.Context())
			if err != nil {
				return err
			}

			result := view.Apply(locations, listQuery(opts, locationSearchFields()))
			return writeList(cmd.OutOrStdout(), result, "No locations found.",
				[]string{"ID", "NAME", "ADDRESS", "PHONE"},
				func(l api.Location) []string {
					return []string{l.ID, l.Name, l.Address, orDash(l.PhoneNumber)}
				})
		},
	}

	opts.bind(cmd)
	return cmd
}

func locationsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|alias>",
		Short: "Show location details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			id, err := resolveLocationID(args[0])
			if err != nil {
				return err
			}
			location, err := fetchCached(cmd.Context(), cache.NewKey("locations", url.Values{"id": {id}}),
				func(ctx context.Context) (api.Location, error) { return client.GetLocation(ctx, id) })
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, location)
			}
			if err := writeFields(out,
				"ID", location.ID,
				"Name", location.Name,
				"Address", location.Address,
				"Phone", orDash(location.PhoneNumber),
				"Coordinates", fmt.Sprintf("%.6f, %.6f", location.Latitude, location.Longitude),
				"Updated", orDash(view.FormatDate(location.UpdatedAt)),
			); err != nil {
				return err
			}
			if len(location.WorkingHours) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			t := newTable(out, "DAY", "HOURS")
			for _, hour := range location.WorkingHours {
				hours := hour.Open + "-" + hour.Close
				if hour.Closed {
					hours = "closed"
				}
				t.row(hour.Day, hours)
			}
			return t.flush()
		},
	}

	return cmd
}

func parseHoursFlags(values []string) ([]api.WorkingHour, error) {
	hours := make([]api.WorkingHour, 0, len(values))
	for _, value := range values {
		hour, err := api.ParseWorkingHours(value)
		if err != nil {
			return nil, err
		}
		hours = append(hours, hour)
	}
	return hours, nil
}

func locationsCreateCmd() *cobra.Command {
	var input api.LocationInput
	var hours []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			parsed, err := parseHoursFlags(hours)
			if err != nil {
				return err
			}
			input.WorkingHours = parsed

			location, err := client.CreateLocation(cmd.Context(), input)
			if err != nil {
				return err
			}
			invalidate("locations")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), location)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created location %s (%s).\n", location.Name, location.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Location name")
	cmd.Flags().StringVar(&input.Address, "address", "", "Street address")
	cmd.Flags().StringVar(&input.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().Float64Var(&input.Latitude, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&input.Longitude, "lon", 0, "Longitude")
	cmd.Flags().StringArrayVar(&hours, "hours", nil, "Working hours, e.g. monday=09:00-18:00 or sunday=closed (repeatable)")
	return cmd
}

func locationsUpdateCmd() *cobra.Command {
	var name, address, phone string
	var lat, lon float64
	var hours []string

	cmd := &cobra.Command{
		Use:   "update <id|alias>",
		Short: "Update a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			id, err := resolveLocationID(args[0])
			if err != nil {
				return err
			}

			var patch api.LocationPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("address") {
				patch.Address = &address
			}
			if flags.Changed("phone") {
				patch.PhoneNumber = &phone
			}
			if flags.Changed("lat") {
				patch.Latitude = &lat
			}
			if flags.Changed("lon") {
				patch.Longitude = &lon
			}
			if flags.Changed("hours") {
				parsed, err := parseHoursFlags(hours)
				if err != nil {
					return err
				}
				patch.WorkingHours = parsed
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update")
			}

			location, err := client.UpdateLocation(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			invalidate("locations")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), location)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated location %s.\n", location.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Location name")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().StringArrayVar(&hours, "hours", nil, "Working hours, replaces the whole week (repeatable)")
	return cmd
}

func locationsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id|alias>",
		Short: "Delete a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			id, err := resolveLocationID(args[0])
			if err != nil {
				return err
			}
			if err := client.DeleteLocation(cmd.Context(), id); err != nil {
				return err
			}
			invalidate("locations")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted location %s.\n", strings.TrimSpace(args[0]))
			return nil
		},
	}

	return cmd
}

// locationNames maps id to name, for rendering references.
func locationNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	locations, err := cachedLocations(ctx)
	if err != nil {
		logger.WithError(err).Debug("resolve location names")
		return names
	}
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	return names
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return orDash(id)
}

package cmd

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

func storagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "storages",
		Aliases: []string{"storage", "lockers"},
		Short:   "Manage storage units",
	}

	cmd.AddCommand(storagesListCmd())
	cmd.AddCommand(storagesShowCmd())
	cmd.AddCommand(storagesCreateCmd())
	cmd.AddCommand(storagesUpdateCmd())
	cmd.AddCommand(storagesDeleteCmd())
	cmd.AddCommand(storagesCalendarCmd())
	return cmd
}

func cachedStorages(ctx context.Context) ([]api.Storage, error) {
	return fetchCached(ctx, cache.NewKey("storages", nil), client.ListStorages)
}

func storagesListCmd() *cobra.Command {
	var opts listOptions
	var location string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List storage units",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			if status != "" && !api.StorageStatus(status).Valid() {
				return fmt.Errorf("--status must be one of idle|occupied|reserved|faulty")
			}
			locationID, err := resolveLocationID(location)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			storages, err := cachedStorages(ctx)
			if err != nil {
				return err
			}
			names := locationNames(ctx)

			filters := append(
				filterOn(status, func(s api.Storage) string { return string(s.Status) }),
				filterOn(locationID, func(s api.Storage) string { return s.LocationID })...,
			)
			fields := []func(api.Storage) string{
				func(s api.Storage) string { return s.Code },
				func(s api.Storage) string { return s.ID },
				func(s api.Storage) string { return names[s.LocationID] },
			}

			result := view.Apply(storages, listQuery(opts, fields, filters...))
			return writeList(cmd.OutOrStdout(), result, "No storages found.",
				[]string{"ID", "CODE", "LOCATION", "STATUS", "LAST SEEN"},
				func(s api.Storage) []string {
					return []string{s.ID, s.Code, nameOr(names, s.LocationID), string(s.Status), orDash(view.FormatDate(s.LastSeenAt))}
				})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&location, "location", "", "Only storages at this location (id or alias)")
	cmd.Flags().StringVar(&status, "status", "", "Only storages with this status (idle|occupied|reserved|faulty)")
	return cmd
}

func storagesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show storage details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			id := args[0]
			ctx := cmd.Context()
			unit, err := fetchCached(ctx, cache.NewKey("storages", url.Values{"id": {id}}),
				func(ctx context.Context) (api.Storage, error) { return client.GetStorage(ctx, id) })
			if err != nil {
				return err
			}

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), unit)
			}
			return writeFields(cmd.OutOrStdout(),
				"ID", unit.ID,
				"Code", unit.Code,
				"Location", nameOr(locationNames(ctx), unit.LocationID),
				"Status", string(unit.Status),
				"Last seen", orDash(view.FormatDate(unit.LastSeenAt)),
			)
		},
	}

	return cmd
}

func storagesCreateCmd() *cobra.Command {
	var location string
	var code string
	var status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a storage unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			locationID, err := resolveLocationID(location)
			if err != nil {
				return err
			}

			unit, err := client.CreateStorage(cmd.Context(), api.StorageInput{
				LocationID: locationID,
				Code:       code,
				Status:     api.StorageStatus(status),
			})
			if err != nil {
				return err
			}
			invalidate("storages")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), unit)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created storage %s (%s).\n", unit.Code, unit.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Location (id or alias)")
	cmd.Flags().StringVar(&code, "code", "", "Storage code")
	cmd.Flags().StringVar(&status, "status", string(api.StorageIdle), "Initial status")
	return cmd
}

func storagesUpdateCmd() *cobra.Command {
	var location string
	var code string
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a storage unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}

			var patch api.StoragePatch
			flags := cmd.Flags()
			if flags.Changed("location") {
				locationID, err := resolveLocationID(location)
				if err != nil {
					return err
				}
				patch.LocationID = &locationID
			}
			if flags.Changed("code") {
				patch.Code = &code
			}
			if flags.Changed("status") {
				s := api.StorageStatus(status)
				patch.Status = &s
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update")
			}

			unit, err := client.UpdateStorage(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			invalidate("storages")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), unit)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated storage %s (%s).\n", unit.Code, unit.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Move to location (id or alias)")
	cmd.Flags().StringVar(&code, "code", "", "Storage code")
	cmd.Flags().StringVar(&status, "status", "", "Status (idle|occupied|reserved|faulty)")
	return cmd
}

func storagesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a storage unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			if err := client.DeleteStorage(cmd.Context(), args[0]); err != nil {
				return err
			}
			invalidate("storages")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted storage %s.\n", args[0])
			return nil
		},
	}

	return cmd
}

func storagesCalendarCmd() *cobra.Command {
	var from string
	var to string

	cmd := &cobra.Command{
		Use:   "calendar <id>",
		Short: "Show reservations of a storage unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			start, err := parseDateInput(from)
			if err != nil {
				return err
			}
			var end time.Time
			if to == "" {
				end = start.AddDate(0, 0, 6)
			} else if end, err = parseDateInput(to); err != nil {
				return err
			}

			id := args[0]
			params := url.Values{"id": {id}, "start": {start.Format("2006-01-02")}, "end": {end.Format("2006-01-02")}}
			calendar, err := fetchCached(cmd.Context(), cache.NewKey("storages/calendar", params),
				func(ctx context.Context) (api.StorageCalendar, error) {
					return client.StorageCalendar(ctx, id, start, end)
				})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, calendar)
			}
			if len(calendar.Entries) == 0 {
				fmt.Fprintf(out, "No reservations between %s and %s.\n", start.Format("02.01.2006"), end.Format("02.01.2006"))
				return nil
			}

			t := newTable(out, "START", "END", "STATUS", "CUSTOMER")
			for _, entry := range calendar.Entries {
				t.row(view.FormatDate(entry.StartAt), view.FormatDate(entry.EndAt), entry.Status, orDash(entry.CustomerName))
			}
			return t.flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "today", "First day (YYYY-MM-DD, DD.MM.YYYY, today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (default: six days after --from)")
	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff assignments",
	}

	cmd.AddCommand(staffListCmd())
	cmd.AddCommand(staffAssignCmd())
	cmd.AddCommand(staffUpdateCmd())
	cmd.AddCommand(staffDeleteCmd())
	return cmd
}

func cachedStaff(ctx context.Context) ([]api.Staff, error) {
	return fetchCached(ctx, cache.NewKey("staff", nil), client.ListStaff)
}

// storageCodes maps storage id to its code.
func storageCodes(ctx context.Context) map[string]string {
	codes := map[string]string{}
	storages, err := cachedStorages(ctx)
	if err != nil {
		logger.WithError(err).Debug("resolve storage codes")
		return codes
	}
	for _, s := range storages {
		codes[s.ID] = s.Code
	}
	return codes
}

func joinRefs(ids []string, names map[string]string) string {
	if len(ids) == 0 {
		return "-"
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, nameOr(names, id))
	}
	return strings.Join(labels, ", ")
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func staffListCmd() *cobra.Command {
	var opts listOptions
	var location string
	var storageID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			locationID, err := resolveLocationID(location)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			staff, err := cachedStaff(ctx)
			if err != nil {
				return err
			}
			names := locationNames(ctx)
			codes := storageCodes(ctx)

			// staff carry id lists, so membership is checked before the generic pipeline
			if locationID != "" || storageID != "" {
				matched := make([]api.Staff, 0, len(staff))
				for _, member := range staff {
					if locationID != "" && !contains(member.LocationIDs, locationID) {
						continue
					}
					if storageID != "" && !contains(member.StorageIDs, storageID) {
						continue
					}
					matched = append(matched, member)
				}
				staff = matched
			}

			fields := []func(api.Staff) string{
				func(s api.Staff) string { return s.UserName },
				func(s api.Staff) string { return s.UserEmail },
				func(s api.Staff) string { return s.UserID },
			}
			result := view.Apply(staff, listQuery(opts, fields))
			return writeList(cmd.OutOrStdout(), result, "No staff found.",
				[]string{"ID", "USER", "EMAIL", "LOCATIONS", "STORAGES"},
				func(s api.Staff) []string {
					user := s.UserName
					if user == "" {
						user = s.UserID
					}
					return []string{s.ID, user, orDash(s.UserEmail), joinRefs(s.LocationIDs, names), joinRefs(s.StorageIDs, codes)}
				})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&location, "location", "", "Only staff assigned to this location (id or alias)")
	cmd.Flags().StringVar(&storageID, "storage", "", "Only staff assigned to this storage")
	return cmd
}

func resolveLocationIDs(values []string) ([]string, error) {
	ids := splitIDs(values)
	for i, id := range ids {
		resolved, err := resolveLocationID(id)
		if err != nil {
			return nil, err
		}
		ids[i] = resolved
	}
	return ids, nil
}

func staffAssignCmd() *cobra.Command {
	var userID string
	var storages []string
	var locations []string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a user to storages or locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			locationIDs, err := resolveLocationIDs(locations)
			if err != nil {
				return err
			}

			member, err := client.CreateStaff(cmd.Context(), api.StaffInput{
				UserID:      strings.TrimSpace(userID),
				StorageIDs:  splitIDs(storages),
				LocationIDs: locationIDs,
			})
			if err != nil {
				return err
			}
			invalidate("staff")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), member)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s (%s).\n", member.UserID, member.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringSliceVar(&storages, "storage", nil, "Storage IDs (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&locations, "location", nil, "Location IDs or aliases (repeatable or comma separated)")
	return cmd
}

func staffUpdateCmd() *cobra.Command {
	var storages []string
	var locations []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a staff member's assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("storage") && !flags.Changed("location") {
				return fmt.Errorf("nothing to update")
			}

			ctx := cmd.Context()
			staff, err := client.ListStaff(ctx)
			if err != nil {
				return err
			}
			var current *api.Staff
			for i := range staff {
				if staff[i].ID == args[0] {
					current = &staff[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("staff member %q not found", args[0])
			}

			input := api.StaffInput{
				UserID:      current.UserID,
				StorageIDs:  current.StorageIDs,
				LocationIDs: current.LocationIDs,
			}
			if flags.Changed("storage") {
				input.StorageIDs = splitIDs(storages)
			}
			if flags.Changed("location") {
				if input.LocationIDs, err = resolveLocationIDs(locations); err != nil {
					return err
				}
			}

			member, err := client.UpdateStaff(ctx, current.ID, input)
			if err != nil {
				return err
			}
			invalidate("staff")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), member)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated assignment for %s.\n", member.UserID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&storages, "storage", nil, "Storage IDs, replaces the current list")
	cmd.Flags().StringSliceVar(&locations, "location", nil, "Location IDs or aliases, replaces the current list")
	return cmd
}

func staffDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			if err := client.DeleteStaff(cmd.Context(), args[0]); err != nil {
				return err
			}
			invalidate("staff")
			fmt.Fprintf(cmd.OutOrStdout(), "Removed staff member %s.\n", args[0])
			return nil
		},
	}

	return cmd
}

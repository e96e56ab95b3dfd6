package cmd

import (
	"fmt"
	"strings"

	"partner-panel/storage"

	"github.com/spf13/cobra"
)

func aliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage local location aliases",
	}

	cmd.AddCommand(aliasListCmd())
	cmd.AddCommand(aliasAddCmd())
	cmd.AddCommand(aliasRemoveCmd())
	return cmd
}

func aliasListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			aliases, err := storage.LoadAliases()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, aliases)
			}
			if len(aliases) == 0 {
				fmt.Fprintln(out, "No aliases saved.")
				return nil
			}

			t := newTable(out, "ALIAS", "LOCATION", "NAME")
			for _, alias := range aliases {
				t.row(alias.Alias, alias.LocationID, orDash(alias.Name))
			}
			return t.flush()
		},
	}

	return cmd
}

func aliasAddCmd() *cobra.Command {
	var alias string
	var locationID string
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a short alias for a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			alias = strings.TrimSpace(alias)
			locationID = strings.TrimSpace(locationID)
			if alias == "" || locationID == "" {
				return fmt.Errorf("--alias and --location are required")
			}

			aliases, err := storage.LoadAliases()
			if err != nil {
				return err
			}
			if _, ok := storage.FindAlias(aliases, alias); ok {
				return fmt.Errorf("alias %q already exists", alias)
			}

			if name == "" && client.AccessToken != "" {
				name = locationNames(cmd.Context())[locationID]
			}

			aliases = append(aliases, storage.Alias{
				Alias:      alias,
				LocationID: locationID,
				Name:       name,
			})
			if err := storage.SaveAliases(aliases); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved alias %s for %s.\n", alias, nameOr(map[string]string{locationID: name}, locationID))
			return nil
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Short alias")
	cmd.Flags().StringVar(&locationID, "location", "", "Location ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name (looked up when logged in)")
	return cmd
}

func aliasRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <alias>",
		Short: "Remove a saved alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := strings.TrimSpace(args[0])
			aliases, err := storage.LoadAliases()
			if err != nil {
				return err
			}

			remaining, ok := storage.RemoveAlias(aliases, alias)
			if !ok {
				return fmt.Errorf("alias %q not found", alias)
			}
			if err := storage.SaveAliases(remaining); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed alias %s.\n", alias)
			return nil
		},
	}

	return cmd
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"partner-panel/storage"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authStatusCmd())
	cmd.AddCommand(authLogoutCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	var email string
	var password string
	var authFile string
	authFileDefault := os.Getenv("PARTNER_AUTH_FILE")

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login as a partner operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if authFile != "" {
				fileEmail, filePassword, err := readAuthFile(authFile)
				if err != nil {
					return err
				}
				if email == "" {
					email = fileEmail
				}
				if password == "" {
					password = filePassword
				}
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				fmt.Fprint(out, "Email: ")
				value, err := reader.ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				email = strings.TrimSpace(value)
			}
			if password == "" {
				fmt.Fprint(out, "Password: ")
				value, err := readPassword(reader)
				fmt.Fprintln(out)
				if err != nil {
					return err
				}
				password = value
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			resp, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			saved := storage.Credentials{
				AccessToken:  resp.AccessToken,
				RefreshToken: resp.RefreshToken,
				UserID:       resp.User.ID,
				TenantID:     client.TenantID,
				Email:        email,
				Role:         resp.User.Role,
			}
			if err := storage.SaveCredentials(&saved); err != nil {
				return err
			}
			creds = &saved

			// cached responses belong to whoever was logged in before
			if _, err := queryCache.Clear(); err != nil {
				logger.WithError(err).Warn("clear cache after login")
			}

			fmt.Fprintf(out, "Logged in as %s.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&authFile, "auth-file", authFileDefault, "Load credentials from file (default: $PARTNER_AUTH_FILE)")
	return cmd
}

// readPassword hides input on a terminal and reads a plain line otherwise.
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}
	value, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func authStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check auth status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if creds == nil || creds.AccessToken == "" {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}

			if creds.AccessTokenExpired(time.Now()) {
				fmt.Fprintf(out, "Token expired for %s. Run 'partner auth login' to re-authenticate.\n", creds.Email)
				return nil
			}
			fmt.Fprintf(out, "Logged in as %s.\n", creds.Email)
			if creds.TenantID != "" {
				fmt.Fprintf(out, "Tenant: %s\n", creds.TenantID)
			}
			if expires, ok := creds.ExpiresAt(); ok {
				fmt.Fprintf(out, "Token expires: %s\n", expires.Local().Format("02.01.2006 15:04"))
			}
			return nil
		},
	}

	return cmd
}

func authLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout and clear credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.ClearCredentials(); err != nil {
				return err
			}
			creds = nil
			if _, err := queryCache.Clear(); err != nil {
				logger.WithError(err).Warn("clear cache after logout")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}

	return cmd
}

func readAuthFile(path string) (string, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var email string
	var password string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "[username]":
			if scanner.Scan() {
				email = strings.TrimSpace(scanner.Text())
			}
		case "[password]":
			if scanner.Scan() {
				password = strings.TrimSpace(scanner.Text())
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	return email, password, nil
}

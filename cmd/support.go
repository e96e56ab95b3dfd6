package cmd

import (
	"context"
	"fmt"
	"net/url"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

func ticketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket"},
		Short:   "Support tickets",
	}

	cmd.AddCommand(ticketsListCmd())
	cmd.AddCommand(ticketsShowCmd())
	cmd.AddCommand(ticketsCreateCmd())
	return cmd
}

func ticketsListCmd() *cobra.Command {
	var opts listOptions
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List support tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			params := url.Values{}
			if status != "" {
				params.Set("status", status)
			}
			tickets, err := fetchCached(cmd.Context(), cache.NewKey("tickets", params),
				func(ctx context.Context) ([]api.Ticket, error) { return client.ListTickets(ctx, status) })
			if err != nil {
				return err
			}

			fields := []func(api.Ticket) string{
				func(t api.Ticket) string { return t.Subject },
				func(t api.Ticket) string { return t.Message },
			}
			result := view.Apply(tickets, listQuery(opts, fields))
			return writeList(cmd.OutOrStdout(), result, "No tickets found.",
				[]string{"ID", "SUBJECT", "STATUS", "PRIORITY", "CREATED"},
				func(t api.Ticket) []string {
					return []string{t.ID, t.Subject, t.Status, orDash(t.Priority), view.FormatDate(t.CreatedAt)}
				})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Only tickets with this status")
	return cmd
}

func ticketsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a support ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ticket, err := client.GetTicket(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, ticket)
			}
			if err := writeFields(out,
				"ID", ticket.ID,
				"Subject", ticket.Subject,
				"Status", ticket.Status,
				"Priority", orDash(ticket.Priority),
				"Created", view.FormatDate(ticket.CreatedAt),
			); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", ticket.Message)
			return nil
		},
	}

	return cmd
}

func ticketsCreateCmd() *cobra.Command {
	var input api.TicketInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a support ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ticket, err := client.CreateTicket(cmd.Context(), input)
			if err != nil {
				return err
			}
			invalidate("tickets")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), ticket)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened ticket %s.\n", ticket.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&input.Message, "message", "", "Message")
	cmd.Flags().StringVar(&input.Priority, "priority", "", "Priority (low|normal|high)")
	return cmd
}

func mailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Partner mailbox",
	}

	cmd.AddCommand(mailListCmd())
	cmd.AddCommand(mailSendCmd())
	return cmd
}

func mailListCmd() *cobra.Command {
	var opts listOptions
	var folder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mailbox messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			messages, err := fetchCached(cmd.Context(), cache.NewKey("mail", url.Values{"folder": {folder}}),
				func(ctx context.Context) ([]api.MailMessage, error) { return client.ListMail(ctx, folder) })
			if err != nil {
				return err
			}

			fields := []func(api.MailMessage) string{
				func(m api.MailMessage) string { return m.Subject },
				func(m api.MailMessage) string { return m.From },
				func(m api.MailMessage) string { return m.To },
			}
			result := view.Apply(messages, listQuery(opts, fields))
			return writeList(cmd.OutOrStdout(), result, "No messages.",
				[]string{"DATE", "FROM", "TO", "SUBJECT", "READ"},
				func(m api.MailMessage) []string {
					return []string{view.FormatDate(m.CreatedAt), m.From, m.To, m.Subject, yesNo(m.Read)}
				})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&folder, "folder", "inbox", "Folder (inbox|sent)")
	return cmd
}

func mailSendCmd() *cobra.Command {
	var input api.MailInput

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			message, err := client.SendMail(cmd.Context(), input)
			if err != nil {
				return err
			}
			invalidate("mail")

			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %q to %s.\n", message.Subject, message.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.To, "to", "", "Recipient email")
	cmd.Flags().StringVar(&input.Subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&input.Body, "body", "", "Message body")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached responses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := queryCache.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached responses.\n", removed)
			return nil
		},
	})
	return cmd
}

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

type TicketInput struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
}

func (in TicketInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Subject) == "" {
		errs = append(errs, invalid("subject", "is required"))
	}
	if strings.TrimSpace(in.Message) == "" {
		errs = append(errs, invalid("message", "is required"))
	}
	switch in.Priority {
	case "", "low", "normal", "high":
	default:
		errs = append(errs, invalid("priority", "must be one of low|normal|high"))
	}
	return errors.Join(errs...)
}

func (c *Client) ListTickets(ctx context.Context, status string) ([]Ticket, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var tickets []Ticket
	if err := c.get(ctx, "/tickets", q, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicket(ctx context.Context, id string) (Ticket, error) {
	var ticket Ticket
	if err := c.get(ctx, resourcePath("tickets", id), nil, &ticket); err != nil {
		return Ticket{}, err
	}
	return ticket, nil
}

func (c *Client) CreateTicket(ctx context.Context, input TicketInput) (Ticket, error) {
	if err := input.Validate(); err != nil {
		return Ticket{}, err
	}
	var ticket Ticket
	if err := c.send(ctx, http.MethodPost, "/tickets", input, &ticket); err != nil {
		return Ticket{}, err
	}
	return ticket, nil
}

type MailInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (in MailInput) Validate() error {
	var errs []error
	to := strings.TrimSpace(in.To)
	if to == "" {
		errs = append(errs, invalid("to", "is required"))
	} else if !strings.Contains(to, "@") {
		errs = append(errs, invalid("to", "%q is not an email address", in.To))
	}
	if strings.TrimSpace(in.Subject) == "" {
		errs = append(errs, invalid("subject", "is required"))
	}
	if strings.TrimSpace(in.Body) == "" {
		errs = append(errs, invalid("body", "is required"))
	}
	return errors.Join(errs...)
}

func (c *Client) ListMail(ctx context.Context, folder string) ([]MailMessage, error) {
	q := url.Values{}
	if folder != "" {
		q.Set("folder", folder)
	}
	var messages []MailMessage
	if err := c.get(ctx, "/partners/mail/messages", q, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMail(ctx context.Context, input MailInput) (MailMessage, error) {
	if err := input.Validate(); err != nil {
		return MailMessage{}, err
	}
	var message MailMessage
	if err := c.send(ctx, http.MethodPost, "/partners/mail/send", input, &message); err != nil {
		return MailMessage{}, err
	}
	return message, nil
}

package api

import (
	"context"
	"net/url"
	"time"
)

type RevenueParams struct {
	From       time.Time
	To         time.Time
	LocationID string
}

func (p RevenueParams) Values() url.Values {
	q := url.Values{}
	if !p.From.IsZero() {
		q.Set("start_date", p.From.Format("2006-01-02"))
	}
	if !p.To.IsZero() {
		q.Set("end_date", p.To.Format("2006-01-02"))
	}
	if p.LocationID != "" {
		q.Set("location_id", p.LocationID)
	}
	return q
}

func (c *Client) RevenueSummary(ctx context.Context, params RevenueParams) (RevenueSummary, error) {
	var summary RevenueSummary
	if err := c.get(ctx, "/revenue/summary", params.Values(), &summary); err != nil {
		return RevenueSummary{}, err
	}
	return summary, nil
}

func (c *Client) RevenueDaily(ctx context.Context, params RevenueParams) ([]DailyRevenue, error) {
	var days []DailyRevenue
	if err := c.get(ctx, "/revenue/daily", params.Values(), &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (c *Client) RevenueByPaymentMode(ctx context.Context, params RevenueParams) ([]PaymentModeRevenue, error) {
	var modes []PaymentModeRevenue
	if err := c.get(ctx, "/revenue/by-payment-mode", params.Values(), &modes); err != nil {
		return nil, err
	}
	return modes, nil
}

func (c *Client) RevenueHistory(ctx context.Context, params RevenueParams) ([]RevenueTransaction, error) {
	var history []RevenueTransaction
	if err := c.get(ctx, "/revenue/history", params.Values(), &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) ListSettlements(ctx context.Context, params RevenueParams) ([]Settlement, error) {
	var settlements []Settlement
	if err := c.get(ctx, "/settlements", params.Values(), &settlements); err != nil {
		return nil, err
	}
	return settlements, nil
}

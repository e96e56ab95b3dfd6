package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// PricingInput mirrors the rule form. Location and storage references are
// only sent for the scope that uses them.
type PricingInput struct {
	Scope         PricingScope `json:"scope"`
	LocationID    string       `json:"location_id,omitempty"`
	StorageID     string       `json:"storage_id,omitempty"`
	PricingType   PricingType  `json:"pricing_type"`
	PricePerHour  int64        `json:"price_per_hour"`
	PricePerDay   int64        `json:"price_per_day"`
	PricePerWeek  int64        `json:"price_per_week"`
	PricePerMonth int64        `json:"price_per_month"`
	MinimumCharge int64        `json:"minimum_charge"`
	Priority      int          `json:"priority"`
	IsActive      bool         `json:"is_active"`
}

func (in PricingInput) Validate() error {
	var errs []error
	if !validScope(in.Scope) {
		errs = append(errs, invalid("scope", "must be one of GLOBAL|TENANT|LOCATION|STORAGE"))
	}
	if !validPricingType(in.PricingType) {
		errs = append(errs, invalid("pricing_type", "must be one of hourly|daily|weekly|monthly"))
	}
	if in.Scope == ScopeLocation && strings.TrimSpace(in.LocationID) == "" {
		errs = append(errs, invalid("location_id", "is required for LOCATION scope"))
	}
	if in.Scope == ScopeStorage && strings.TrimSpace(in.StorageID) == "" {
		errs = append(errs, invalid("storage_id", "is required for STORAGE scope"))
	}
	prices := map[string]int64{
		"price_per_hour":  in.PricePerHour,
		"price_per_day":   in.PricePerDay,
		"price_per_week":  in.PricePerWeek,
		"price_per_month": in.PricePerMonth,
		"minimum_charge":  in.MinimumCharge,
	}
	for _, field := range []string{"price_per_hour", "price_per_day", "price_per_week", "price_per_month", "minimum_charge"} {
		if prices[field] < 0 {
			errs = append(errs, invalid(field, "must not be negative"))
		}
	}
	rule := PricingRule{
		PricingType:   in.PricingType,
		PricePerHour:  in.PricePerHour,
		PricePerDay:   in.PricePerDay,
		PricePerWeek:  in.PricePerWeek,
		PricePerMonth: in.PricePerMonth,
	}
	if validPricingType(in.PricingType) && rule.UnitPrice() <= 0 {
		errs = append(errs, invalid(priceField(in.PricingType), "is required for %s pricing", in.PricingType))
	}
	if in.Priority < 0 {
		errs = append(errs, invalid("priority", "must not be negative"))
	}
	return errors.Join(errs...)
}

// normalized drops references that do not belong to the chosen scope.
func (in PricingInput) normalized() PricingInput {
	switch in.Scope {
	case ScopeLocation:
		in.StorageID = ""
	case ScopeStorage:
		in.LocationID = ""
	default:
		in.LocationID = ""
		in.StorageID = ""
	}
	return in
}

func priceField(t PricingType) string {
	switch t {
	case PricingHourly:
		return "price_per_hour"
	case PricingDaily:
		return "price_per_day"
	case PricingWeekly:
		return "price_per_week"
	}
	return "price_per_month"
}

func validScope(scope PricingScope) bool {
	for _, s := range PricingScopes {
		if s == scope {
			return true
		}
	}
	return false
}

func validPricingType(t PricingType) bool {
	for _, pt := range PricingTypes {
		if pt == t {
			return true
		}
	}
	return false
}

func (c *Client) ListPricing(ctx context.Context) ([]PricingRule, error) {
	var rules []PricingRule
	if err := c.get(ctx, "/pricing", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (c *Client) CreatePricing(ctx context.Context, input PricingInput) (PricingRule, error) {
	if err := input.Validate(); err != nil {
		return PricingRule{}, err
	}
	var rule PricingRule
	if err := c.send(ctx, http.MethodPost, "/pricing", input.normalized(), &rule); err != nil {
		return PricingRule{}, err
	}
	return rule, nil
}

func (c *Client) UpdatePricing(ctx context.Context, id string, input PricingInput) (PricingRule, error) {
	if err := input.Validate(); err != nil {
		return PricingRule{}, err
	}
	var rule PricingRule
	if err := c.send(ctx, http.MethodPatch, resourcePath("pricing", id), input.normalized(), &rule); err != nil {
		return PricingRule{}, err
	}
	return rule, nil
}

func (c *Client) DeletePricing(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, resourcePath("pricing", id), nil, nil)
}

// InputFromRule seeds an update form with a rule's current values.
func InputFromRule(rule PricingRule) PricingInput {
	return PricingInput{
		Scope:         rule.Scope,
		LocationID:    rule.LocationID,
		StorageID:     rule.StorageID,
		PricingType:   rule.PricingType,
		PricePerHour:  rule.PricePerHour,
		PricePerDay:   rule.PricePerDay,
		PricePerWeek:  rule.PricePerWeek,
		PricePerMonth: rule.PricePerMonth,
		MinimumCharge: rule.MinimumCharge,
		Priority:      rule.Priority,
		IsActive:      rule.IsActive,
	}
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type LocationInput struct {
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	PhoneNumber  string        `json:"phone_number,omitempty"`
	WorkingHours []WorkingHour `json:"working_hours,omitempty"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
}

func (in LocationInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, invalid("name", "is required"))
	}
	if strings.TrimSpace(in.Address) == "" {
		errs = append(errs, invalid("address", "is required"))
	}
	errs = append(errs, validateCoordinates(&in.Latitude, &in.Longitude)...)
	errs = append(errs, validateWorkingHours(in.WorkingHours)...)
	return errors.Join(errs...)
}

// LocationPatch carries only the fields being changed.
type LocationPatch struct {
	Name         *string       `json:"name,omitempty"`
	Address      *string       `json:"address,omitempty"`
	PhoneNumber  *string       `json:"phone_number,omitempty"`
	WorkingHours []WorkingHour `json:"working_hours,omitempty"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
}

func (p LocationPatch) Validate() error {
	var errs []error
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, invalid("name", "must not be empty"))
	}
	if p.Address != nil && strings.TrimSpace(*p.Address) == "" {
		errs = append(errs, invalid("address", "must not be empty"))
	}
	errs = append(errs, validateCoordinates(p.Latitude, p.Longitude)...)
	errs = append(errs, validateWorkingHours(p.WorkingHours)...)
	return errors.Join(errs...)
}

func (p LocationPatch) Empty() bool {
	return p.Name == nil && p.Address == nil && p.PhoneNumber == nil &&
		p.WorkingHours == nil && p.Latitude == nil && p.Longitude == nil
}

func validateCoordinates(lat, lon *float64) []error {
	var errs []error
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs = append(errs, invalid("latitude", "must be between -90 and 90"))
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		errs = append(errs, invalid("longitude", "must be between -180 and 180"))
	}
	return errs
}

func validateWorkingHours(hours []WorkingHour) []error {
	var errs []error
	seen := map[string]bool{}
	for _, wh := range hours {
		day := strings.ToLower(wh.Day)
		field := "working_hours." + day
		if !isWeekday(day) {
			errs = append(errs, invalid("working_hours", "unknown day %q", wh.Day))
			continue
		}
		if seen[day] {
			errs = append(errs, invalid(field, "listed more than once"))
			continue
		}
		seen[day] = true
		if wh.Closed {
			continue
		}
		open, err := time.Parse("15:04", wh.Open)
		if err != nil {
			errs = append(errs, invalid(field, "invalid open time %q (expected HH:MM)", wh.Open))
			continue
		}
		closeAt, err := time.Parse("15:04", wh.Close)
		if err != nil {
			errs = append(errs, invalid(field, "invalid close time %q (expected HH:MM)", wh.Close))
			continue
		}
		if !closeAt.After(open) {
			errs = append(errs, invalid(field, "close must be after open"))
		}
	}
	return errs
}

func isWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseWorkingHours reads "monday=09:00-18:00" or "sunday=closed".
func ParseWorkingHours(input string) (WorkingHour, error) {
	day, window, ok := strings.Cut(input, "=")
	if !ok {
		return WorkingHour{}, fmt.Errorf("invalid working hours %q (expected day=HH:MM-HH:MM)", input)
	}
	wh := WorkingHour{Day: strings.ToLower(strings.TrimSpace(day))}
	window = strings.TrimSpace(window)
	if strings.EqualFold(window, "closed") {
		wh.Closed = true
		return wh, nil
	}
	open, closeAt, ok := strings.Cut(window, "-")
	if !ok {
		return WorkingHour{}, fmt.Errorf("invalid working hours %q (expected day=HH:MM-HH:MM)", input)
	}
	wh.Open = strings.TrimSpace(open)
	wh.Close = strings.TrimSpace(closeAt)
	return wh, nil
}

func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := c.get(ctx, "/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *Client) GetLocation(ctx context.Context, id string) (Location, error) {
	var location Location
	if err := c.get(ctx, resourcePath("locations", id), nil, &location); err != nil {
		return Location{}, err
	}
	return location, nil
}

func (c *Client) CreateLocation(ctx context.Context, input LocationInput) (Location, error) {
	if err := input.Validate(); err != nil {
		return Location{}, err
	}
	var location Location
	if err := c.send(ctx, http.MethodPost, "/locations", input, &location); err != nil {
		return Location{}, err
	}
	return location, nil
}

func (c *Client) UpdateLocation(ctx context.Context, id string, patch LocationPatch) (Location, error) {
	if err := patch.Validate(); err != nil {
		return Location{}, err
	}
	var location Location
	if err := c.send(ctx, http.MethodPatch, resourcePath("locations", id), patch, &location); err != nil {
		return Location{}, err
	}
	return location, nil
}

func (c *Client) DeleteLocation(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, resourcePath("locations", id), nil, nil)
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// StaffInput is sent whole on both create and update; the id arrays replace
// the existing assignment.
type StaffInput struct {
	UserID      string   `json:"user_id"`
	StorageIDs  []string `json:"storage_ids"`
	LocationIDs []string `json:"location_ids"`
}

func (in StaffInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.UserID) == "" {
		errs = append(errs, invalid("user_id", "is required"))
	}
	if len(in.StorageIDs) == 0 && len(in.LocationIDs) == 0 {
		errs = append(errs, invalid("assignment", "at least one storage or location is required"))
	}
	if dup := firstDuplicate(in.StorageIDs); dup != "" {
		errs = append(errs, invalid("storage_ids", "%q listed more than once", dup))
	}
	if dup := firstDuplicate(in.LocationIDs); dup != "" {
		errs = append(errs, invalid("location_ids", "%q listed more than once", dup))
	}
	return errors.Join(errs...)
}

func firstDuplicate(ids []string) string {
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id
		}
		seen[id] = struct{}{}
	}
	return ""
}

func (c *Client) ListStaff(ctx context.Context) ([]Staff, error) {
	var staff []Staff
	if err := c.get(ctx, "/staff", nil, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) CreateStaff(ctx context.Context, input StaffInput) (Staff, error) {
	if err := input.Validate(); err != nil {
		return Staff{}, err
	}
	var staff Staff
	if err := c.send(ctx, http.MethodPost, "/staff", input, &staff); err != nil {
		return Staff{}, err
	}
	return staff, nil
}

func (c *Client) UpdateStaff(ctx context.Context, id string, input StaffInput) (Staff, error) {
	if err := input.Validate(); err != nil {
		return Staff{}, err
	}
	var staff Staff
	if err := c.send(ctx, http.MethodPatch, resourcePath("staff", id), input, &staff); err != nil {
		return Staff{}, err
	}
	return staff, nil
}

func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, resourcePath("staff", id), nil, nil)
}

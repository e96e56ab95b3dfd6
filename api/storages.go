package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type StorageInput struct {
	LocationID string        `json:"location_id"`
	Code       string        `json:"code"`
	Status     StorageStatus `json:"status,omitempty"`
}

func (in StorageInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.LocationID) == "" {
		errs = append(errs, invalid("location_id", "is required"))
	}
	if strings.TrimSpace(in.Code) == "" {
		errs = append(errs, invalid("code", "is required"))
	}
	if in.Status != "" && !in.Status.Valid() {
		errs = append(errs, invalid("status", "must be one of %s", joinStatuses()))
	}
	return errors.Join(errs...)
}

type StoragePatch struct {
	LocationID *string        `json:"location_id,omitempty"`
	Code       *string        `json:"code,omitempty"`
	Status     *StorageStatus `json:"status,omitempty"`
}

func (p StoragePatch) Validate() error {
	var errs []error
	if p.LocationID != nil && strings.TrimSpace(*p.LocationID) == "" {
		errs = append(errs, invalid("location_id", "must not be empty"))
	}
	if p.Code != nil && strings.TrimSpace(*p.Code) == "" {
		errs = append(errs, invalid("code", "must not be empty"))
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, invalid("status", "must be one of %s", joinStatuses()))
	}
	return errors.Join(errs...)
}

func (p StoragePatch) Empty() bool {
	return p.LocationID == nil && p.Code == nil && p.Status == nil
}

func joinStatuses() string {
	names := make([]string, 0, len(StorageStatuses))
	for _, status := range StorageStatuses {
		names = append(names, string(status))
	}
	return strings.Join(names, "|")
}

// ListStorages fetches every storage of the tenant; filtering happens locally.
func (c *Client) ListStorages(ctx context.Context) ([]Storage, error) {
	var storages []Storage
	if err := c.get(ctx, "/storages", nil, &storages); err != nil {
		return nil, err
	}
	return storages, nil
}

func (c *Client) GetStorage(ctx context.Context, id string) (Storage, error) {
	var storage Storage
	if err := c.get(ctx, resourcePath("storages", id), nil, &storage); err != nil {
		return Storage{}, err
	}
	return storage, nil
}

func (c *Client) CreateStorage(ctx context.Context, input StorageInput) (Storage, error) {
	if err := input.Validate(); err != nil {
		return Storage{}, err
	}
	var storage Storage
	if err := c.send(ctx, http.MethodPost, "/storages", input, &storage); err != nil {
		return Storage{}, err
	}
	return storage, nil
}

func (c *Client) UpdateStorage(ctx context.Context, id string, patch StoragePatch) (Storage, error) {
	if err := patch.Validate(); err != nil {
		return Storage{}, err
	}
	var storage Storage
	if err := c.send(ctx, http.MethodPatch, resourcePath("storages", id), patch, &storage); err != nil {
		return Storage{}, err
	}
	return storage, nil
}

func (c *Client) DeleteStorage(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, resourcePath("storages", id), nil, nil)
}

func (c *Client) StorageCalendar(ctx context.Context, id string, start, end time.Time) (StorageCalendar, error) {
	if end.Before(start) {
		return StorageCalendar{}, fmt.Errorf("calendar end date must be on or after start date")
	}
	q := url.Values{}
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", end.Format("2006-01-02"))

	var calendar StorageCalendar
	if err := c.get(ctx, resourcePath("storages", id)+"/calendar", q, &calendar); err != nil {
		return StorageCalendar{}, err
	}
	return calendar, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"partner-panel/cache"
	"partner-panel/storage"
	"partner-panel/view"

	"github.com/spf13/cobra"
)

// dependents lists the cached resources a mutation of the key resource
// makes stale.
var dependents = map[string][]string{
	"locations": {"locations", "storages", "storages/calendar", "staff", "pricing"},
	"storages":  {"storages", "storages/calendar", "locations", "staff", "pricing"},
	"staff":     {"staff"},
	"pricing":   {"pricing"},
	"tickets":   {"tickets"},
	"mail":      {"mail"},
}

func invalidate(resource string) {
	resources, ok := dependents[resource]
	if !ok {
		resources = []string{resource}
	}
	queryCache.Invalidate(resources...)
}

// fetchCached reads through the query cache. A stale value is returned
// with a warning instead of the refresh error.
func fetchCached[T any](ctx context.Context, key cache.Key, fn func(context.Context) (T, error)) (T, error) {
	value, err := cache.Fetch(ctx, queryCache, key, fn)
	var stale *cache.StaleError
	if errors.As(err, &stale) {
		logger.Warn(stale.Error())
		return value, nil
	}
	return value, err
}

func requireLogin() error {
	if creds == nil || creds.AccessToken == "" {
		return fmt.Errorf("not logged in. Run 'partner auth login' first")
	}
	if creds.AccessTokenExpired(time.Now()) {
		return fmt.Errorf("token expired for %s. Run 'partner auth login' to re-authenticate", creds.Email)
	}
	return nil
}

type listOptions struct {
	search   string
	page     int
	pageSize int
}

func (o *listOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.search, "search", "", "Case-insensitive text search")
	cmd.Flags().IntVar(&o.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&o.pageSize, "page-size", 0, "Rows per page (default from config)")
}

func listQuery[T any](o listOptions, fields []func(T) string, filters ...view.Filter[T]) view.Query[T] {
	size := o.pageSize
	if size <= 0 {
		size = cfg.PageSize
	}
	return view.Query[T]{
		Search:       o.search,
		SearchFields: fields,
		Filters:      filters,
		Page:         o.page,
		PageSize:     size,
	}
}

// filterOn skips empty values so an unset flag means "all".
func filterOn[T any](value string, field func(T) string) []view.Filter[T] {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return []view.Filter[T]{{Field: field, Value: value}}
}

type table struct {
	writer *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{writer: tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)}
	if !outputCompact && len(headers) > 0 {
		fmt.Fprintln(t.writer, strings.Join(headers, "\t"))
	}
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.writer, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.writer.Flush()
}

// writeList renders one page of records, or the empty message. JSON output
// carries the pagination meta alongside the items.
func writeList[T any](w io.Writer, result view.Result[T], empty string, headers []string, cells func(T) []string) error {
	if outputJSON {
		return writeJSON(w, result)
	}
	if len(result.Items) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}

	t := newTable(w, headers...)
	for _, item := range result.Items {
		t.row(cells(item)...)
	}
	if err := t.flush(); err != nil {
		return err
	}
	if !outputCompact {
		fmt.Fprintf(w, "Page %d/%d (%d records)\n", result.Meta.Page, result.Meta.TotalPages, result.Meta.Total)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeFields(w io.Writer, pairs ...string) error {
	t := newTable(w)
	for i := 0; i+1 < len(pairs); i += 2 {
		t.row(pairs[i]+":", pairs[i+1])
	}
	return t.flush()
}

// resolveLocationID accepts a saved alias or a raw location id.
func resolveLocationID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	aliases, err := storage.LoadAliases()
	if err != nil {
		return "", err
	}
	if alias, ok := storage.FindAlias(aliases, input); ok {
		return alias.LocationID, nil
	}
	return input, nil
}

func parseDateInput(input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(input) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	parsed, ok := view.ParseDateIn(input, now.Location())
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or DD.MM.YYYY)", input)
	}
	return parsed, nil
}

// parseOptionalDate returns the zero time for an empty flag.
func parseOptionalDate(input string) (time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return time.Time{}, nil
	}
	return parseDateInput(input)
}

func parseAmount(flag, input string) (int64, error) {
	minor, err := view.ParseMinor(input)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", flag, err)
	}
	return minor, nil
}

func money(minor int64) string {
	return view.FormatMinor(minor, cfg.Currency)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func splitIDs(values []string) []string {
	ids := []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
	}
	return ids
}

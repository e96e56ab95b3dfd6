package cmd

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"partner-panel/api"
)

func TestStaffListMembershipFilters(t *testing.T) {
	b := newBackend()
	setupCLI(t, b, true)

	code, out, errOut := runCLI("staff", "list", "--location", "loc-2")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Mehmet") || strings.Contains(out, "Ayse") {
		t.Fatalf("location filter output = %q", out)
	}
	if !strings.Contains(out, "Besiktas") || !strings.Contains(out, "A12, A13") {
		t.Fatalf("references not resolved to names: %q", out)
	}
	if !strings.Contains(out, "Page 1/1 (1 records)") {
		t.Fatalf("footer missing: %q", out)
	}

	code, out, errOut = runCLI("staff", "list", "--storage", "st-00")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Ayse") || strings.Contains(out, "Mehmet") {
		t.Fatalf("storage filter output = %q", out)
	}

	code, out, errOut = runCLI("staff", "list", "--location", "loc-1", "--storage", "st-12")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "No staff found.") {
		t.Fatalf("combined filters should match nobody: %q", out)
	}
}

func TestStaffUpdateKeepsUnchangedList(t *testing.T) {
	b := newBackend()
	setupCLI(t, b, true)

	code, out, errOut := runCLI("staff", "update", "stf-1", "--storage", "st-05,st-06")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Updated assignment for u-1.") {
		t.Fatalf("output = %q", out)
	}

	var sent api.StaffInput
	b.body(t, "PATCH /api/v1/staff/stf-1", &sent)
	want := api.StaffInput{UserID: "u-1", StorageIDs: []string{"st-05", "st-06"}, LocationIDs: []string{"loc-1"}}
	if !reflect.DeepEqual(sent, want) {
		t.Fatalf("sent %+v, want %+v", sent, want)
	}

	if code, _, _ := runCLI("staff", "update", "stf-9", "--storage", "st-01"); code != 1 {
		t.Fatalf("unknown member exit = %d, want 1", code)
	}
}

func TestPricingUpdateMergesFlags(t *testing.T) {
	b := newBackend()
	setupCLI(t, b, true)

	code, out, errOut := runCLI("pricing", "update", "pr-1", "--hourly", "20")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Updated rule pr-1.") {
		t.Fatalf("output = %q", out)
	}

	var sent api.PricingInput
	b.body(t, "PATCH /api/v1/pricing/pr-1", &sent)
	want := api.PricingInput{
		Scope:         api.ScopeLocation,
		LocationID:    "loc-1",
		PricingType:   api.PricingHourly,
		PricePerHour:  2000,
		MinimumCharge: 500,
		Priority:      2,
		IsActive:      false,
	}
	if sent != want {
		t.Fatalf("sent %+v, want %+v", sent, want)
	}

	if code, _, errOut := runCLI("pricing", "update", "pr-1", "--active"); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	sent = api.PricingInput{}
	b.body(t, "PATCH /api/v1/pricing/pr-1", &sent)
	want.PricePerHour = 1500
	want.IsActive = true
	if sent != want {
		t.Fatalf("sent %+v, want %+v", sent, want)
	}

	code, _, errOut = runCLI("pricing", "update", "pr-1")
	if code != 1 || !strings.Contains(errOut, "nothing to update") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestRevenueReports(t *testing.T) {
	b := newBackend()
	setupCLI(t, b, true)

	code, out, errOut := runCLI("revenue", "summary", "--from", "2024-01-01", "--to", "31.01.2024", "--location", "loc-1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"Total revenue", "1.250,00 ₺", "Platform fee", "187,50 ₺", "Tenant share", "1.062,50 ₺", "Transactions"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q: %q", want, out)
		}
	}
	query, err := url.ParseQuery(b.query("/api/v1/revenue/summary"))
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if query.Get("start_date") != "2024-01-01" || query.Get("end_date") != "2024-01-31" || query.Get("location_id") != "loc-1" {
		t.Fatalf("summary query = %v", query)
	}

	code, out, errOut = runCLI("revenue", "daily", "--from", "2024-01-01")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"01.01.2024", "500,00 ₺", "02.01.2024", "750,00 ₺", "TOTAL", "1.250,00 ₺"} {
		if !strings.Contains(out, want) {
			t.Fatalf("daily missing %q: %q", want, out)
		}
	}
	if query, _ := url.ParseQuery(b.query("/api/v1/revenue/daily")); query.Has("end_date") {
		t.Fatalf("unset --to should not be sent: %v", query)
	}

	code, out, errOut = runCLI("revenue", "daily", "--from", "2024-01-01", "--compact")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if strings.Contains(out, "TOTAL") {
		t.Fatalf("compact output keeps the total row: %q", out)
	}

	code, out, errOut = runCLI("revenue", "by-payment-mode")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"card", "937,50 ₺", "75.0%", "cash", "312,50 ₺", "25.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("by-payment-mode missing %q: %q", want, out)
		}
	}

	code, out, errOut = runCLI("revenue", "history", "--status", "paid")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "tx-1") || !strings.Contains(out, "tx-2") || strings.Contains(out, "tx-3") {
		t.Fatalf("history status filter output = %q", out)
	}
	if !strings.Contains(out, "Page 1/1 (2 records)") {
		t.Fatalf("history footer missing: %q", out)
	}

	code, out, errOut = runCLI("settlements", "list", "--from", "2024-01-01")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"tx-1", "100,00 ₺", "15,00 ₺", "85,00 ₺", "settled", "Page 1/1 (1 records)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("settlements missing %q: %q", want, out)
		}
	}
	if query, _ := url.ParseQuery(b.query("/api/v1/settlements")); query.Get("start_date") != "2024-01-01" {
		t.Fatalf("settlements query = %v", query)
	}

	code, _, errOut = runCLI("revenue", "summary", "--from", "2024-02-01", "--to", "2024-01-01")
	if code != 1 || !strings.Contains(errOut, "--to must not be before --from") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestLocationChangeInvalidatesStorages(t *testing.T) {
	b := newBackend()
	setupCLI(t, b, true)

	for i := 0; i < 2; i++ {
		if code, _, errOut := runCLI("storages", "list"); code != 0 {
			t.Fatalf("exit %d: %s", code, errOut)
		}
	}
	if n := b.storageReads.Load(); n != 1 {
		t.Fatalf("storage reads = %d, want 1", n)
	}
	if n := b.locationReads.Load(); n != 1 {
		t.Fatalf("location reads = %d, want 1", n)
	}

	code, out, errOut := runCLI("locations", "create", "--name", "Uskudar", "--address", "Hakimiyeti Milliye Cd. 5")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Created location Uskudar (loc-3).") {
		t.Fatalf("output = %q", out)
	}

	if code, _, errOut := runCLI("storages", "list"); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if n := b.storageReads.Load(); n != 2 {
		t.Fatalf("storage reads = %d, want 2 after a location change", n)
	}
	if n := b.locationReads.Load(); n != 2 {
		t.Fatalf("location reads = %d, want 2 after a location change", n)
	}
}

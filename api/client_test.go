package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestClient(t *testing.T, router http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := NewClient()
	client.HTTP = server.Client()
	client.BaseURL = server.URL + "/api/v1"
	return client
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequestHeaders(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/locations", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-Tenant-ID"); got != "tenant-1" {
			t.Errorf("X-Tenant-ID = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing X-Request-ID")
		}
		writeTestJSON(w, http.StatusOK, []Location{{ID: "loc-1", Name: "Kadikoy"}})
	})

	client := newTestClient(t, router)
	client.AccessToken = "token-1"
	client.TenantID = "tenant-1"

	locations, err := client.ListLocations(context.Background())
	if err != nil {
		t.Fatalf("ListLocations: %v", err)
	}
	if len(locations) != 1 || locations[0].Name != "Kadikoy" {
		t.Fatalf("unexpected locations: %+v", locations)
	}
}

func TestErrorNormalization(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{"nested error", http.StatusBadRequest, `{"error":{"code":"invalid_request","message":"code already used"}}`, "invalid_request", "code already used"},
		{"message field", http.StatusConflict, `{"message":"storage is occupied"}`, "", "storage is occupied"},
		{"string error", http.StatusBadRequest, `{"error":"bad scope"}`, "", "bad scope"},
		{"detail list", http.StatusUnprocessableEntity, `{"detail":["name required","address required"]}`, "", "name required; address required"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "", "Service Unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Get("/api/v1/storages/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			client := newTestClient(t, router)

			_, err := client.GetStorage(context.Background(), "st-1")
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.Status != tc.status || apiErr.Code != tc.wantCode || apiErr.Message != tc.wantMsg {
				t.Fatalf("got %+v", apiErr)
			}
			if apiErr.RequestID == "" {
				t.Fatalf("expected request id on error")
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(&Error{Status: http.StatusNotFound, Message: "location missing"}); got != "not found: location missing" {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(&Error{Status: http.StatusInternalServerError, Message: "boom"}); got != "boom" {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Fatalf("Message = %q", got)
	}
	if !IsUnauthorized(&Error{Status: http.StatusUnauthorized}) || IsNotFound(&Error{Status: http.StatusBadRequest}) {
		t.Fatalf("status helpers disagree")
	}
}

func TestLoginStoresToken(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["email"] != "ops@example.com" {
			writeTestJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		writeTestJSON(w, http.StatusOK, AuthResponse{AccessToken: "tok", User: User{ID: "u1", TenantID: "t1"}})
	})
	client := newTestClient(t, router)

	if _, err := client.Login(context.Background(), "nobody@example.com", "x"); !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	resp, err := client.Login(context.Background(), "ops@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != "u1" || client.AccessToken != "tok" || client.TenantID != "t1" {
		t.Fatalf("client not updated: token=%q tenant=%q", client.AccessToken, client.TenantID)
	}
}

func TestStorageCalendarQuery(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/storages/{id}/calendar", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if chi.URLParam(r, "id") != "st 1" {
			t.Errorf("id = %q", chi.URLParam(r, "id"))
		}
		if q.Get("start_date") != "2024-01-15" || q.Get("end_date") != "2024-01-21" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		writeTestJSON(w, http.StatusOK, StorageCalendar{StorageID: "st 1", Entries: []CalendarEntry{{ReservationID: "r1"}}})
	})
	client := newTestClient(t, router)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	calendar, err := client.StorageCalendar(context.Background(), "st 1", start, end)
	if err != nil {
		t.Fatalf("StorageCalendar: %v", err)
	}
	if len(calendar.Entries) != 1 {
		t.Fatalf("entries = %d", len(calendar.Entries))
	}
	if _, err := client.StorageCalendar(context.Background(), "st 1", end, start); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestCreatePricingDropsForeignReferences(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/v1/pricing", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["storage_id"]; ok {
			t.Errorf("storage_id sent for LOCATION scope")
		}
		if body["location_id"] != "loc-1" {
			t.Errorf("location_id = %v", body["location_id"])
		}
		writeTestJSON(w, http.StatusCreated, PricingRule{ID: "pr-1", Scope: ScopeLocation})
	})
	client := newTestClient(t, router)

	rule, err := client.CreatePricing(context.Background(), PricingInput{
		Scope:        ScopeLocation,
		LocationID:   "loc-1",
		StorageID:    "st-9",
		PricingType:  PricingHourly,
		PricePerHour: 2500,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("CreatePricing: %v", err)
	}
	if rule.ID != "pr-1" {
		t.Fatalf("rule = %+v", rule)
	}
}

func TestValidationSkipsNetwork(t *testing.T) {
	called := false
	router := chi.NewRouter()
	router.Post("/api/v1/storages", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	client := newTestClient(t, router)

	_, err := client.CreateStorage(context.Background(), StorageInput{Code: "DEPO-001", Status: "broken"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "location_id") || !strings.Contains(err.Error(), "status") {
		t.Fatalf("error = %v", err)
	}
	if called {
		t.Fatalf("request sent despite invalid input")
	}
}

func TestDeleteLocation(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/api/v1/locations/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			writeTestJSON(w, http.StatusNotFound, map[string]string{"message": "location not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, router)

	if err := client.DeleteLocation(context.Background(), "loc-1"); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	if err := client.DeleteLocation(context.Background(), "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEmptyBodyOnCreateIsAnError(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/v1/locations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	client := newTestClient(t, router)

	_, err := client.CreateLocation(context.Background(), LocationInput{Name: "Kadikoy", Address: "Moda Cd. 1"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if !strings.Contains(err.Error(), "POST /api/v1/locations") {
		t.Fatalf("error = %v", err)
	}
}

package view

import (
	"math"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
		want  time.Time
	}{
		{"2024-01-15", true, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15.01.2024", true, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00", true, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00Z", true, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15T13:30:00+03:00", true, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15 08:00:00", true, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
		{"15.01.2024 09:45", true, time.Date(2024, 1, 15, 9, 45, 0, 0, time.UTC)},
		{"15 Jan 2024", true, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"Jan 15, 2024", true, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"not-a-date", false, time.Time{}},
		{"", false, time.Time{}},
		{"31.02.2024", false, time.Time{}},
	}
	for _, tc := range cases {
		got, ok := ParseDateIn(tc.input, time.UTC)
		if ok != tc.ok {
			t.Fatalf("ParseDateIn(%q) ok=%v, want %v", tc.input, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseDateIn(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseDateUsesLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	got, ok := ParseDateIn("2024-01-15", istanbul)
	if !ok || got.Location() != istanbul {
		t.Fatalf("got %s (%v)", got, ok)
	}
}

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{0, "TRY", "0,00 ₺"},
		{5, "", "0,05 ₺"},
		{1250, "TRY", "12,50 ₺"},
		{1234567, "TRY", "12.345,67 ₺"},
		{-99900, "TRY", "-999,00 ₺"},
		{123456789, "try", "1.234.567,89 ₺"},
		{1234567, "EUR", "EUR 12,345.67"},
		{-150, "usd", "USD -1.50"},
		{math.MaxInt64, "EUR", "EUR 92,233,720,368,547,758.07"},
		{math.MinInt64, "TRY", "-92.233.720.368.547.758,08 ₺"},
	}
	for _, tc := range cases {
		if got := FormatMinor(tc.minor, tc.currency); got != tc.want {
			t.Fatalf("FormatMinor(%d, %q) = %q, want %q", tc.minor, tc.currency, got, tc.want)
		}
	}
}

func TestParseMinor(t *testing.T) {
	cases := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"12", 1200, true},
		{"12.5", 1250, true},
		{"12,50", 1250, true},
		{"0.05", 5, true},
		{"-3.10", -310, true},
		{"", 0, false},
		{"12.345", 0, false},
		{"12.", 0, false},
		{"1.2.3", 0, false},
		{"12.-5", 0, false},
		{"abc", 0, false},
		{"92233720368547758.07", math.MaxInt64, true},
		{"-92233720368547758.07", -math.MaxInt64, true},
		{"92233720368547758.08", 0, false},
		{"92233720368547759", 0, false},
		{"184467440737095517", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.input)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseMinor(%q) err=%v", tc.input, err)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseMinor(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestFormatDateUsesLocalZone(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("TRT", 3*60*60)
	t.Cleanup(func() { time.Local = saved })

	cases := []struct {
		input string
		want  string
	}{
		{"2024-01-15T21:30:00Z", "16.01.2024 00:30"},
		{"2024-01-15T10:30:00+03:00", "15.01.2024 10:30"},
		{"2024-01-15 08:00:00", "15.01.2024 08:00"},
		{"2024-01-15", "15.01.2024"},
		{"soon", "soon"},
	}
	for _, tc := range cases {
		if got := FormatDate(tc.input); got != tc.want {
			t.Fatalf("FormatDate(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

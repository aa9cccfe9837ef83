package service

import (
	"testing"
	"time"
)

func TestPctChange(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"increase", 150, 100, 50.0},
		{"decrease", 80, 100, -20.0},
		{"both_zero", 0, 0, 0},
		{"previous_zero", 50, 0, 0},
		{"rounded_to_1dp", 100.55, 100, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pctChange(tc.current, tc.previous)
			if got != tc.want {
				t.Fatalf("pctChange(%v, %v) want %v got %v", tc.current, tc.previous, tc.want, got)
			}
		})
	}
}

func TestSalesTrendBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		want     string
	}{
		{"exactly_110_pct_is_stable", 110, 100, TrendStable},
		{"above_110_pct_is_up", 111, 100, TrendUp},
		{"below_90_pct_is_down", 89, 100, TrendDown},
		{"exactly_90_pct_is_stable", 90, 100, TrendStable},
		{"previous_zero_with_sales_is_up", 5, 0, TrendUp},
		{"both_zero_is_stable", 0, 0, TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := salesTrend(tc.current, tc.previous)
			if got != tc.want {
				t.Fatalf("salesTrend(%d, %d) want %s got %s", tc.current, tc.previous, tc.want, got)
			}
		})
	}
}

func TestResolveAnalyticsWindowPresets(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	window, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "today", Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("resolve today failed: %v", err)
	}
	if !window.startAt.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("today start want 2026-03-15T00:00Z got %v", window.startAt)
	}
	if window.days() != 1 {
		t.Fatalf("today days want 1 got %v", window.days())
	}

	window, err = resolveAnalyticsWindow(AnalyticsQueryInput{Range: "7d", Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("resolve 7d failed: %v", err)
	}
	if window.days() != 7 {
		t.Fatalf("7d days want 7 got %v", window.days())
	}
	if !window.endAt.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("7d end want 2026-03-16T00:00Z got %v", window.endAt)
	}

	if _, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "quarter"}, now); err == nil {
		t.Fatal("unknown range should fail")
	}
}

func TestResolveAnalyticsWindowDefaultsTo7d(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	window, err := resolveAnalyticsWindow(AnalyticsQueryInput{Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("resolve default failed: %v", err)
	}
	if window.rangeKey != "7d" {
		t.Fatalf("default range want 7d got %s", window.rangeKey)
	}
}

func TestResolveAnalyticsWindowCustomValidation(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 10, 23, 59, 59, 0, time.UTC)

	window, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "custom", From: &from, To: &to, Timezone: "UTC"}, now)
	if err != nil {
		t.Fatalf("resolve custom failed: %v", err)
	}
	if !window.endAt.Equal(to.Add(time.Second)) {
		t.Fatalf("custom end should include To second, got %v", window.endAt)
	}

	if _, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "custom", From: &from, Timezone: "UTC"}, now); err == nil {
		t.Fatal("custom without to should fail")
	}

	reversed := from.AddDate(0, 0, -1)
	if _, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "custom", From: &from, To: &reversed, Timezone: "UTC"}, now); err == nil {
		t.Fatal("custom with to before from should fail")
	}

	tooFar := from.AddDate(0, 0, 120)
	if _, err := resolveAnalyticsWindow(AnalyticsQueryInput{Range: "custom", From: &from, To: &tooFar, Timezone: "UTC"}, now); err == nil {
		t.Fatal("custom over max days should fail")
	}
}

func TestAnalyticsWindowPrevious(t *testing.T) {
	window := analyticsWindow{
		rangeKey: "7d",
		startAt:  time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		endAt:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		timezone: "UTC",
	}
	previous := window.previous()
	if !previous.endAt.Equal(window.startAt) {
		t.Fatalf("previous end should equal current start, got %v", previous.endAt)
	}
	if previous.days() != window.days() {
		t.Fatalf("previous window length want %v got %v", window.days(), previous.days())
	}
}

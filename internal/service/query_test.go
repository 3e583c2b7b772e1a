package service

import (
	"context"
	"testing"
	"time"

	"github.com/bobalog/bobalog-go/internal/model"
	"github.com/bobalog/bobalog-go/internal/repository"
)

func TestDispatch_NoModeSelected(t *testing.T) {
	svc := NewQueryService(repository.NewPurchaseRepository(nil))

	_, err := svc.Dispatch(context.Background(), 1, model.FilterRequest{})
	if err != model.ErrChooseOneFilter {
		t.Errorf("expected ErrChooseOneFilter, got %v", err)
	}
}

func TestWindowRange(t *testing.T) {
	// Wednesday 2024-03-13.
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		window   string
		wantFrom string
		wantTo   string
	}{
		{"day", "2024-03-13", "2024-03-14"},
		{"week", "2024-03-11", "2024-03-18"},
		{"month", "2024-03-01", "2024-04-01"},
		{"year", "2024-01-01", "2025-01-01"},
		// Anything unrecognized falls back to year.
		{"fortnight", "2024-01-01", "2025-01-01"},
		{"", "2024-01-01", "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			from, to := windowRange(now, tt.window)
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("windowRange(%q) = [%s, %s), want [%s, %s)",
					tt.window, from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestWindowRange_WeekStartsMonday(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantFrom string
	}{
		{"sunday belongs to preceding monday", time.Date(2024, time.March, 17, 8, 0, 0, 0, time.UTC), "2024-03-11"},
		{"monday starts its own week", time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), "2024-03-11"},
		{"week spanning month boundary", time.Date(2024, time.April, 2, 12, 0, 0, 0, time.UTC), "2024-04-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, _ := windowRange(tt.now, "week")
			if from != tt.wantFrom {
				t.Errorf("windowRange week from = %s, want %s", from, tt.wantFrom)
			}
		})
	}
}

func TestWindowRange_MonthEndOfYear(t *testing.T) {
	now := time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC)

	from, to := windowRange(now, "month")
	if from != "2023-12-01" || to != "2024-01-01" {
		t.Errorf("windowRange month = [%s, %s), want [2023-12-01, 2024-01-01)", from, to)
	}
}

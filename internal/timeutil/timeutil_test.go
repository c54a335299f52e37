package timeutil

import (
	"testing"
	"time"
)

func at(hh, mm, ss int) time.Time {
	return time.Date(2026, 3, 2, hh, mm, ss, 0, Shanghai)
}

func TestAuctionRecordTime(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"inside window keeps clock", at(9, 18, 30), "09:18:30"},
		{"window start boundary", at(9, 15, 0), "09:15:00"},
		{"window end boundary", at(9, 25, 0), "09:25:00"},
		{"before window pins to end", at(9, 10, 0), "09:25:00"},
		{"after window pins to end", at(9, 26, 1), "09:25:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuctionRecordTime(tt.now); got != tt.want {
				t.Errorf("AuctionRecordTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInAuctionWindow(t *testing.T) {
	if !InAuctionWindow(at(9, 14, 0)) {
		t.Error("expected 09:14:00 inside window")
	}
	if !InAuctionWindow(at(9, 31, 0)) {
		t.Error("expected 09:31:00 inside window")
	}
	if InAuctionWindow(at(9, 13, 59)) {
		t.Error("expected 09:13:59 outside window")
	}
	if InAuctionWindow(at(9, 31, 1)) {
		t.Error("expected 09:31:01 outside window")
	}
}

func TestLimitUpSyncDate(t *testing.T) {
	if got := LimitUpSyncDate(at(16, 0, 0)); got != "2026-03-02" {
		t.Errorf("after close got %v, want 2026-03-02", got)
	}
	if got := LimitUpSyncDate(at(10, 0, 0)); got != "2026-03-01" {
		t.Errorf("before close got %v, want 2026-03-01", got)
	}
}

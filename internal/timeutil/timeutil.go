// Package timeutil provides market-clock helpers pinned to the Shanghai
// exchange timezone. All dates are "YYYY-MM-DD" and times "HH:MM:SS" so
// lexicographic comparison matches chronological order.
package timeutil

import "time"

// Shanghai is the exchange timezone. Falls back to a fixed +08:00 zone when
// the tzdata database is unavailable in the runtime image.
var Shanghai = loadShanghai()

func loadShanghai() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// Today returns the current exchange-local date.
func Today() string {
	return time.Now().In(Shanghai).Format("2006-01-02")
}

// Yesterday returns the previous calendar date, exchange-local.
func Yesterday() string {
	return time.Now().In(Shanghai).AddDate(0, 0, -1).Format("2006-01-02")
}

// NowClock returns the current exchange-local wall clock.
func NowClock() string {
	return time.Now().In(Shanghai).Format("15:04:05")
}

// AuctionRecordTime maps a wall clock to the tick time stored with auction
// rows. Inside the call-auction phase the actual clock is kept; outside it
// the observation is pinned to the phase end so late fetches land on the
// final tick instead of creating phantom ones.
func AuctionRecordTime(now time.Time) string {
	clock := now.In(Shanghai).Format("15:04:05")
	if clock >= "09:15:00" && clock <= "09:25:00" {
		return clock
	}
	return "09:25:00"
}

// InAuctionWindow reports whether the clock is inside the scheduling window
// for auction fetches, padded one minute on each side of the auction phase.
func InAuctionWindow(now time.Time) bool {
	clock := now.In(Shanghai).Format("15:04:05")
	return clock >= "09:14:00" && clock <= "09:31:00"
}

// LimitUpSyncDate returns the trade date the end-of-day limit-up sync should
// store under. Before the post-close publication time the feed still carries
// the previous session, so the sync targets yesterday.
func LimitUpSyncDate(now time.Time) string {
	local := now.In(Shanghai)
	if local.Format("15:04:05") >= "15:30:00" {
		return local.Format("2006-01-02")
	}
	return local.AddDate(0, 0, -1).Format("2006-01-02")
}

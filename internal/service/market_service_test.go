package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/cache"
	"github.com/zhixing/auctionradar/internal/calendar"
	"github.com/zhixing/auctionradar/internal/model"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeAuctionRepo struct {
	topN   []*model.AuctionTick
	latest map[string][]*model.AuctionTick
	window []*model.AuctionTick
}

func (f *fakeAuctionRepo) ReplaceBatch(ticks []*model.AuctionTick) error { return nil }

func (f *fakeAuctionRepo) TopNInWindow(date, startTime, endTime string, limit int) ([]*model.AuctionTick, error) {
	if len(f.topN) > limit {
		return f.topN[:limit], nil
	}
	return f.topN, nil
}

func (f *fakeAuctionRepo) LatestInWindow(date, startTime, endTime string, codes []string) ([]*model.AuctionTick, error) {
	return f.latest[startTime], nil
}

func (f *fakeAuctionRepo) TicksInWindow(date, startTime, endTime string) ([]*model.AuctionTick, error) {
	return f.window, nil
}

type fakeLimitUpRepo struct {
	filtered []*model.LimitUpStock
	byCodes  []*model.LimitUpStock
}

func (f *fakeLimitUpRepo) ReplaceForDate(date string, stocks []*model.LimitUpStock) error { return nil }
func (f *fakeLimitUpRepo) FindFiltered(date string) ([]*model.LimitUpStock, error) {
	return f.filtered, nil
}
func (f *fakeLimitUpRepo) FindByCodes(date string, codes []string) ([]*model.LimitUpStock, error) {
	return f.byCodes, nil
}
func (f *fakeLimitUpRepo) UpdateBoards(date, code string, boards int) (int64, error) { return 1, nil }

type fakeIndexRepo struct {
	latest []*model.IndexSnapshot
}

func (f *fakeIndexRepo) UpsertBatch(snaps []*model.IndexSnapshot) error { return nil }
func (f *fakeIndexRepo) LatestForDate(date string) ([]*model.IndexSnapshot, error) {
	return f.latest, nil
}

func calendarClient(t *testing.T, days string) *calendar.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(days))
	}))
	t.Cleanup(server.Close)
	return calendar.NewClient(server.URL, cache.New(), testLogger())
}

func TestMeetsLimitUpThreshold(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		stock   string
		percent float64
		want    bool
	}{
		{"main board at threshold", "600000", "浦发银行", 9.8, true},
		{"main board below threshold", "600000", "浦发银行", 9.79, false},
		{"chinext at threshold", "300750", "宁德时代", 19.8, true},
		{"chinext below threshold", "300750", "宁德时代", 19.79, false},
		{"chinext not satisfied by main threshold", "300750", "宁德时代", 9.9, false},
		{"star market", "688981", "中芯国际", 19.8, true},
		{"beijing exchange", "430047", "诺思兰德", 29.8, true},
		{"beijing below threshold", "830799", "艾融软件", 19.9, false},
		{"st band", "600000", "ST某某", 4.9, true},
		{"st below band", "600000", "ST某某", 4.89, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeetsLimitUpThreshold(tt.code, tt.stock, tt.percent); got != tt.want {
				t.Errorf("MeetsLimitUpThreshold(%v, %v, %v) = %v, want %v",
					tt.code, tt.stock, tt.percent, got, tt.want)
			}
		})
	}
}

func TestTopNMergesHistoryAndBackfill(t *testing.T) {
	auctions := &fakeAuctionRepo{
		topN: []*model.AuctionTick{
			{Date: "2026-03-03", Time: "09:25:00", Code: "600001", Name: "甲", Sector: "电力", BiddingPercent: 5, AskingAmount: 900},
			{Date: "2026-03-03", Time: "09:25:00", Code: "600002", Name: "乙", Sector: "银行", AskingAmount: 800},
		},
		latest: map[string][]*model.AuctionTick{
			"09:20:00": {{Code: "600001", AskingAmount: 500}},
			"09:15:00": {{Code: "600001", AskingAmount: 200}},
		},
	}
	limitUps := &fakeLimitUpRepo{
		byCodes: []*model.LimitUpStock{
			{Code: "600001", ConsecutiveDays: 3, ConsecutiveBoards: 2, LimitUpType: "华为概念"},
		},
	}

	svc := NewMarketService(auctions, limitUps, &fakeIndexRepo{},
		calendarClient(t, `["2026-03-02","2026-03-03"]`), cache.New(), testLogger())

	entries, err := svc.TopN(context.Background(), 20, "2026-03-03")
	if err != nil {
		t.Fatalf("TopN() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Sector != "华为概念" {
		t.Errorf("Sector = %v, want limit-up label preferred", first.Sector)
	}
	if first.ConsecutiveDays != 3 || first.ConsecutiveBoards != 2 {
		t.Errorf("history = %d/%d", first.ConsecutiveDays, first.ConsecutiveBoards)
	}
	if first.Amount920 != 500 || first.Amount915 != 200 {
		t.Errorf("backfill = %v/%v", first.Amount920, first.Amount915)
	}

	second := entries[1]
	if second.Sector != "银行" || second.ConsecutiveDays != 0 {
		t.Errorf("entry without history = %+v", second)
	}
}

func TestYesterdayLimitUpPerformanceSorting(t *testing.T) {
	limitUps := &fakeLimitUpRepo{
		filtered: []*model.LimitUpStock{
			{Code: "600001", Name: "甲", ConsecutiveDays: 2, FirstLimitUpTime: "09:40:00"},
			{Code: "600002", Name: "乙", ConsecutiveDays: 5, FirstLimitUpTime: "10:00:00"},
			{Code: "600003", Name: "丙", ConsecutiveDays: 5, FirstLimitUpTime: "09:30:00"},
			{Code: "600004", Name: "丁", ConsecutiveDays: 5, FirstLimitUpTime: ""},
		},
	}
	auctions := &fakeAuctionRepo{
		latest: map[string][]*model.AuctionTick{
			"09:25:00": {{Code: "600002", BiddingPercent: 3.2, AskingAmount: 700, BiddingAmount: 600}},
		},
	}

	svc := NewMarketService(auctions, limitUps, &fakeIndexRepo{},
		calendarClient(t, `["2026-03-02","2026-03-03"]`), cache.New(), testLogger())

	entries, err := svc.YesterdayLimitUpPerformance(context.Background(), "2026-03-03")
	if err != nil {
		t.Fatalf("YesterdayLimitUpPerformance() error = %v", err)
	}

	wantOrder := []string{"600003", "600002", "600004", "600001"}
	for i, want := range wantOrder {
		if entries[i].Code != want {
			t.Fatalf("order[%d] = %v, want %v", i, entries[i].Code, want)
		}
	}

	if entries[1].ChangePercent != 3.2 || entries[1].AskingAmount != 700 {
		t.Errorf("auction join missing: %+v", entries[1])
	}
	if entries[0].ChangePercent != 0 {
		t.Errorf("stock without auction tick should zero-fill: %+v", entries[0])
	}
}

func TestYesterdayLimitUpPerformanceNonTradingDate(t *testing.T) {
	limitUps := &fakeLimitUpRepo{
		filtered: []*model.LimitUpStock{{Code: "600001", Name: "甲", ConsecutiveDays: 2}},
	}

	svc := NewMarketService(&fakeAuctionRepo{}, limitUps, &fakeIndexRepo{},
		calendarClient(t, `["2026-02-27","2026-03-02"]`), cache.New(), testLogger())

	// 2026-03-01 is a Sunday with no session to report on.
	entries, err := svc.YesterdayLimitUpPerformance(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatalf("YesterdayLimitUpPerformance() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries for a non-trading date, want none", len(entries))
	}
}

func TestYesterdayLimitUpPerformanceCalendarDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	limitUps := &fakeLimitUpRepo{
		filtered: []*model.LimitUpStock{{Code: "600001", Name: "甲", ConsecutiveDays: 2}},
	}

	svc := NewMarketService(&fakeAuctionRepo{}, limitUps, &fakeIndexRepo{},
		calendar.NewClient(server.URL, cache.New(), testLogger()), cache.New(), testLogger())

	// With no calendar answer the join degrades to the previous calendar day.
	entries, err := svc.YesterdayLimitUpPerformance(context.Background(), "2026-03-03")
	if err != nil {
		t.Fatalf("YesterdayLimitUpPerformance() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Code != "600001" {
		t.Errorf("entries = %+v, want the degraded join to still report", entries)
	}
}

func TestLimitUpAt925Filters(t *testing.T) {
	auctions := &fakeAuctionRepo{
		window: []*model.AuctionTick{
			{Code: "600001", Name: "甲", BiddingPercent: 10.01, AskingAmount: 900},
			{Code: "600002", Name: "乙", BiddingPercent: 5.0, AskingAmount: 800},
			{Code: "300001", Name: "丙", BiddingPercent: 19.9, AskingAmount: 700},
		},
	}

	svc := NewMarketService(auctions, &fakeLimitUpRepo{}, &fakeIndexRepo{},
		calendarClient(t, `[]`), cache.New(), testLogger())

	entries, err := svc.LimitUpAt925("2026-03-03")
	if err != nil {
		t.Fatalf("LimitUpAt925() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Code != "600001" || entries[1].Code != "300001" {
		t.Errorf("entries = %v, %v", entries[0].Code, entries[1].Code)
	}
}

func TestTopNUsesCache(t *testing.T) {
	auctions := &fakeAuctionRepo{
		topN: []*model.AuctionTick{{Code: "600001", Name: "甲", AskingAmount: 100}},
	}
	svc := NewMarketService(auctions, &fakeLimitUpRepo{}, &fakeIndexRepo{},
		calendarClient(t, `[]`), cache.New(), testLogger())

	first, err := svc.TopN(context.Background(), 20, "2026-03-03")
	if err != nil {
		t.Fatalf("TopN() error = %v", err)
	}

	// A repository change must not show through until the entry expires.
	auctions.topN = nil
	second, err := svc.TopN(context.Background(), 20, "2026-03-03")
	if err != nil {
		t.Fatalf("TopN() error = %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("cached result bypassed: %d vs %d", len(second), len(first))
	}
}

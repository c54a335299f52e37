// Package service holds the query and sync layers between the HTTP handlers
// and the repositories.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/cache"
	"github.com/zhixing/auctionradar/internal/calendar"
	"github.com/zhixing/auctionradar/internal/model"
	"github.com/zhixing/auctionradar/internal/repository"
	"github.com/zhixing/auctionradar/internal/timeutil"
)

const (
	auctionWindowStart = "09:25:00"
	auctionWindowEnd   = "09:26:00"
)

// TopNEntry is one row of the main ranking board: the 09:25 standing plus
// the earlier window amounts and yesterday's limit-up history.
type TopNEntry struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Sector            string  `json:"sector"`
	ChangePercent     float64 `json:"change_percent"`
	Amount            float64 `json:"amount"`
	Amount920         float64 `json:"amount_920"`
	Amount915         float64 `json:"amount_915"`
	ConsecutiveDays   int     `json:"consecutive_days"`
	ConsecutiveBoards int     `json:"consecutive_boards"`
	Time              string  `json:"time"`
	Date              string  `json:"date"`
}

// RankingEntry is one row of a free time-window ranking.
type RankingEntry struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Amount        float64 `json:"amount"`
	ChangePercent float64 `json:"change_percent"`
	Time          string  `json:"time"`
}

// PerformanceEntry tracks how one of yesterday's limit-up stocks opened
// today.
type PerformanceEntry struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	ConsecutiveDays   int     `json:"consecutive_days"`
	ConsecutiveBoards int     `json:"consecutive_boards"`
	Sector            string  `json:"sector"`
	FirstLimitUpTime  string  `json:"first_limit_up_time"`
	ChangePercent     float64 `json:"change_percent"`
	AskingAmount      float64 `json:"asking_amount"`
	BiddingAmount     float64 `json:"bidding_amount"`
}

type MarketService struct {
	auctions repository.AuctionRepository
	limitUps repository.LimitUpRepository
	indexes  repository.IndexRepository
	calendar *calendar.Client
	cache    *cache.Cache
	log      *logrus.Logger
}

func NewMarketService(
	auctions repository.AuctionRepository,
	limitUps repository.LimitUpRepository,
	indexes repository.IndexRepository,
	cal *calendar.Client,
	c *cache.Cache,
	log *logrus.Logger,
) *MarketService {
	return &MarketService{
		auctions: auctions,
		limitUps: limitUps,
		indexes:  indexes,
		calendar: cal,
		cache:    c,
		log:      log,
	}
}

// TopN returns the ranking at the latest 09:25 tick, with 09:15 and 09:20
// amounts backfilled and the previous session's limit-up history attached.
func (s *MarketService) TopN(ctx context.Context, limit int, date string) ([]*TopNEntry, error) {
	if date == "" {
		date = timeutil.Today()
	}

	cacheKey := fmt.Sprintf("top_n:%s:%d", date, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*TopNEntry), nil
	}

	top, err := s.auctions.TopNInWindow(date, auctionWindowStart, auctionWindowEnd, limit)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(top))
	for _, tick := range top {
		codes = append(codes, tick.Code)
	}

	amounts920 := s.windowAmounts(date, "09:20:00", "09:21:00", codes)
	amounts915 := s.windowAmounts(date, "09:15:00", "09:16:00", codes)

	history := map[string]*model.LimitUpStock{}
	if prevDate := s.calendar.PreviousTradingDay(ctx, date); prevDate != "" {
		rows, err := s.limitUps.FindByCodes(prevDate, codes)
		if err != nil {
			s.log.WithError(err).Warn("limit-up history lookup failed")
		}
		for _, row := range rows {
			history[row.Code] = row
		}
	}

	entries := make([]*TopNEntry, 0, len(top))
	for _, tick := range top {
		entry := &TopNEntry{
			Code:          tick.Code,
			Name:          tick.Name,
			Sector:        tick.Sector,
			ChangePercent: tick.BiddingPercent,
			Amount:        tick.AskingAmount,
			Amount920:     amounts920[tick.Code],
			Amount915:     amounts915[tick.Code],
			Time:          tick.Time,
			Date:          tick.Date,
		}
		if h, ok := history[tick.Code]; ok {
			entry.ConsecutiveDays = h.ConsecutiveDays
			entry.ConsecutiveBoards = h.ConsecutiveBoards
			if h.LimitUpType != "" {
				entry.Sector = h.LimitUpType
			}
		}
		entries = append(entries, entry)
	}

	s.cache.Set(cacheKey, entries, 5*time.Second)
	return entries, nil
}

func (s *MarketService) windowAmounts(date, startTime, endTime string, codes []string) map[string]float64 {
	ticks, err := s.auctions.LatestInWindow(date, startTime, endTime, codes)
	if err != nil {
		s.log.WithError(err).WithField("window", startTime).Warn("window backfill failed")
		return nil
	}
	amounts := make(map[string]float64, len(ticks))
	for _, tick := range ticks {
		amounts[tick.Code] = tick.AskingAmount
	}
	return amounts
}

// RankingByTimeRange ranks all ticks inside [startTime, endTime) by ask
// amount.
func (s *MarketService) RankingByTimeRange(date, startTime, endTime string, limit int) ([]*RankingEntry, error) {
	if date == "" {
		date = timeutil.Today()
	}

	cacheKey := fmt.Sprintf("ranking:%s:%s:%s:%d", date, startTime, endTime, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*RankingEntry), nil
	}

	ticks, err := s.auctions.TicksInWindow(date, startTime, endTime)
	if err != nil {
		return nil, err
	}
	if len(ticks) > limit {
		ticks = ticks[:limit]
	}

	entries := make([]*RankingEntry, 0, len(ticks))
	for _, tick := range ticks {
		entries = append(entries, &RankingEntry{
			Code:          tick.Code,
			Name:          tick.Name,
			Sector:        tick.Sector,
			Amount:        tick.AskingAmount,
			ChangePercent: tick.BiddingPercent,
			Time:          tick.Time,
		})
	}

	s.cache.Set(cacheKey, entries, 5*time.Second)
	return entries, nil
}

// YesterdayLimitUp returns the tracked multi-day limit-up stocks of a date.
func (s *MarketService) YesterdayLimitUp(date string) ([]*model.LimitUpStock, error) {
	if date == "" {
		date = timeutil.Today()
	}

	cacheKey := "yesterday_limit_up:" + date
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*model.LimitUpStock), nil
	}

	stocks, err := s.limitUps.FindFiltered(date)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, stocks, time.Minute)
	return stocks, nil
}

// YesterdayLimitUpPerformance joins the previous session's limit-up stocks
// with their 09:25 auction standing on the target date.
func (s *MarketService) YesterdayLimitUpPerformance(ctx context.Context, targetDate string) ([]*PerformanceEntry, error) {
	if targetDate == "" {
		targetDate = timeutil.Today()
	}

	cacheKey := "yesterday_limit_up_perf:" + targetDate
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*PerformanceEntry), nil
	}

	// The calendar tells a non-trading target date apart from a dead
	// calendar endpoint: the former has no session to report on, the latter
	// degrades to guessing the previous calendar day.
	days := s.calendar.TradingDays(ctx, "", targetDate)
	var prevDate string
	switch {
	case len(days) == 0:
		parsed, err := time.ParseInLocation("2006-01-02", targetDate, timeutil.Shanghai)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", targetDate, err)
		}
		prevDate = parsed.AddDate(0, 0, -1).Format("2006-01-02")
	case days[len(days)-1] != targetDate, len(days) < 2:
		return nil, nil
	default:
		prevDate = days[len(days)-2]
	}

	stocks, err := s.limitUps.FindFiltered(prevDate)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(stocks))
	for _, stock := range stocks {
		codes = append(codes, stock.Code)
	}

	auction := map[string]*model.AuctionTick{}
	ticks, err := s.auctions.LatestInWindow(targetDate, auctionWindowStart, auctionWindowEnd, codes)
	if err != nil {
		return nil, err
	}
	for _, tick := range ticks {
		auction[tick.Code] = tick
	}

	entries := make([]*PerformanceEntry, 0, len(stocks))
	for _, stock := range stocks {
		entry := &PerformanceEntry{
			Code:              stock.Code,
			Name:              stock.Name,
			ConsecutiveDays:   stock.ConsecutiveDays,
			ConsecutiveBoards: stock.ConsecutiveBoards,
			Sector:            stock.LimitUpType,
			FirstLimitUpTime:  stock.FirstLimitUpTime,
		}
		if tick, ok := auction[stock.Code]; ok {
			entry.ChangePercent = tick.BiddingPercent
			entry.AskingAmount = tick.AskingAmount
			entry.BiddingAmount = tick.BiddingAmount
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ConsecutiveDays != entries[j].ConsecutiveDays {
			return entries[i].ConsecutiveDays > entries[j].ConsecutiveDays
		}
		return sortTime(entries[i].FirstLimitUpTime) < sortTime(entries[j].FirstLimitUpTime)
	})

	s.cache.Set(cacheKey, entries, 10*time.Second)
	return entries, nil
}

func sortTime(t string) string {
	if t == "" {
		return "23:59:59"
	}
	return t
}

// LimitUpAt925 returns the stocks whose 09:25 auction change meets their
// board's limit-up threshold, ordered by ask amount.
func (s *MarketService) LimitUpAt925(date string) ([]*RankingEntry, error) {
	if date == "" {
		date = timeutil.Today()
	}

	cacheKey := "limit_up_925:" + date
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*RankingEntry), nil
	}

	ticks, err := s.auctions.TicksInWindow(date, auctionWindowStart, auctionWindowEnd)
	if err != nil {
		return nil, err
	}

	entries := make([]*RankingEntry, 0)
	for _, tick := range ticks {
		if !MeetsLimitUpThreshold(tick.Code, tick.Name, tick.BiddingPercent) {
			continue
		}
		entries = append(entries, &RankingEntry{
			Code:          tick.Code,
			Name:          tick.Name,
			Sector:        tick.Sector,
			Amount:        tick.AskingAmount,
			ChangePercent: tick.BiddingPercent,
			Time:          tick.Time,
		})
	}

	s.cache.Set(cacheKey, entries, 5*time.Second)
	return entries, nil
}

// MeetsLimitUpThreshold reports whether a change percent reaches the
// limit-up band of the stock's board. ST names move in 5% bands, ChiNext and
// STAR in 20%, the Beijing exchange in 30%, main boards in 10%; thresholds
// sit just under the band to absorb rounding in the feed.
func MeetsLimitUpThreshold(code, name string, percent float64) bool {
	if strings.Contains(name, "ST") {
		return percent >= 4.9
	}
	if strings.HasPrefix(code, "30") || strings.HasPrefix(code, "688") {
		return percent >= 19.8
	}
	if strings.HasPrefix(code, "8") || strings.HasPrefix(code, "43") || strings.HasPrefix(code, "92") {
		return percent >= 29.8
	}
	return percent >= 9.8
}

// TradingDays exposes the calendar to the API layer.
func (s *MarketService) TradingDays(ctx context.Context, start, end string) []string {
	return s.calendar.TradingDays(ctx, start, end)
}

// LatestIndex returns each tracked index at its latest tick of the date.
func (s *MarketService) LatestIndex(date string) ([]*model.IndexSnapshot, error) {
	if date == "" {
		date = timeutil.Today()
	}
	return s.indexes.LatestForDate(date)
}

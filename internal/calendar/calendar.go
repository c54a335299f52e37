// Package calendar resolves exchange trading days from an external calendar
// endpoint. Results are cached for hours and the service degrades to "no
// calendar" when the endpoint is down, so callers must treat an empty list
// as unknown rather than as a non-trading day.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/cache"
	"github.com/zhixing/auctionradar/internal/timeutil"
)

const cacheTTL = 6 * time.Hour

// upstreamMu serializes calls to the calendar endpoint process-wide; the
// upstream throttles concurrent callers.
var upstreamMu sync.Mutex

type Client struct {
	url    string
	client *http.Client
	cache  *cache.Cache
	log    *logrus.Logger
}

func NewClient(url string, c *cache.Cache, log *logrus.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		cache:  c,
		log:    log,
	}
}

// TradingDays returns the sorted trading days in [start, end], both
// "YYYY-MM-DD" and inclusive. Empty bounds default to three years back and
// sixty days ahead. On upstream failure it returns nil.
func (c *Client) TradingDays(ctx context.Context, start, end string) []string {
	now := time.Now().In(timeutil.Shanghai)
	if start == "" {
		start = now.AddDate(-3, 0, 0).Format("2006-01-02")
	}
	if end == "" {
		end = now.AddDate(0, 0, 60).Format("2006-01-02")
	}

	cacheKey := fmt.Sprintf("trading_days:%s:%s", start, end)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]string)
	}

	all, err := c.fetch(ctx)
	if err != nil {
		c.log.WithError(err).Warn("trading calendar unavailable")
		return nil
	}

	var days []string
	for _, day := range all {
		if day >= start && day <= end {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	c.cache.Set(cacheKey, days, cacheTTL)
	return days
}

// PreviousTradingDay returns the last trading day strictly before date, or
// empty when the calendar gives no answer.
func (c *Client) PreviousTradingDay(ctx context.Context, date string) string {
	days := c.TradingDays(ctx, "", date)
	for i := len(days) - 1; i >= 0; i-- {
		if days[i] < date {
			return days[i]
		}
	}
	return ""
}

// CurrentOrPreviousTradingDay returns date when it is a trading day, the
// last trading day before it otherwise, and date itself when the calendar
// gives no answer.
func (c *Client) CurrentOrPreviousTradingDay(ctx context.Context, date string) string {
	days := c.TradingDays(ctx, "", date)
	if len(days) == 0 {
		return date
	}
	for i := len(days) - 1; i >= 0; i-- {
		if days[i] <= date {
			return days[i]
		}
	}
	return date
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	upstreamMu.Lock()
	defer upstreamMu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar endpoint returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var days []string
	if err := json.Unmarshal(payload, &days); err == nil {
		return days, nil
	}

	var envelope struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected calendar payload: %w", err)
	}
	return envelope.Data, nil
}

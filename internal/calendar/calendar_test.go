package calendar

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/cache"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestTradingDaysFiltersRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["2026-02-27","2026-03-02","2026-03-03","2026-03-04"]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.New(), testLogger())
	days := c.TradingDays(context.Background(), "2026-03-01", "2026-03-03")
	want := []string{"2026-03-02", "2026-03-03"}
	if len(days) != len(want) || days[0] != want[0] || days[1] != want[1] {
		t.Errorf("TradingDays() = %v, want %v", days, want)
	}
}

func TestTradingDaysCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`["2026-03-02"]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.New(), testLogger())
	c.TradingDays(context.Background(), "2026-03-01", "2026-03-03")
	c.TradingDays(context.Background(), "2026-03-01", "2026-03-03")
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("upstream calls = %d, want 1", calls)
	}
}

func TestTradingDaysDegradesOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.New(), testLogger())
	if days := c.TradingDays(context.Background(), "2026-03-01", "2026-03-03"); days != nil {
		t.Errorf("TradingDays() = %v, want nil on failure", days)
	}
}

func TestTradingDaysEnvelopePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":["2026-03-02"]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.New(), testLogger())
	days := c.TradingDays(context.Background(), "2026-03-01", "2026-03-03")
	if len(days) != 1 || days[0] != "2026-03-02" {
		t.Errorf("TradingDays() = %v", days)
	}
}

func TestPreviousTradingDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["2026-02-27","2026-03-02","2026-03-03"]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.New(), testLogger())
	if got := c.PreviousTradingDay(context.Background(), "2026-03-03"); got != "2026-03-02" {
		t.Errorf("PreviousTradingDay() = %v, want 2026-03-02", got)
	}
}

func TestCurrentOrPreviousTradingDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["2026-02-27","2026-03-02"]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, cache.New(), testLogger())
	if got := c.CurrentOrPreviousTradingDay(context.Background(), "2026-03-02"); got != "2026-03-02" {
		t.Errorf("trading day should be returned as-is, got %v", got)
	}
	// Weekend date falls back to the last session.
	if got := c.CurrentOrPreviousTradingDay(context.Background(), "2026-03-01"); got != "2026-02-27" {
		t.Errorf("CurrentOrPreviousTradingDay() = %v, want 2026-02-27", got)
	}
}

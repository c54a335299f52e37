package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/service"
)

type MarketHandler struct {
	market *service.MarketService
	log    *logrus.Logger
}

func NewMarketHandler(market *service.MarketService, log *logrus.Logger) *MarketHandler {
	return &MarketHandler{market: market, log: log}
}

func (h *MarketHandler) GetTopN(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	entries, err := h.market.TopN(c.Request.Context(), limit, c.Query("date"))
	if err != nil {
		h.log.WithError(err).Error("top n query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []*service.TopNEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *MarketHandler) GetRanking(c *gin.Context) {
	startTime := c.DefaultQuery("start_time", "09:15:00")
	endTime := c.DefaultQuery("end_time", "09:26:00")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	entries, err := h.market.RankingByTimeRange(c.Query("date"), startTime, endTime, limit)
	if err != nil {
		h.log.WithError(err).Error("ranking query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *MarketHandler) GetLimitUp925(c *gin.Context) {
	entries, err := h.market.LimitUpAt925(c.Query("date"))
	if err != nil {
		h.log.WithError(err).Error("limit up 925 query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetYesterdayLimitUp serves both the plain pool and, with mode=performance,
// the next-morning tracking view.
func (h *MarketHandler) GetYesterdayLimitUp(c *gin.Context) {
	date := c.Query("date")

	if c.Query("mode") == "performance" {
		entries, err := h.market.YesterdayLimitUpPerformance(c.Request.Context(), date)
		if err != nil {
			h.log.WithError(err).Error("limit up performance query failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	stocks, err := h.market.YesterdayLimitUp(date)
	if err != nil {
		h.log.WithError(err).Error("yesterday limit up query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *MarketHandler) GetTradingDays(c *gin.Context) {
	days := h.market.TradingDays(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if days == nil {
		days = []string{}
	}
	c.JSON(http.StatusOK, days)
}

func (h *MarketHandler) GetLatestIndex(c *gin.Context) {
	snaps, err := h.market.LatestIndex(c.Query("date"))
	if err != nil {
		h.log.WithError(err).Error("latest index query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snaps)
}

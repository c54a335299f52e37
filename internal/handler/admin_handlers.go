package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/curlcmd"
	"github.com/zhixing/auctionradar/internal/fetcher"
	"github.com/zhixing/auctionradar/internal/repository"
	"github.com/zhixing/auctionradar/internal/service"
	"github.com/zhixing/auctionradar/internal/source"
)

// AdminHandler manages the captured request configs and the manual sync
// triggers behind the admin UI.
type AdminHandler struct {
	configs  repository.ConfigRepository
	executor *fetcher.Executor
	sync     *service.SyncService
	log      *logrus.Logger
}

func NewAdminHandler(configs repository.ConfigRepository, executor *fetcher.Executor, sync *service.SyncService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{configs: configs, executor: executor, sync: sync, log: log}
}

type curlRequest struct {
	Curl string `json:"curl" binding:"required"`
}

// GetConfig returns the stored capture for a source, or an empty object when
// nothing is captured yet.
func (h *AdminHandler) GetConfig(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, err := h.configs.Get(name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{})
				return
			}
			h.log.WithError(err).WithField("source", name).Error("config lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, desc)
	}
}

// UpdateConfig parses a pasted command and stores it under the source name.
// A fresh quote capture also rebuilds the stock universe from its secids.
func (h *AdminHandler) UpdateConfig(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req curlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing curl command"})
			return
		}

		desc, err := curlcmd.Parse(req.Curl, h.log)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.configs.Upsert(name, desc); err != nil {
			h.log.WithError(err).WithField("source", name).Error("config store failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if name == source.NameEastmoneyAuction {
			if count, err := h.sync.RefreshStockListFromDescriptor(desc); err != nil {
				h.log.WithError(err).Warn("stock list refresh from capture failed")
			} else if count > 0 {
				h.log.WithField("count", count).Info("stock list refreshed from capture")
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "配置更新成功"})
	}
}

// TestFetch replays the stored capture once and returns the raw payload.
func (h *AdminHandler) TestFetch(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := h.executor.Execute(c.Request.Context(), name, nil)
		if err != nil {
			if errors.Is(err, fetcher.ErrNotConfigured) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": payload})
	}
}

// SyncLimitUp runs the limit-up pool sync, optionally for an explicit date.
func (h *AdminHandler) SyncLimitUp(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	_ = c.ShouldBindJSON(&req)

	count, err := h.sync.SyncLimitUp(c.Request.Context(), req.Date)
	if err != nil {
		if errors.Is(err, fetcher.ErrNotConfigured) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.WithError(err).Error("limit-up sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "同步成功", "count": count})
}

// TriggerAuctionFetch runs one auction snapshot fetch outside the scheduler.
func (h *AdminHandler) TriggerAuctionFetch(c *gin.Context) {
	count, err := h.sync.SyncAuction(c.Request.Context(), "")
	if err != nil {
		h.log.WithError(err).Error("manual auction fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "triggered", "count": count})
}

// InitData seeds the day's data outside the scheduler.
func (h *AdminHandler) InitData(c *gin.Context) {
	if _, err := h.sync.SyncLimitUp(c.Request.Context(), ""); err != nil {
		h.log.WithError(err).Warn("init: limit-up sync failed")
	}
	if _, err := h.sync.SyncIndex(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("init: index sync failed")
	}
	c.JSON(http.StatusOK, gin.H{"status": "initialized"})
}

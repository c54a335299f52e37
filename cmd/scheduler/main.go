package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/zhixing/auctionradar/config"
	"github.com/zhixing/auctionradar/internal/fetcher"
	"github.com/zhixing/auctionradar/internal/repository"
	"github.com/zhixing/auctionradar/internal/service"
	"github.com/zhixing/auctionradar/internal/timeutil"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger()

	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	configRepo := repository.NewGormConfigRepository(db, logger)
	auctionRepo := repository.NewGormAuctionRepository(db)
	limitUpRepo := repository.NewGormLimitUpRepository(db)
	indexRepo := repository.NewGormIndexRepository(db)
	stockRepo := repository.NewGormStockRepository(db)

	executor := fetcher.NewExecutor(configRepo, cfg.FetchRatePerSecond, cfg.FetchTimeout, cfg.BulkFetchTimeout, logger)
	syncService := service.NewSyncService(executor, auctionRepo, limitUpRepo, indexRepo, stockRepo, logger)

	c := cron.New(cron.WithSeconds(), cron.WithLocation(timeutil.Shanghai))

	// Auction and index snapshots every 10 seconds across the auction phase.
	// The cron window is wider than the phase, so the job re-checks the clock.
	c.AddFunc("*/10 * 9 * * MON-FRI", func() {
		if !timeutil.InAuctionWindow(time.Now()) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BulkFetchTimeout)
		defer cancel()

		if _, err := syncService.SyncAuction(ctx, ""); err != nil {
			logger.WithError(err).Error("scheduled auction sync failed")
		}
		if _, err := syncService.SyncIndex(ctx); err != nil {
			logger.WithError(err).Error("scheduled index sync failed")
		}
	})

	// End-of-day limit-up pool.
	c.AddFunc("0 0 17 * * MON-FRI", func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BulkFetchTimeout)
		defer cancel()

		if _, err := syncService.SyncLimitUp(ctx, ""); err != nil {
			logger.WithError(err).Error("scheduled limit-up sync failed")
		}
	})

	// Pre-open refresh of the previous session's pool in case the evening
	// run missed late feed corrections.
	c.AddFunc("0 0 9 * * MON-FRI", func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BulkFetchTimeout)
		defer cancel()

		if _, err := syncService.SyncLimitUp(ctx, ""); err != nil {
			logger.WithError(err).Error("pre-open limit-up refresh failed")
		}
	})

	c.Start()
	logger.Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler stopping")
	<-c.Stop().Done()
}

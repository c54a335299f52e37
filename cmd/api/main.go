package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/zhixing/auctionradar/config"
	"github.com/zhixing/auctionradar/internal/cache"
	"github.com/zhixing/auctionradar/internal/calendar"
	"github.com/zhixing/auctionradar/internal/fetcher"
	"github.com/zhixing/auctionradar/internal/handler"
	"github.com/zhixing/auctionradar/internal/repository"
	"github.com/zhixing/auctionradar/internal/router"
	"github.com/zhixing/auctionradar/internal/service"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger()

	gin.SetMode(cfg.GinMode)

	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	if *migrateFlag {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get sql.DB: %v", err)
		}
		if err := goose.SetDialect("mysql"); err != nil {
			log.Fatalf("Goose: failed to set dialect: %v", err)
		}
		log.Println("Running database migrations...")
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			log.Fatalf("Goose migration failed: %v", err)
		}
	}

	appCache := cache.New()
	cal := calendar.NewClient(cfg.CalendarURL, appCache, logger)

	configRepo := repository.NewGormConfigRepository(db, logger)
	auctionRepo := repository.NewGormAuctionRepository(db)
	limitUpRepo := repository.NewGormLimitUpRepository(db)
	indexRepo := repository.NewGormIndexRepository(db)
	stockRepo := repository.NewGormStockRepository(db)

	executor := fetcher.NewExecutor(configRepo, cfg.FetchRatePerSecond, cfg.FetchTimeout, cfg.BulkFetchTimeout, logger)

	marketService := service.NewMarketService(auctionRepo, limitUpRepo, indexRepo, cal, appCache, logger)
	syncService := service.NewSyncService(executor, auctionRepo, limitUpRepo, indexRepo, stockRepo, logger)

	routerConfig := &router.Config{
		MarketHandler: handler.NewMarketHandler(marketService, logger),
		AdminHandler:  handler.NewAdminHandler(configRepo, executor, syncService, logger),
		UploadHandler: handler.NewUploadHandler(syncService, logger),
	}

	r := router.NewRouter(routerConfig)

	r.Run(fmt.Sprintf(":%s", cfg.ServerPort))
}

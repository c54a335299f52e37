package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zhixing/auctionradar/internal/handler"
)

type Config struct {
	MarketHandler *handler.MarketHandler
	AdminHandler  *handler.AdminHandler
	UploadHandler *handler.UploadHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	api := router.Group("/api")
	registerMarketRoutes(api, cfg.MarketHandler)
	registerAdminRoutes(api, cfg.AdminHandler, cfg.UploadHandler)

	return router
}

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/zhixing/auctionradar/internal/handler"
)

func registerMarketRoutes(router *gin.RouterGroup, marketHandler *handler.MarketHandler) {
	auction := router.Group("/call_auction")
	{
		auction.GET("/top_n", marketHandler.GetTopN)
		auction.GET("/ranking", marketHandler.GetRanking)
		auction.GET("/limit_up_925", marketHandler.GetLimitUp925)
	}

	router.GET("/yesterday_limit_up", marketHandler.GetYesterdayLimitUp)
	router.GET("/market/trading_days", marketHandler.GetTradingDays)
	router.GET("/index/latest", marketHandler.GetLatestIndex)
}

package router

import (
	"github.com/gin-gonic/gin"

	"github.com/zhixing/auctionradar/internal/handler"
	"github.com/zhixing/auctionradar/internal/source"
)

func registerAdminRoutes(router *gin.RouterGroup, adminHandler *handler.AdminHandler, uploadHandler *handler.UploadHandler) {
	admin := router.Group("/admin")
	{
		configs := map[string]string{
			"/eastmoney":       source.NameEastmoneyAuction,
			"/jiuyan":          source.NameJiuyanLimitUp,
			"/kaipanla":        source.NameKaipanlaAuction,
			"/kaipanla/volume": source.NameKaipanlaVolume,
			"/kaipanla/index":  source.NameKaipanlaIndex,
		}
		for path, name := range configs {
			admin.GET(path+"/config", adminHandler.GetConfig(name))
			admin.POST(path+"/config", adminHandler.UpdateConfig(name))
			admin.POST(path+"/test", adminHandler.TestFetch(name))
		}

		admin.POST("/jiuyan/sync", adminHandler.SyncLimitUp)
	}

	router.POST("/upload/yesterday_limit_up", uploadHandler.ImportLimitUp)

	test := router.Group("/test")
	{
		test.POST("/fetch_call_auction", adminHandler.TriggerAuctionFetch)
		test.POST("/init_data", adminHandler.InitData)
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/service"
)

type UploadHandler struct {
	sync *service.SyncService
	log  *logrus.Logger
}

func NewUploadHandler(sync *service.SyncService, log *logrus.Logger) *UploadHandler {
	return &UploadHandler{sync: sync, log: log}
}

// ImportLimitUp accepts an xlsx upload that corrects consecutive-board
// counts for the given date.
func (h *UploadHandler) ImportLimitUp(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	count, err := h.sync.ImportLimitUpExcel(f, c.PostForm("date"))
	if err != nil {
		h.log.WithError(err).Error("spreadsheet import failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "导入成功", "count": count})
}

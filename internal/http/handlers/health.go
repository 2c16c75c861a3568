package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/http/response"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "ok"
	if hh.db != nil {
		sqlDB, err := hh.db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
		}
	}
	response.RespondOK(c, gin.H{"status": "ok", "db": dbStatus})
}

package controller

import (
	"net/http"

	"vokabel_trainer_backend/internal/util"
	"vokabel_trainer_backend/internal/vocab"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Table *vocab.Table
}

func NewHealthController(db *gorm.DB, table *vocab.Table) *HealthController {
	return &HealthController{DB: db, Table: table}
}

// @Summary 健康检查
// @Description 检查服务状态和词汇数据加载情况
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.Ping(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database":   "up",
			"vocabulary": len(c.Table.Words()),
		},
	})
}

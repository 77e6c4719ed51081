package app

import (
	"vokabel_trainer_backend/docs"
	"vokabel_trainer_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 引导设置
		api.POST("/setup", c.setup.Setup)
		api.GET("/setup", c.setup.GetSetup)
		api.DELETE("/setup", c.setup.ResetSetup)

		// 词汇浏览
		api.GET("/themes", c.vocab.ListThemes)
		api.GET("/vocabulary", c.vocab.ListVocabulary)

		// 学习进度
		api.GET("/progress", c.progress.GetProgress)
		api.POST("/progress/theme", c.progress.SelectTheme)
		api.POST("/progress/mode", c.progress.SwitchMode)
		api.POST("/progress/advance", c.progress.Advance)
		api.POST("/progress/skip-test2", c.progress.SkipTest2)

		// 测试会话
		api.POST("/tests", c.test.StartTest)
		api.GET("/tests/:id", c.test.GetTest)
		api.POST("/tests/:id/answers", c.test.SubmitAnswer)
	}
}

package router

import (
	"github.com/explorewithme/internal/stats/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestIDHeader 透传或生成的请求标识头。
const RequestIDHeader = "X-Request-ID"

// SetupRouter 配置统计服务的 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB) *gin.Engine {
	r := gin.Default()
	r.Use(requestID())

	api := handler.NewAPI(gdb)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/hit", api.RecordHit)
	r.GET("/stats", api.GetStats)

	return r
}

// requestID 为每个请求补齐标识，便于跨服务排查。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

package router

import (
	"github.com/explorewithme/internal/handler"
	"github.com/explorewithme/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestIDHeader 透传或生成的请求标识头。
const RequestIDHeader = "X-Request-ID"

// SetupRouter 配置主服务的 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, stats service.StatsProvider) *gin.Engine {
	r := gin.Default()
	r.Use(requestID())

	api := handler.NewAPI(gdb, stats)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 公开路由
	events := r.Group("/events")
	{
		events.GET("", api.FindEventsPublic)
		events.GET("/:eventId", api.FindEventByIDPublic)
		events.GET("/:eventId/comments", api.FindEventComments)
	}

	r.GET("/categories", api.FindCategories)
	r.GET("/categories/:categoryId", api.FindCategoryByID)
	r.GET("/comments/:commentId", api.FindCommentByID)

	// 私有路由：用户对自己评论的操作
	users := r.Group("/users/:userId")
	{
		users.POST("/comments/:eventId", api.CreateComment)
		users.PATCH("/comments/:eventId/:commentId", api.UpdateComment)
		users.DELETE("/comments/:eventId/:commentId", api.DeleteComment)
	}

	// 管理端路由
	admin := r.Group("/admin")
	{
		admin.GET("/events", api.FindEventsAdmin)
		admin.GET("/comments", api.FindCommentsAdmin)
		admin.DELETE("/comments/:commentId", api.DeleteCommentAdmin)
	}

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

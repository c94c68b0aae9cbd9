package handler

import (
	"context"
	"log"
	"time"

	"github.com/explorewithme/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	events     *service.EventService
	categories *service.CategoryService
	comments   *service.CommentService
	stats      service.StatsProvider
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, stats service.StatsProvider) *API {
	return &API{
		db:         gdb,
		events:     service.NewEventService(gdb, stats),
		categories: service.NewCategoryService(gdb),
		comments:   service.NewCommentService(gdb),
		stats:      stats,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// recordHit 尽力而为地上报当前请求的浏览记录。
// 上报失败只写日志，浏览请求本身照常返回。
func (a *API) recordHit(c *gin.Context) {
	if a.stats == nil {
		return
	}

	uri := c.Request.URL.Path
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := a.stats.Hit(ctx, uri, c.ClientIP(), time.Now()); err != nil {
		log.Printf("hit recording failed request_id=%s uri=%s: %v", c.GetString("request_id"), uri, err)
	}
}

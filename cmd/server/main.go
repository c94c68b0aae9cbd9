package main

import (
	"log"

	"github.com/explorewithme/internal/config"
	"github.com/explorewithme/internal/db"
	"github.com/explorewithme/internal/router"
	"github.com/explorewithme/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	stats := service.NewStatsClient(cfg.StatsServerURL, cfg.AppName)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, stats)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

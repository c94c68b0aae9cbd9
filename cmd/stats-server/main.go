package main

import (
	"log"

	"github.com/explorewithme/internal/config"
	"github.com/explorewithme/internal/stats/db"
	"github.com/explorewithme/internal/stats/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化统计库
	if err := db.Init(cfg.StatsDatabasePath); err != nil {
		log.Fatalf("failed to initialize stats database: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB)
	if err := r.Run(cfg.StatsListenAddr); err != nil {
		log.Fatalf("failed to run stats server: %v", err)
	}
}

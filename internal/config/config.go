package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总两个服务运行所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	StatsListenAddr   string
	StatsPort         string
	StatsDatabasePath string
	StatsServerURL    string
	AppName           string
	GinMode           string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 若工作目录存在 .env 文件会先行加载，缺失时静默忽略。
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	statsPort := strings.TrimSpace(os.Getenv("STATS_PORT"))
	if statsPort == "" {
		statsPort = "9090"
	}

	statsListenAddr := strings.TrimSpace(os.Getenv("STATS_LISTEN_ADDR"))
	if statsListenAddr == "" {
		statsListenAddr = fmt.Sprintf(":%s", statsPort)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "explorewithme.db"
	}

	statsDatabasePath := strings.TrimSpace(os.Getenv("STATS_DATABASE_PATH"))
	if statsDatabasePath == "" {
		statsDatabasePath = "stats.db"
	}

	statsServerURL := strings.TrimSpace(os.Getenv("STATS_SERVER_URL"))
	if statsServerURL == "" {
		statsServerURL = fmt.Sprintf("http://localhost:%s", statsPort)
	}

	appName := strings.TrimSpace(os.Getenv("APP_NAME"))
	if appName == "" {
		appName = "ewm-main-service"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		StatsListenAddr:   statsListenAddr,
		StatsPort:         statsPort,
		StatsDatabasePath: statsDatabasePath,
		StatsServerURL:    statsServerURL,
		AppName:           appName,
		GinMode:           ginMode,
	}
}

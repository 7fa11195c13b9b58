// marks-portal/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"marks-portal/config"
	"marks-portal/internal/routes"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config.LoadEnv()
	config.ConnectDB()
	config.ConnectRedis()

	if config.Getenv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r)

	addr := ":" + config.Getenv("PORT", "8080")
	slog.Info("Запуск сервера", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("Сервер завершился с ошибкой", "error", err)
		os.Exit(1)
	}
}

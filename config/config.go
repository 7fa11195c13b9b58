// marks-portal/config/config.go
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv подгружает переменные окружения из .env файла, если он есть.
// В продакшене файла нет и переменные приходят из окружения контейнера.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("Файл .env не найден, используем переменные окружения")
	}
}

// Getenv возвращает значение переменной окружения или значение по умолчанию.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

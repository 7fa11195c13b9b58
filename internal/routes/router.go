// marks-portal/internal/routes/router.go
package routes

import (
	"marks-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	r.Use(middleware.RequestLogger())

	// --- Публичные маршруты ---
	// Страница входа, обработчики форм входа/регистрации и выход.
	RegisterAuthRoutes(r)

	// --- Защищенная группа маршрутов ---
	// Все маршруты в этой группе требуют валидного токена сессии.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}

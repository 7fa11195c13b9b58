// marks-portal/internal/routes/auth_routes.go
package routes

import (
	"marks-portal/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes регистрирует публичные маршруты для аутентификации.
// Эти маршруты не требуют middleware для проверки токена.
func RegisterAuthRoutes(r *gin.Engine) {
	// Главная страница для неавторизованных пользователей.
	r.GET("/", handlers.ShowLoginPage)

	// Обработка данных с формы входа.
	r.POST("/login", handlers.LoginHandler)

	// Выход пользователя из системы. Отзыв токена идемпотентен,
	// поэтому маршрут остается публичным, как и в оригинале.
	r.GET("/logout", handlers.LogoutHandler)
	r.POST("/logout", handlers.LogoutHandler)

	// Регистрация нового учителя.
	r.POST("/register", handlers.RegisterHandler)
}

// marks-portal/internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marks-portal/config"
	"marks-portal/internal/session"
	"marks-portal/models"
)

// SessionCookieName — имя cookie с непрозрачным токеном сессии.
const SessionCookieName = "session_token"

// teacherKey — ключ контекста, под которым лежит аутентифицированный учитель.
const teacherKey = "teacher"

// AuthMiddleware - middleware аутентификации: резолвит токен сессии в
// учителя и кладет его в контекст запроса. Ошибка одна и та же для
// отсутствующего, испорченного и истекшего токена.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookieName)
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c)
				return
			}
			tokenStr = parts[1]
		}

		teacher, err := session.Validate(config.DB, tokenStr)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
			c.Abort()
			return
		}
		if teacher == nil {
			c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			handleAuthError(c)
			return
		}

		c.Set(teacherKey, teacher)
		c.Next()
	}
}

// CurrentTeacher достает учителя из контекста запроса. Паника здесь
// означает, что обработчик зарегистрирован мимо AuthMiddleware.
func CurrentTeacher(c *gin.Context) *models.Teacher {
	return c.MustGet(teacherKey).(*models.Teacher)
}

// handleAuthError различает браузерные и программные клиенты: первым
// редирект на страницу входа, вторым структурированный 401.
func handleAuthError(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/")
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	c.Abort()
}

// marks-portal/internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marks-portal/config"
	"marks-portal/internal/middleware"
	"marks-portal/internal/session"
	"marks-portal/internal/validation"
	"marks-portal/models"
)

// Время жизни cookie сессии в секундах (8 часов).
const sessionCookieMaxAge = 8 * 60 * 60

// LoginInput - данные формы входа.
type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ShowLoginPage отвечает на запрос страницы входа. Рендеринг HTML живет
// на стороне фронтенда, бэкенд отдает только JSON.
func ShowLoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Teacher portal. POST /login with username and password.",
	})
}

// LoginHandler проверяет учетные данные, выпускает токен сессии
// (старые токены учителя при этом удаляются) и ставит cookie.
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
		return
	}

	username, err := validation.Username(input.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "form_errors": gin.H{"username": err.Error()}})
		return
	}
	if err := validation.Password(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "form_errors": gin.H{"password": err.Error()}})
		return
	}

	// Неизвестный логин и неверный пароль неразличимы для клиента.
	var teacher models.Teacher
	if err := config.DB.Where("username = ?", username).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
			return
		}
		slog.Error("Ошибка поиска учителя при входе", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}
	if !teacher.CheckPassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}

	token, err := session.Create(config.DB, &teacher, c.ClientIP())
	if err != nil {
		slog.Error("Не удалось создать сессию", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token.Token, sessionCookieMaxAge, "/", "", c.Request.TLS != nil, true)

	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
}

// LogoutHandler отзывает токен (идемпотентно) и очищает cookie.
func LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		if err := session.Revoke(config.DB, token, c.ClientIP()); err != nil {
			slog.Error("Ошибка отзыва сессии", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)

	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// RegisterHandler создает нового учителя.
func RegisterHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
		return
	}

	username, err := validation.Username(input.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "form_errors": gin.H{"username": err.Error()}})
		return
	}
	if err := validation.Password(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "form_errors": gin.H{"password": err.Error()}})
		return
	}

	teacher := models.Teacher{Username: username}
	if err := teacher.SetPassword(input.Password); err != nil {
		slog.Error("Не удалось захешировать пароль", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	if err := config.DB.Create(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Username already taken"})
			return
		}
		slog.Error("Ошибка создания учителя", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Teacher registered successfully", "teacher_id": teacher.ID})
}

// wantsHTML различает браузерные запросы по заголовку Accept.
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// marks-portal/internal/session/session.go
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"marks-portal/config"
	"marks-portal/internal/audit"
	"marks-portal/models"
)

// TokenTTL — время жизни сессии.
const TokenTTL = 8 * time.Hour

// teacherCacheTTL — как долго держим данные учителя в Redis.
// Сам токен всегда проверяется по БД, кэш содержит только данные учителя,
// поэтому отзыв сессии срабатывает немедленно.
const teacherCacheTTL = 10 * time.Minute

// cachedTeacherData - структура для данных учителя в кэше.
type cachedTeacherData struct {
	TeacherID uint   `json:"teacher_id"`
	Username  string `json:"username"`
}

// Create выпускает новый токен (32 случайных байта в hex) и в одной
// транзакции удаляет прежние токены учителя (политика единственной
// активной сессии), сохраняет новую строку и пишет запись LOGIN.
func Create(db *gorm.DB, teacher *models.Teacher, ipAddress string) (*models.SessionToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	token := &models.SessionToken{
		TeacherID: teacher.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(TokenTTL),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_id = ?", teacher.ID).Delete(&models.SessionToken{}).Error; err != nil {
			return err
		}
		if err := tx.Create(token).Error; err != nil {
			return err
		}
		return audit.RecordAuth(tx, teacher.ID, models.ActionLogin, ipAddress)
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Validate резолвит токен в учителя. Возвращает nil, если токен неизвестен
// или истек; просроченные строки при чтении не удаляются (ленивая очистка).
func Validate(db *gorm.DB, token string) (*models.Teacher, error) {
	if token == "" {
		return nil, nil
	}

	var row models.SessionToken
	if err := db.Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !row.IsValid() {
		return nil, nil
	}

	return loadTeacher(db, row.TeacherID)
}

// Revoke удаляет строку токена, если она есть, и в той же транзакции пишет
// запись LOGOUT. Отсутствующий токен — no-op (идемпотентно).
func Revoke(db *gorm.DB, token, ipAddress string) error {
	if token == "" {
		return nil
	}

	var row models.SessionToken
	if err := db.Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := audit.RecordAuth(tx, row.TeacherID, models.ActionLogout, ipAddress); err != nil {
			return err
		}
		return tx.Delete(&models.SessionToken{}, row.ID).Error
	})
}

// loadTeacher достает данные учителя: сначала из кэша Redis, потом из БД.
func loadTeacher(db *gorm.DB, teacherID uint) (*models.Teacher, error) {
	cacheKey := fmt.Sprintf("teacher:%d:data", teacherID)
	if config.RDB != nil {
		cachedData, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var data cachedTeacherData
			if json.Unmarshal([]byte(cachedData), &data) == nil {
				return &models.Teacher{ID: data.TeacherID, Username: data.Username}, nil
			}
			slog.Warn("Не удалось разобрать данные учителя из кэша", "teacher_id", teacherID)
		} else if err != redis.Nil {
			slog.Error("Ошибка команды GET в Redis", "error", err, "teacher_id", teacherID)
		}
	}

	var teacher models.Teacher
	if err := db.First(&teacher, teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Токен ссылается на несуществующего учителя — сессия недействительна.
			return nil, nil
		}
		return nil, err
	}

	if config.RDB != nil {
		jsonData, err := json.Marshal(cachedTeacherData{TeacherID: teacher.ID, Username: teacher.Username})
		if err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, teacherCacheTTL).Err(); err != nil {
				slog.Error("Не удалось записать данные учителя в кэш", "error", err, "teacher_id", teacherID)
			}
		}
	}

	return &teacher, nil
}

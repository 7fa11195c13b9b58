// marks-portal/models/teacher.go
package models

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// Количество итераций PBKDF2 для хеширования пароля.
const pbkdf2Iterations = 120000

// Teacher represents an authenticated account owning student records.
// The password is stored as PBKDF2-SHA256(raw, salt) in hex alongside its
// own random salt; the raw password is never persisted or logged.
type Teacher struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Username     string    `json:"username" gorm:"size:100;unique;not null"`
	PasswordHash string    `json:"-" gorm:"size:64;not null"`
	Salt         string    `json:"-" gorm:"size:32;not null"`
	CreatedAt    time.Time `json:"createdAt"`

	// --- GORM RELATIONSHIPS ---
	Students  []Student      `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
	Sessions  []SessionToken `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
	AuditLogs []AuditLog     `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
}

// SetPassword генерирует свежую соль (16 байт) и пересчитывает хеш пароля.
func (t *Teacher) SetPassword(rawPassword string) error {
	saltBytes := make([]byte, 16)
	if _, err := rand.Read(saltBytes); err != nil {
		return err
	}
	t.Salt = hex.EncodeToString(saltBytes)
	t.PasswordHash = derivePasswordHash(rawPassword, saltBytes)
	return nil
}

// CheckPassword сверяет пароль с сохраненным хешем постоянным по времени сравнением.
func (t *Teacher) CheckPassword(rawPassword string) bool {
	saltBytes, err := hex.DecodeString(t.Salt)
	if err != nil {
		return false
	}
	computed := derivePasswordHash(rawPassword, saltBytes)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(t.PasswordHash)) == 1
}

func derivePasswordHash(rawPassword string, salt []byte) string {
	key := pbkdf2.Key([]byte(rawPassword), salt, pbkdf2Iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(key)
}

// marks-portal/models/session_token.go
package models

import "time"

// SessionToken является единственным действующим токеном учителя:
// новый логин удаляет предыдущие строки этого учителя.
type SessionToken struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	TeacherID uint      `json:"teacherId" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"size:64;unique;not null"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
}

// IsValid reports whether the token has not yet expired. Просроченные
// строки не удаляются при чтении, очистка ленивая.
func (s *SessionToken) IsValid() bool {
	return time.Now().Before(s.ExpiresAt)
}

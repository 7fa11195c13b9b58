// marks-portal/models/student.go
package models

import "time"

// Student represents one (name, subject) mark record owned by a teacher.
// Пара (name, subject) уникальна в пределах одного учителя.
type Student struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_students_identity,priority:2"`
	Subject   string    `json:"subject" gorm:"size:100;not null;uniqueIndex:idx_students_identity,priority:3"`
	Marks     int       `json:"marks" gorm:"not null"`
	TeacherID uint      `json:"-" gorm:"not null;uniqueIndex:idx_students_identity,priority:1"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

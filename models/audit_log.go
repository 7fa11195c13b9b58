// marks-portal/models/audit_log.go
package models

import "time"

// Действия, фиксируемые в журнале аудита.
const (
	ActionLogin         = "LOGIN"
	ActionLogout        = "LOGOUT"
	ActionCreateStudent = "CREATE_STUDENT"
	ActionUpdateMarks   = "UPDATE_MARKS"
	ActionInlineUpdate  = "INLINE_UPDATE"
	ActionDeleteStudent = "DELETE_STUDENT"
)

// AuditPlaceholder подставляется в поля student_name/subject для
// действий входа и выхода, где ученик не участвует.
const AuditPlaceholder = "N/A"

// AuditLog is an append-only record of one state-changing action.
// Строки никогда не изменяются и не удаляются, кроме каскада при
// удалении учителя.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	TeacherID   uint      `json:"-" gorm:"not null;index:idx_audit_teacher_ts,priority:1"`
	Action      string    `json:"action" gorm:"size:50;not null;index"`
	StudentName string    `json:"studentName" gorm:"size:100;not null"`
	Subject     string    `json:"subject" gorm:"size:100;not null"`
	OldMarks    *int      `json:"oldMarks"`
	NewMarks    *int      `json:"newMarks"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime;index:idx_audit_teacher_ts,priority:2,sort:desc"`
	IPAddress   string    `json:"ipAddress" gorm:"size:45;not null"`
}

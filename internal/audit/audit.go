// marks-portal/internal/audit/audit.go
package audit

import (
	"gorm.io/gorm"

	"marks-portal/models"
)

// DefaultLimit — сколько последних записей журнала отдаем по умолчанию.
const DefaultLimit = 100

// Record appends one immutable audit entry. The caller passes its open
// transaction handle so the entry commits or rolls back together with the
// mutation it describes — мутация без записи аудита является багом.
func Record(tx *gorm.DB, teacherID uint, action, studentName, subject string, oldMarks, newMarks *int, ipAddress string) error {
	entry := models.AuditLog{
		TeacherID:   teacherID,
		Action:      action,
		StudentName: studentName,
		Subject:     subject,
		OldMarks:    oldMarks,
		NewMarks:    newMarks,
		IPAddress:   ipAddress,
	}
	return tx.Create(&entry).Error
}

// RecordAuth пишет запись для LOGIN/LOGOUT, где ученик не участвует.
func RecordAuth(tx *gorm.DB, teacherID uint, action, ipAddress string) error {
	return Record(tx, teacherID, action, models.AuditPlaceholder, models.AuditPlaceholder, nil, nil, ipAddress)
}

// List возвращает до limit последних записей журнала учителя, новые первыми.
func List(db *gorm.DB, teacherID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	var logs []models.AuditLog
	err := db.Where("teacher_id = ?", teacherID).
		Order("timestamp desc, id desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = make([]models.AuditLog, 0)
	}
	return logs, nil
}

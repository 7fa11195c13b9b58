// marks-portal/internal/students/repository.go
package students

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marks-portal/internal/audit"
	"marks-portal/internal/marks"
	"marks-portal/models"
)

// ErrNotFound возвращается для несуществующих записей и для чужих записей
// одинаково, чтобы не раскрывать существование учеников других учителей.
var ErrNotFound = errors.New("student not found")

// ErrConflict возвращается, когда гонка обошла проверку уникальности
// (teacher, name, subject) — при блокировке строк это редкость.
var ErrConflict = errors.New("student already exists")

// UpsertResult описывает исход операции добавления/слияния.
type UpsertResult struct {
	Student  *models.Student
	Created  bool
	OldMarks int // заполнено только при слиянии
}

// List возвращает учеников учителя, отсортированных по (name, subject).
func List(db *gorm.DB, teacherID uint) ([]models.Student, error) {
	var list []models.Student
	err := db.Where("teacher_id = ?", teacherID).
		Order("name asc, subject asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = make([]models.Student, 0)
	}
	return list, nil
}

// Get возвращает ученика по id с проверкой владельца.
func Get(db *gorm.DB, teacherID, id uint) (*models.Student, error) {
	var student models.Student
	err := db.Where("id = ? AND teacher_id = ?", id, teacherID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// UpsertByIdentity реализует правило слияния оценок: если у учителя уже
// есть запись (name, subject), присланные оценки прибавляются к текущим
// с потолком 100; иначе создается новая запись. Мутация и ее запись
// аудита фиксируются в одной транзакции, существующая строка читается
// под блокировкой, чтобы два одновременных слияния не потеряли обновление.
func UpsertByIdentity(db *gorm.DB, teacher *models.Teacher, name, subject string, incoming int, ipAddress string) (*UpsertResult, error) {
	result := &UpsertResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Student
		err := lockForUpdate(tx).
			Where("teacher_id = ? AND name = ? AND subject = ?", teacher.ID, name, subject).
			First(&existing).Error

		switch {
		case err == nil:
			total, mergeErr := marks.Merge(existing.Marks, incoming)
			if mergeErr != nil {
				return mergeErr // rollback, строка остается нетронутой
			}
			oldMarks := existing.Marks
			existing.Marks = total
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			if err := audit.Record(tx, teacher.ID, models.ActionUpdateMarks, name, subject, &oldMarks, &total, ipAddress); err != nil {
				return err
			}
			result.Student = &existing
			result.OldMarks = oldMarks
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			student := models.Student{
				Name:      name,
				Subject:   subject,
				Marks:     incoming,
				TeacherID: teacher.ID,
			}
			if err := tx.Create(&student).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict
				}
				return err
			}
			if err := audit.Record(tx, teacher.ID, models.ActionCreateStudent, name, subject, nil, &incoming, ipAddress); err != nil {
				return err
			}
			result.Student = &student
			result.Created = true
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetMarks — "inline update": прямая перезапись оценки без слияния,
// с проверкой владельца. Семантика намеренно отличается от UpsertByIdentity.
func SetMarks(db *gorm.DB, teacher *models.Teacher, id uint, newMarks int, ipAddress string) (*models.Student, error) {
	var student models.Student

	err := db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("id = ? AND teacher_id = ?", id, teacher.ID).
			First(&student).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		oldMarks := student.Marks
		student.Marks = newMarks
		if err := tx.Save(&student).Error; err != nil {
			return err
		}
		return audit.Record(tx, teacher.ID, models.ActionInlineUpdate, student.Name, student.Subject, &oldMarks, &newMarks, ipAddress)
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete удаляет ученика с проверкой владельца и пишет запись аудита
// с оценкой на момент удаления.
func Delete(db *gorm.DB, teacher *models.Teacher, id uint, ipAddress string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		err := lockForUpdate(tx).
			Where("id = ? AND teacher_id = ?", id, teacher.ID).
			First(&student).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		oldMarks := student.Marks
		if err := audit.Record(tx, teacher.ID, models.ActionDeleteStudent, student.Name, student.Subject, &oldMarks, nil, ipAddress); err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
}

// lockForUpdate навешивает SELECT ... FOR UPDATE там, где диалект его
// поддерживает. У sqlite (тестовая БД) один писатель, блокировка строк
// не нужна и синтаксис не поддерживается.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

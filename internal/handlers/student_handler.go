// marks-portal/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marks-portal/config"
	"marks-portal/internal/marks"
	"marks-portal/internal/middleware"
	"marks-portal/internal/students"
	"marks-portal/internal/validation"
)

// --- Структуры для входящих данных по УЧЕНИКАМ ---

// AddStudentInput - данные формы добавления/слияния.
// Marks через указатель, чтобы ноль не считался отсутствующим значением.
type AddStudentInput struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Subject string `json:"subject" form:"subject" binding:"required"`
	Marks   *int   `json:"marks" form:"marks" binding:"required"`
}

// UpdateMarksInput - данные инлайн-обновления оценки.
type UpdateMarksInput struct {
	StudentID uint `json:"student_id" form:"student_id" binding:"required"`
	Marks     *int `json:"marks" form:"marks" binding:"required"`
}

// DeleteStudentInput - данные удаления ученика.
type DeleteStudentInput struct {
	StudentID uint `json:"student_id" form:"student_id" binding:"required"`
}

// HomeHandler отдает данные домашней страницы учителя: имя и список
// учеников в порядке (name, subject).
func HomeHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	list, err := students.List(config.DB, teacher.ID)
	if err != nil {
		slog.Error("Не удалось получить список учеников", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"teacher":  teacher.Username,
		"students": list,
	})
}

// ListStudentsHandler отдает список учеников текущего учителя.
func ListStudentsHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	list, err := students.List(config.DB, teacher.ID)
	if err != nil {
		slog.Error("Не удалось получить список учеников", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "students": list})
}

// AddStudentHandler добавляет ученика либо сливает оценки с существующей
// записью (teacher, name, subject). Повторная отправка той же формы
// сливает оценки еще раз — это ожидаемое поведение, не баг.
func AddStudentHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	var input AddStudentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
		return
	}

	formErrors := gin.H{}
	name, err := validation.Name(input.Name)
	if err != nil {
		formErrors["name"] = err.Error()
	}
	subject, err := validation.Subject(input.Subject)
	if err != nil {
		formErrors["subject"] = err.Error()
	}
	if err := validation.Marks(*input.Marks); err != nil {
		formErrors["marks"] = err.Error()
	}
	if len(formErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "form_errors": formErrors})
		return
	}

	result, err := students.UpsertByIdentity(config.DB, teacher, name, subject, *input.Marks, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, marks.ErrCapExceeded):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data", "form_errors": gin.H{"marks": err.Error()}})
		case errors.Is(err, students.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Student already exists"})
		default:
			slog.Error("Ошибка добавления ученика", "error", err, "teacher_id", teacher.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		}
		return
	}

	if result.Created {
		c.JSON(http.StatusCreated, gin.H{
			"success":    true,
			"message":    fmt.Sprintf("Student %s added successfully", name),
			"student_id": result.Student.ID,
			"new_marks":  result.Student.Marks,
			"student":    result.Student,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("Updated marks for %s. New total: %d", name, result.Student.Marks),
		"student_id": result.Student.ID,
		"new_marks":  result.Student.Marks,
	})
}

// UpdateMarksHandler - инлайн-обновление: прямая перезапись оценки,
// без слияния.
func UpdateMarksHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	var input UpdateMarksInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid data"})
		return
	}
	if err := validation.Marks(*input.Marks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid data", "form_errors": gin.H{"marks": err.Error()}})
		return
	}

	student, err := students.SetMarks(config.DB, teacher, input.StudentID, *input.Marks, c.ClientIP())
	if err != nil {
		if errors.Is(err, students.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Student not found"})
			return
		}
		slog.Error("Ошибка обновления оценки", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update marks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Marks updated successfully", "student": student})
}

// DeleteStudentHandler удаляет ученика текущего учителя.
func DeleteStudentHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	var input DeleteStudentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid data"})
		return
	}

	if err := students.Delete(config.DB, teacher, input.StudentID, c.ClientIP()); err != nil {
		if errors.Is(err, students.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Student not found"})
			return
		}
		slog.Error("Ошибка удаления ученика", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete student"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student deleted successfully"})
}

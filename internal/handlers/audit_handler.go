// marks-portal/internal/handlers/audit_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"marks-portal/config"
	"marks-portal/internal/audit"
	"marks-portal/internal/middleware"
)

// ListAuditLogsHandler отдает до 100 последних записей журнала аудита
// текущего учителя, новые первыми.
func ListAuditLogsHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	logs, err := audit.List(config.DB, teacher.ID, audit.DefaultLimit)
	if err != nil {
		slog.Error("Не удалось получить журнал аудита", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "teacher": teacher.Username, "logs": logs})
}

// ExportAuditLogsHandler выгружает журнал аудита в Excel.
func ExportAuditLogsHandler(c *gin.Context) {
	teacher := middleware.CurrentTeacher(c)

	logs, err := audit.List(config.DB, teacher.ID, audit.DefaultLimit)
	if err != nil {
		slog.Error("Не удалось получить журнал аудита для экспорта", "error", err, "teacher_id", teacher.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server error occurred"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Audit Log"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Action", "Student", "Subject", "Old Marks", "New Marks", "Timestamp", "IP Address"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, entry := range logs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.Action)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.StudentName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.Subject)
		if entry.OldMarks != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), *entry.OldMarks)
		}
		if entry.NewMarks != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), *entry.NewMarks)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), entry.Timestamp.Format("02.01.2006 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), entry.IPAddress)
	}

	fileName := fmt.Sprintf("audit_logs_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

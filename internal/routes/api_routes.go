// marks-portal/internal/routes/api_routes.go
package routes

import (
	"marks-portal/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	// Домашняя страница учителя со списком учеников.
	api.GET("/home", handlers.HomeHandler)

	// Группа для всех API-запросов с префиксом /api
	apiGroup := api.Group("/api")
	{
		// --- УЧЕНИКИ ---
		students := apiGroup.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.POST("/add", handlers.AddStudentHandler)       // создание или слияние оценок
			students.POST("/update", handlers.UpdateMarksHandler)   // инлайн-перезапись оценки
			students.POST("/delete", handlers.DeleteStudentHandler)
		}

		// --- ЖУРНАЛ АУДИТА ---
		auditLogs := apiGroup.Group("/audit-logs")
		{
			auditLogs.GET("", handlers.ListAuditLogsHandler)
			auditLogs.GET("/export", handlers.ExportAuditLogsHandler)
		}
	}
}

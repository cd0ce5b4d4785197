package http

import (
	"github.com/gin-gonic/gin"

	"heunets/internal/adapter/http/handlers"
	"heunets/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, workItemHandler *handlers.WorkItemHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware(), middleware.IdentityMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		workItems := api.Group("/workitems")
		{
			workItems.POST("", workItemHandler.Create)
			workItems.GET("", workItemHandler.List)
			workItems.GET("/stats", workItemHandler.Stats)
			workItems.GET("/stats/my", workItemHandler.MyStats)
			workItems.GET("/my/assigned", workItemHandler.MyAssigned)
			workItems.GET("/my/created", workItemHandler.MyCreated)
			workItems.GET("/overdue", workItemHandler.Overdue)
			workItems.GET("/assignees/list", workItemHandler.Assignees)
			workItems.GET("/users/available", workItemHandler.AvailableUsers)
			workItems.GET("/status/:status", workItemHandler.ByStatus)
			workItems.GET("/:id", workItemHandler.GetByID)
			workItems.PUT("/bulk", workItemHandler.BulkUpdate)
			workItems.PUT("/:id", workItemHandler.Update)
			workItems.DELETE("/:id/permanent", workItemHandler.PermanentlyDelete)
			workItems.DELETE("/:id", workItemHandler.Delete)
			workItems.POST("/:id/restore", workItemHandler.Restore)
		}
	}
}

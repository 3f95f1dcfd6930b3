package api

import (
	"github.com/gin-gonic/gin"

	"github.com/divia/calculadora/pkg/views"
)

// RegisterRoutes mounts the calculator pages and the JSON API on router
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	router.SetHTMLTemplate(views.Templates())

	router.GET("/health", h.HealthCheck)

	router.GET("/", h.ShowPage)
	router.POST("/calculate", h.UpdateFields)
	router.POST("/submit", h.Submit)
	router.POST("/report", h.DownloadReport)
	router.POST("/reset", h.Reset)

	api := router.Group("/api")
	api.POST("/calculate", h.Calculate)
	api.POST("/report", h.GenerateReport)
}

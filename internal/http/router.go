// Package http is the read-only operator surface: sync status, run log and
// history ledger over JSON, plus a manual trigger.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/plantops/yield-rewind/internal/database"
)

// SetupRouter wires the API routes.
func SetupRouter(db *database.Database, trigger Triggerer, version string) *gin.Engine {
	router := gin.Default()

	health := NewHealthController(db, version)
	router.GET("/health", health.Status)

	syncController := NewSyncController(db.DB, trigger)
	api := router.Group("/api/sync")
	{
		api.GET("/status", syncController.Status)
		api.GET("/runs", syncController.Runs)
		api.GET("/history", syncController.History)
		api.POST("/trigger", syncController.Trigger)
	}

	return router
}

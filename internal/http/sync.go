package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/database/syncruns"
	"github.com/plantops/yield-rewind/internal/database/watermarks"
	"github.com/plantops/yield-rewind/internal/database/yield"
)

// Triggerer starts a sync in the background; implemented by the scheduler,
// which also guarantees only one sync runs at a time.
type Triggerer interface {
	RunNow(reason string) error
	IsSyncing() bool
}

// SyncController exposes the persisted audit surfaces: per-dataset
// watermarks, the run log, and the yield history ledger. All reads; the only
// write is the trigger, which goes through the scheduler guard.
type SyncController struct {
	marks     *watermarks.Repository
	runs      *syncruns.Repository
	yieldRepo *yield.Repository
	trigger   Triggerer
}

func NewSyncController(db *gorm.DB, trigger Triggerer) *SyncController {
	return &SyncController{
		marks:     watermarks.NewRepository(db),
		runs:      syncruns.NewRepository(db),
		yieldRepo: yield.NewRepository(db),
		trigger:   trigger,
	}
}

// Status returns every dataset's watermark.
func (s *SyncController) Status(c *gin.Context) {
	marks, err := s.marks.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"syncing":    s.trigger != nil && s.trigger.IsSyncing(),
		"watermarks": marks,
	})
}

// Runs returns the sync log, newest first, optionally filtered by dataset.
func (s *SyncController) Runs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := s.runs.Recent(c.Query("dataset"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// History returns yield ledger entries, optionally filtered by date and
// product.
func (s *SyncController) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := s.yieldRepo.History(c.Query("date"), c.Query("product"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Trigger starts an incremental sync in the background.
func (s *SyncController) Trigger(c *gin.Context) {
	if s.trigger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler is not running"})
		return
	}
	reason := c.DefaultQuery("reason", "manual")
	if err := s.trigger.RunNow(reason); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sync started", "reason": reason})
}

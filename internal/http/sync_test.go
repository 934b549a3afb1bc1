package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/yield-rewind/internal/database"
	"github.com/plantops/yield-rewind/internal/database/syncruns"
	"github.com/plantops/yield-rewind/internal/database/watermarks"
	"github.com/plantops/yield-rewind/internal/entities"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *database.Database, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	router := SetupRouter(db, nil, "test")

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return router, db, cleanup
}

func TestHealth(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestSyncStatus(t *testing.T) {
	router, db, cleanup := setupTestRouter(t)
	defer cleanup()

	date := "2025-03-14"
	err := watermarks.NewRepository(db.DB).Upsert(&entities.Watermark{
		Dataset:        entities.DatasetYield,
		LastSyncedDate: &date,
		RecordsSynced:  42,
		Status:         entities.RunStatusSuccess,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Syncing    bool                 `json:"syncing"`
		Watermarks []entities.Watermark `json:"watermarks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Watermarks, 1)
	assert.Equal(t, entities.DatasetYield, resp.Watermarks[0].Dataset)
	assert.Equal(t, 42, resp.Watermarks[0].RecordsSynced)
	assert.False(t, resp.Syncing)
}

func TestSyncRuns_FilteredByDataset(t *testing.T) {
	router, db, cleanup := setupTestRouter(t)
	defer cleanup()

	runs := syncruns.NewRepository(db.DB)
	_, err := runs.Begin(entities.DatasetYield, entities.SyncModeIncremental, "scheduled", "inv-1", "2025-03-11", "2025-03-14")
	require.NoError(t, err)
	_, err = runs.Begin(entities.DatasetSales, entities.SyncModeIncremental, "scheduled", "inv-1", "2025-03-11", "2025-03-14")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sync/runs?dataset=yield", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Runs []entities.SyncRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, entities.DatasetYield, resp.Runs[0].Dataset)
}

func TestSyncTrigger_WithoutScheduler(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync/trigger", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

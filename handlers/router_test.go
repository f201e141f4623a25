package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/backup"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupRouter(t *testing.T) (*gin.Engine, *storage.MemoryProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	config.SetDB(db)
	require.NoError(t, db.AutoMigrate(
		&models.ContainerTransaction{},
		&models.CashTransaction{},
		&models.StockTransaction{},
		&models.Property{},
		&models.BackupLog{},
		&models.Settings{},
	))
	require.NoError(t, models.EnsureDefaultSettings(context.Background()))

	store := storage.NewMemoryProvider()
	backupHandler := NewBackupHandler(backup.NewExporter(store), backup.NewCoordinator(store))
	return NewRouter(backupHandler), store
}

func doJSON(t *testing.T, r *gin.Engine, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContainerLifecycleOverHTTP(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/containers", gin.H{
		"container_type": "JAR20",
		"warehouse_id":   1,
		"txn_date":       "2026-03-01T00:00:00Z",
		"kind":           "PURCHASE",
		"qty":            "10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Correlation-Id"))

	var created models.ContainerTransaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	w = doJSON(t, r, http.MethodGet, "/api/containers/balance?container_type=JAR20&warehouse_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, "10", balance["balance"])

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/containers/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/containers/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSellFilledInsufficiencyMapsToConflict(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/stock", gin.H{
		"category": "RAW_MATERIAL",
		"txn_date": "2026-03-01T00:00:00Z",
		"kind":     "RECEIPT",
		"qty":      "100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/actions/sell-filled", gin.H{
		"container_type": "JAR20",
		"warehouse_id":   1,
		"qty":            "8",
		"txn_date":       "2026-03-02T00:00:00Z",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "160", resp["required"])
	assert.Equal(t, "100", resp["available"])
}

func TestRestoreRequiresValidPin(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/backups/restore", gin.H{
		"pin":            "9999",
		"remote_file_id": "whatever.xlsx",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBackupTriggerAndList(t *testing.T) {
	r, store := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/backups", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, store.Len())

	w = doJSON(t, r, http.MethodGet, "/api/backups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []models.BackupLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.BackupOperationExport, resp.Data[0].Operation)
}

func TestFactoryResetGuardedByPin(t *testing.T) {
	r, store := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/cash", gin.H{
		"txn_date": "2026-03-01T00:00:00Z",
		"amount":   "100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/factory-reset", gin.H{"pin": "1111"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/factory-reset", gin.H{"pin": "0000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// A safety export ran before the wipe.
	assert.Equal(t, 1, store.Len())

	w = doJSON(t, r, http.MethodGet, "/api/cash", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []models.CashTransaction `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/backup"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
)

// BackupHandler owns the export and restore entry points. Restore and factory
// reset are destructive and sit behind the operator PIN.
type BackupHandler struct {
	Exporter    *backup.Exporter
	Coordinator *backup.Coordinator
}

func NewBackupHandler(exporter *backup.Exporter, coordinator *backup.Coordinator) *BackupHandler {
	return &BackupHandler{Exporter: exporter, Coordinator: coordinator}
}

// TriggerExport runs a manual export synchronously and returns the audit
// entry.
func (h *BackupHandler) TriggerExport(c *gin.Context) {
	entry, err := h.Exporter.Run(c.Request.Context(), models.BackupKindManual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *BackupHandler) ListBackupLogs(c *gin.Context) {
	_, limit := pageQuery(c)
	entries, err := models.ListBackupLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

type restoreRequest struct {
	Pin          string `json:"pin" binding:"required"`
	RemoteFileId string `json:"remote_file_id" binding:"required"`
}

// Restore replaces live data with a stored snapshot. Partial success returns
// 200 with the row errors listed; an abort before the wipe returns the error
// plus the safety backup id so nothing is lost.
func (h *BackupHandler) Restore(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := models.VerifyPin(c.Request.Context(), req.Pin); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Coordinator.Restore(c.Request.Context(), req.RemoteFileId)
	if err != nil {
		status := http.StatusInternalServerError
		var formatErr *backup.SnapshotFormatError
		if errors.As(err, &formatErr) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}

type factoryResetRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// FactoryReset wipes every tracked table. A safety export runs first; the
// request fails outright when that export cannot be produced.
func (h *BackupHandler) FactoryReset(c *gin.Context) {
	var req factoryResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := models.VerifyPin(ctx, req.Pin); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Exporter.Run(ctx, models.BackupKindManual)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := models.FactoryReset(ctx); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"safety_backup_file_id": entry.RemoteFileId})
}

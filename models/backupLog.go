package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
)

// BackupLog is the append-only audit trail: one row per export or restore
// attempt, success or failure. Rows are never edited; a factory reset may
// prune all but the newest entry.
type BackupLog struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	Operation          BackupOperation `gorm:"type:varchar(10);index;not null" json:"operation"`
	Kind               BackupKind      `gorm:"type:varchar(10);not null" json:"kind"`
	RemoteFileId       string          `gorm:"size:255" json:"remote_file_id"`
	SafetyBackupFileId string          `gorm:"size:255" json:"safety_backup_file_id"`
	Counts             string          `gorm:"type:text" json:"counts"`
	Status             BackupStatus    `gorm:"type:varchar(10);index;not null" json:"status"`
	ErrorMessage       string          `gorm:"type:text" json:"error_message"`
	CreatedAt          time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

type NewBackupLog struct {
	Operation          BackupOperation
	Kind               BackupKind
	RemoteFileId       string
	SafetyBackupFileId string
	Counts             map[EntityKind]int
	WipedCounts        map[EntityKind]int
	Status             BackupStatus
	ErrorMessage       string
}

// RestoreCounts is the Counts payload shape for RESTORE rows: pre-wipe row
// counts alongside the reinserted ones, per entity kind.
type RestoreCounts struct {
	Wiped    map[EntityKind]int `json:"wiped"`
	Restored map[EntityKind]int `json:"restored"`
}

func CreateBackupLog(ctx context.Context, input *NewBackupLog) (*BackupLog, error) {
	counts := ""
	switch {
	case input.WipedCounts != nil:
		payload := RestoreCounts{Wiped: input.WipedCounts, Restored: input.Counts}
		if raw, err := json.Marshal(payload); err == nil {
			counts = string(raw)
		}
	case input.Counts != nil:
		if raw, err := json.Marshal(input.Counts); err == nil {
			counts = string(raw)
		}
	}

	entry := BackupLog{
		Operation:          input.Operation,
		Kind:               input.Kind,
		RemoteFileId:       input.RemoteFileId,
		SafetyBackupFileId: input.SafetyBackupFileId,
		Counts:             counts,
		Status:             input.Status,
		ErrorMessage:       input.ErrorMessage,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func ListBackupLogs(ctx context.Context, limit int) ([]*BackupLog, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&BackupLog{}).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []*BackupLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// LastSuccessfulExport returns the newest EXPORT entry that produced a usable
// snapshot (SUCCESS or PARTIAL), nil when none exists.
func LastSuccessfulExport(ctx context.Context) (*BackupLog, error) {
	db := config.GetDB()
	var entries []*BackupLog
	err := db.WithContext(ctx).
		Where("operation = ? AND status IN ?", BackupOperationExport,
			[]BackupStatus{BackupStatusSuccess, BackupStatusPartial}).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

// PruneBackupLogs deletes every audit entry except the newest. Used only by
// factory reset.
func PruneBackupLogs(ctx context.Context) error {
	db := config.GetDB()
	var newest BackupLog
	err := db.WithContext(ctx).Order("created_at DESC, id DESC").First(&newest).Error
	if err != nil {
		// Nothing to prune.
		return nil
	}
	return db.WithContext(ctx).Where("id <> ?", newest.ID).Delete(&BackupLog{}).Error
}

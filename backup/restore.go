package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/storage"
	"gorm.io/gorm"
)

// Coordinator drives restore-from-snapshot. The protocol is multi-phase and
// best-effort rather than atomic: phase 1 takes an unconditional safety
// backup of live state, phases 1-2 are fail-fast and state-preserving, and
// from the wipe onward errors accumulate per row instead of stopping the run.
type Coordinator struct {
	Exporter *Exporter
	Store    storage.Provider
}

func NewCoordinator(store storage.Provider) *Coordinator {
	return &Coordinator{Exporter: NewExporter(store), Store: store}
}

// RowError is one non-fatal failure during reinsert: the row was skipped, the
// rest of the sheet was restored.
type RowError struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"` // 1-based data row within the sheet
	Reason string `json:"reason"`
}

// RestoreResult is the structured outcome of one restore attempt. Callers
// must not assume a FAILED status means nothing changed unless the failure
// happened before the first wipe; the safety backup id is the recovery path.
type RestoreResult struct {
	Status             models.BackupStatus       `json:"status"`
	SafetyBackupFileId string                    `json:"safety_backup_file_id"`
	WipedCounts        map[models.EntityKind]int `json:"wiped_counts"`
	RestoredCounts     map[models.EntityKind]int `json:"restored_counts"`
	RowErrors          []RowError                `json:"row_errors,omitempty"`
}

// Restore replaces live data with the snapshot stored under remoteId.
//
// Phases: safety backup -> fetch & validate -> wipe -> reinsert -> log.
// Only entity kinds with a sheet in the candidate are touched; each touched
// kind is wiped and reinserted inside its own transaction so readers never
// see a half-wiped table for that kind.
func (c *Coordinator) Restore(ctx context.Context, remoteId string) (*RestoreResult, error) {
	ctx, span := tracer.Start(ctx, "backup.Restore")
	defer span.End()

	// Phase 1: safety backup of current live state. If this fails nothing
	// has been touched and the restore aborts outright.
	safetyEntry, err := c.Exporter.Run(ctx, models.BackupKindManual)
	if err != nil {
		return c.fail(ctx, remoteId, "", fmt.Errorf("safety backup failed: %w", err))
	}
	safetyId := safetyEntry.RemoteFileId

	// Phase 2: fetch and validate the candidate. State is still unmodified
	// on any exit here; the safety backup id is reported so the caller is
	// not stranded.
	data, err := c.Store.Download(ctx, remoteId)
	if err != nil {
		return c.fail(ctx, remoteId, safetyId, fmt.Errorf("snapshot fetch failed: %w", err))
	}
	doc, err := Deserialize(data)
	if err != nil {
		return c.fail(ctx, remoteId, safetyId, err)
	}
	for _, spec := range sheetSpecs {
		if spec.Mandatory && doc.Sheet(spec.Name) == nil {
			return c.fail(ctx, remoteId, safetyId,
				&SnapshotFormatError{Reason: fmt.Sprintf("mandatory sheet %q is missing", spec.Name)})
		}
	}

	// Phases 3-4: wipe and reinsert each entity kind that has a sheet.
	// Kinds without a sheet are left untouched: an old snapshot must not
	// wipe data for features it predates.
	result := &RestoreResult{
		SafetyBackupFileId: safetyId,
		WipedCounts:        make(map[models.EntityKind]int),
		RestoredCounts:     make(map[models.EntityKind]int),
	}
	for _, spec := range sheetSpecs {
		sheet := doc.Sheet(spec.Name)
		if sheet == nil {
			continue
		}
		wiped, restored, rowErrs, err := c.restoreSheet(ctx, spec, sheet)
		if err != nil {
			// Sheet-level failure past the first wipe is fail-soft: record
			// it and keep going with the remaining sheets.
			result.RowErrors = append(result.RowErrors, RowError{Sheet: spec.Name, Reason: err.Error()})
			continue
		}
		result.WipedCounts[spec.Kind] = wiped
		result.RestoredCounts[spec.Kind] = restored
		result.RowErrors = append(result.RowErrors, rowErrs...)
	}

	if len(result.RowErrors) > 0 {
		result.Status = models.BackupStatusPartial
	} else {
		result.Status = models.BackupStatusSuccess
	}

	// Phase 5: audit log. Partial success is a first-class outcome.
	c.log(ctx, remoteId, result)
	return result, nil
}

// restoreSheet wipes one entity kind and reinserts the sheet's records in
// ascending date order with freshly generated identifiers. Running balances
// come from the snapshot as-is: the snapshot is internally consistent and is
// not recomputed. Bad rows are skipped and reported, not fatal.
func (c *Coordinator) restoreSheet(ctx context.Context, spec sheetSpec, sheet *Sheet) (int, int, []RowError, error) {
	type pending struct {
		row  interface{}
		date time.Time
		idx  int
	}

	var pendings []pending
	var rowErrs []RowError
	for i, rec := range sheet.Rows {
		row, date, err := parseRecord(spec.Kind, rec)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Sheet: spec.Name, Row: i + 1, Reason: err.Error()})
			continue
		}
		pendings = append(pendings, pending{row: row, date: date, idx: i + 1})
	}
	sort.SliceStable(pendings, func(a, b int) bool {
		return pendings[a].date.Before(pendings[b].date)
	})

	var wiped, restored int
	model := modelForKind(spec.Kind)
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model).Count(&count).Error; err != nil {
			return err
		}
		wiped = int(count)

		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}

		for _, p := range pendings {
			if err := tx.Create(p.row).Error; err != nil {
				rowErrs = append(rowErrs, RowError{Sheet: spec.Name, Row: p.idx, Reason: err.Error()})
				continue
			}
			restored++
		}
		return nil
	})
	if err != nil {
		return 0, 0, nil, err
	}
	return wiped, restored, rowErrs, nil
}

func parseRecord(kind models.EntityKind, rec Record) (interface{}, time.Time, error) {
	switch kind {
	case models.EntityKindContainer:
		row, err := recordToContainer(rec)
		if err != nil {
			return nil, time.Time{}, err
		}
		return row, row.TxnDate, nil
	case models.EntityKindCash:
		row, err := recordToCash(rec)
		if err != nil {
			return nil, time.Time{}, err
		}
		return row, row.TxnDate, nil
	case models.EntityKindStock:
		row, err := recordToStock(rec)
		if err != nil {
			return nil, time.Time{}, err
		}
		return row, row.TxnDate, nil
	case models.EntityKindProperty:
		row, err := recordToProperty(rec)
		if err != nil {
			return nil, time.Time{}, err
		}
		return row, row.RecordDate, nil
	}
	return nil, time.Time{}, fmt.Errorf("unknown entity kind %s", kind)
}

func modelForKind(kind models.EntityKind) interface{} {
	switch kind {
	case models.EntityKindContainer:
		return &models.ContainerTransaction{}
	case models.EntityKindCash:
		return &models.CashTransaction{}
	case models.EntityKindStock:
		return &models.StockTransaction{}
	case models.EntityKindProperty:
		return &models.Property{}
	}
	return nil
}

// fail records a state-preserving abort (phases 1-2) and returns the result.
func (c *Coordinator) fail(ctx context.Context, remoteId string, safetyId string, cause error) (*RestoreResult, error) {
	config.LogError(config.GetLogger(), "restore.go", "Restore", "aborted before wipe", remoteId, cause)

	entry, logErr := models.CreateBackupLog(ctx, &models.NewBackupLog{
		Operation:          models.BackupOperationRestore,
		Kind:               models.BackupKindManual,
		RemoteFileId:       remoteId,
		SafetyBackupFileId: safetyId,
		Status:             models.BackupStatusFailed,
		ErrorMessage:       cause.Error(),
	})
	if logErr != nil {
		config.LogError(config.GetLogger(), "restore.go", "fail", "audit log write failed", nil, logErr)
	}
	c.Exporter.notify(ctx, entry)

	return &RestoreResult{
		Status:             models.BackupStatusFailed,
		SafetyBackupFileId: safetyId,
	}, cause
}

func (c *Coordinator) log(ctx context.Context, remoteId string, result *RestoreResult) {
	errorMessage := ""
	if len(result.RowErrors) > 0 {
		if raw, err := json.Marshal(result.RowErrors); err == nil {
			errorMessage = string(raw)
		}
	}

	entry, err := models.CreateBackupLog(ctx, &models.NewBackupLog{
		Operation:          models.BackupOperationRestore,
		Kind:               models.BackupKindManual,
		RemoteFileId:       remoteId,
		SafetyBackupFileId: result.SafetyBackupFileId,
		Counts:             result.RestoredCounts,
		WipedCounts:        result.WipedCounts,
		Status:             result.Status,
		ErrorMessage:       errorMessage,
	})
	if err != nil {
		config.LogError(config.GetLogger(), "restore.go", "log", "audit log write failed", nil, err)
		return
	}
	c.Exporter.notify(ctx, entry)
}

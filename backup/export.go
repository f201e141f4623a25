package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/storage"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var tracer = otel.Tracer("backup")

// Exporter dumps every tracked table into one multi-sheet workbook and ships
// it to the blob store.
type Exporter struct {
	Store storage.Provider
}

func NewExporter(store storage.Provider) *Exporter {
	return &Exporter{Store: store}
}

// ExportAll reads the full content of every tracked entity kind and flattens
// it into a snapshot document. Mandatory sheets are always present, even
// empty; optional sheets are emitted only when they have rows.
func (e *Exporter) ExportAll(ctx context.Context) (*SnapshotDocument, map[models.EntityKind]int, error) {
	ctx, span := tracer.Start(ctx, "backup.ExportAll")
	defer span.End()

	doc := &SnapshotDocument{}
	counts := make(map[models.EntityKind]int)

	for _, spec := range sheetSpecs {
		sheet := Sheet{Name: spec.Name, Columns: spec.Columns}

		switch spec.Kind {
		case models.EntityKindContainer:
			rows, err := drainAll[models.ContainerTransaction](ctx, "txn_date ASC, created_at ASC, id ASC")
			if err != nil {
				return nil, nil, err
			}
			for i := range rows {
				sheet.Rows = append(sheet.Rows, containerToRecord(&rows[i]))
			}
		case models.EntityKindCash:
			rows, err := drainAll[models.CashTransaction](ctx, "txn_date ASC, created_at ASC, id ASC")
			if err != nil {
				return nil, nil, err
			}
			for i := range rows {
				sheet.Rows = append(sheet.Rows, cashToRecord(&rows[i]))
			}
		case models.EntityKindStock:
			rows, err := drainAll[models.StockTransaction](ctx, "txn_date ASC, created_at ASC, id ASC")
			if err != nil {
				return nil, nil, err
			}
			for i := range rows {
				sheet.Rows = append(sheet.Rows, stockToRecord(&rows[i]))
			}
		case models.EntityKindProperty:
			rows, err := drainAll[models.Property](ctx, "record_date ASC, id ASC")
			if err != nil {
				return nil, nil, err
			}
			for i := range rows {
				sheet.Rows = append(sheet.Rows, propertyToRecord(&rows[i]))
			}
		}

		counts[spec.Kind] = len(sheet.Rows)
		if len(sheet.Rows) == 0 && !spec.Mandatory {
			continue
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}

	return doc, counts, nil
}

// Serialize converts a snapshot document into one xlsx workbook, one sheet
// per entity kind, columns human-labeled.
func (e *Exporter) Serialize(doc *SnapshotDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range doc.Sheets {
		if i == 0 {
			// Rename the default sheet instead of leaving an empty "Sheet1".
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, err
			}
		}

		for c, col := range sheet.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet.Name, cell, col); err != nil {
				return nil, err
			}
		}
		for r, rec := range sheet.Rows {
			for c, col := range sheet.Columns {
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet.Name, cell, rec[col]); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize parses workbook bytes back into a snapshot document. It is the
// exact inverse of Serialize for every cell value.
func Deserialize(data []byte) (*SnapshotDocument, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &SnapshotFormatError{Reason: "unreadable workbook: " + err.Error()}
	}
	defer f.Close()

	doc := &SnapshotDocument{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, &SnapshotFormatError{Reason: fmt.Sprintf("unreadable sheet %q: %v", name, err)}
		}
		if len(rows) == 0 {
			continue
		}

		columns := rows[0]
		sheet := Sheet{Name: name, Columns: columns}
		for _, raw := range rows[1:] {
			rec := make(Record, len(columns))
			for c, col := range columns {
				if c < len(raw) {
					rec[col] = raw[c]
				} else {
					rec[col] = ""
				}
			}
			sheet.Rows = append(sheet.Rows, rec)
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}
	return doc, nil
}

// Publish uploads serialized snapshot bytes and returns the remote file id.
func (e *Exporter) Publish(ctx context.Context, data []byte, filename string) (string, error) {
	return e.Store.Upload(ctx, filename, data, xlsxContentType)
}

// SnapshotFilename stamps export time plus a short random suffix so
// concurrent automatic and manual exports never collide.
func SnapshotFilename(now time.Time) string {
	return fmt.Sprintf("backup-%s-%s.xlsx", now.UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

// Run performs a complete export (dump, serialize, publish) and writes the
// audit log entry whatever the outcome.
func (e *Exporter) Run(ctx context.Context, kind models.BackupKind) (*models.BackupLog, error) {
	ctx, span := tracer.Start(ctx, "backup.Run")
	defer span.End()

	logger := config.GetLogger()

	remoteId, counts, err := e.exportOnce(ctx)
	if err != nil {
		config.LogError(logger, "export.go", "Run", "export failed", string(kind), err)
		entry, logErr := models.CreateBackupLog(ctx, &models.NewBackupLog{
			Operation:    models.BackupOperationExport,
			Kind:         kind,
			Status:       models.BackupStatusFailed,
			ErrorMessage: err.Error(),
		})
		if logErr != nil {
			config.LogError(logger, "export.go", "Run", "audit log write failed", nil, logErr)
		}
		e.notify(ctx, entry)
		return entry, err
	}

	entry, logErr := models.CreateBackupLog(ctx, &models.NewBackupLog{
		Operation:    models.BackupOperationExport,
		Kind:         kind,
		RemoteFileId: remoteId,
		Counts:       counts,
		Status:       models.BackupStatusSuccess,
	})
	if logErr != nil {
		config.LogError(logger, "export.go", "Run", "audit log write failed", nil, logErr)
		return nil, logErr
	}
	e.notify(ctx, entry)
	return entry, nil
}

func (e *Exporter) exportOnce(ctx context.Context) (string, map[models.EntityKind]int, error) {
	doc, counts, err := e.ExportAll(ctx)
	if err != nil {
		return "", nil, err
	}
	data, err := e.Serialize(doc)
	if err != nil {
		return "", nil, err
	}
	remoteId, err := e.Publish(ctx, data, SnapshotFilename(time.Now()))
	if err != nil {
		return "", nil, err
	}
	return remoteId, counts, nil
}

// notify publishes the audit entry to Pub/Sub when configured. Failures are
// logged and dropped; backups never depend on the message bus.
func (e *Exporter) notify(ctx context.Context, entry *models.BackupLog) {
	if entry == nil {
		return
	}
	event := config.AuditEvent{
		Operation:    string(entry.Operation),
		Kind:         string(entry.Kind),
		Status:       string(entry.Status),
		RemoteFileId: entry.RemoteFileId,
		ErrorMessage: entry.ErrorMessage,
		OccurredAt:   entry.CreatedAt,
	}
	if err := config.PublishAuditEvent(ctx, event); err != nil {
		config.LogError(config.GetLogger(), "export.go", "notify", "pubsub publish failed", event, err)
	}
}

package backup

import (
	"context"
	"testing"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIfDueExportsWhenNoSnapshotExists(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	store := storage.NewMemoryProvider()
	scheduler := &Scheduler{Exporter: NewExporter(store), Interval: 24 * time.Hour}

	assert.True(t, scheduler.RunIfDue(ctx))
	assert.Equal(t, 1, store.Len())

	last, err := models.LastSuccessfulExport(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, models.BackupKindAutomatic, last.Kind)
}

func TestRunIfDueSkipsFreshExport(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	store := storage.NewMemoryProvider()
	scheduler := &Scheduler{Exporter: NewExporter(store), Interval: 24 * time.Hour}

	require.True(t, scheduler.RunIfDue(ctx))
	assert.False(t, scheduler.RunIfDue(ctx))
	assert.Equal(t, 1, store.Len())
}

func TestRunIfDueExportsWhenLastIsStale(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	store := storage.NewMemoryProvider()
	scheduler := &Scheduler{Exporter: NewExporter(store), Interval: 24 * time.Hour}

	require.True(t, scheduler.RunIfDue(ctx))

	// Age the audit entry past the interval.
	stale := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Model(&models.BackupLog{}).
		Where("1 = 1").
		UpdateColumn("created_at", stale).Error)

	assert.True(t, scheduler.RunIfDue(ctx))
	assert.Equal(t, 2, store.Len())
}

func TestSchedulerStartStopLifecycle(t *testing.T) {
	setupTestDB(t)

	store := storage.NewMemoryProvider()
	scheduler := &Scheduler{Exporter: NewExporter(store), Interval: 24 * time.Hour}

	scheduler.Start()
	// Second Start is a no-op.
	scheduler.Start()

	// The immediate first pass runs an export because none exists yet.
	deadline := time.After(5 * time.Second)
	for store.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduler never ran the initial export")
		case <-time.After(10 * time.Millisecond):
		}
	}

	scheduler.Stop()
	// Second Stop is a no-op.
	scheduler.Stop()
}

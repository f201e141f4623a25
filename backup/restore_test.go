package backup

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadDocument serializes a handcrafted snapshot and stores it, returning
// the remote id.
func uploadDocument(t *testing.T, ctx context.Context, store storage.Provider, doc *SnapshotDocument) string {
	t.Helper()
	exporter := NewExporter(store)
	data, err := exporter.Serialize(doc)
	require.NoError(t, err)
	remoteId, err := exporter.Publish(ctx, data, "candidate.xlsx")
	require.NoError(t, err)
	return remoteId
}

func emptyMandatorySheets() []Sheet {
	var sheets []Sheet
	for _, spec := range sheetSpecs {
		if spec.Mandatory {
			sheets = append(sheets, Sheet{Name: spec.Name, Columns: spec.Columns})
		}
	}
	return sheets
}

func TestRestoreReplacesLiveState(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := storage.NewMemoryProvider()
	coordinator := NewCoordinator(store)

	seedLedgers(t, ctx)
	entry, err := coordinator.Exporter.Run(ctx, models.BackupKindManual)
	require.NoError(t, err)

	// Mutate live state after the snapshot was taken.
	_, err = models.CreateCashTransaction(ctx, &models.NewCashTransaction{
		TxnDate: day(2),
		Amount:  dec("-999"),
	})
	require.NoError(t, err)

	result, err := coordinator.Restore(ctx, entry.RemoteFileId)
	require.NoError(t, err)
	assert.Equal(t, models.BackupStatusSuccess, result.Status)
	assert.NotEmpty(t, result.SafetyBackupFileId)
	assert.Empty(t, result.RowErrors)
	assert.Equal(t, 1, result.RestoredCounts[models.EntityKindCash])
	assert.Equal(t, 2, result.WipedCounts[models.EntityKindCash])

	// Post-snapshot mutation is gone; the snapshot balance is trusted as-is.
	balance, err := models.GetCashBalance(ctx, models.DefaultCashAccount)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("2500.5")), "got %s", balance)

	// Safety backup plus the original snapshot live in the store.
	assert.Equal(t, 2, store.Len())

	logs, err := models.ListBackupLogs(ctx, 0)
	require.NoError(t, err)
	var restoreLogs int
	for _, l := range logs {
		if l.Operation == models.BackupOperationRestore {
			restoreLogs++
			assert.Equal(t, models.BackupStatusSuccess, l.Status)
			assert.Equal(t, result.SafetyBackupFileId, l.SafetyBackupFileId)

			// The audit row carries both pre-wipe and reinserted counts.
			var counts models.RestoreCounts
			require.NoError(t, json.Unmarshal([]byte(l.Counts), &counts))
			assert.Equal(t, 2, counts.Wiped[models.EntityKindCash])
			assert.Equal(t, 1, counts.Restored[models.EntityKindCash])
		}
	}
	assert.Equal(t, 1, restoreLogs)
}

func TestRestoreAccumulatesRowErrors(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := storage.NewMemoryProvider()
	coordinator := NewCoordinator(store)

	doc := &SnapshotDocument{Sheets: emptyMandatorySheets()}
	cash := doc.Sheet(SheetCashBook)
	cash.Rows = []Record{
		{"Date": "2026-03-01", "Account": "CASH", "Kind": "CREDIT", "Amount": "100", "Balance": "100"},
		{"Date": "not-a-date", "Account": "CASH", "Kind": "CREDIT", "Amount": "50", "Balance": "150"},
		{"Date": "2026-03-03", "Account": "CASH", "Kind": "DEBIT", "Amount": "-20", "Balance": "130"},
	}
	remoteId := uploadDocument(t, ctx, store, doc)

	result, err := coordinator.Restore(ctx, remoteId)
	require.NoError(t, err)
	assert.Equal(t, models.BackupStatusPartial, result.Status)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, SheetCashBook, result.RowErrors[0].Sheet)
	assert.Equal(t, 2, result.RowErrors[0].Row)
	assert.Equal(t, 2, result.RestoredCounts[models.EntityKindCash])

	txns, err := models.ListCashTransactions(ctx, models.CashTransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 2)
}

func TestRestoreRejectsMissingMandatorySheet(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := storage.NewMemoryProvider()
	coordinator := NewCoordinator(store)

	seedLedgers(t, ctx)

	// Candidate carries Containers but no Cash Book.
	doc := &SnapshotDocument{Sheets: []Sheet{
		{Name: SheetContainers, Columns: sheetSpecs[0].Columns},
	}}
	remoteId := uploadDocument(t, ctx, store, doc)

	result, err := coordinator.Restore(ctx, remoteId)
	require.Error(t, err)
	var formatErr *SnapshotFormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Equal(t, models.BackupStatusFailed, result.Status)
	assert.NotEmpty(t, result.SafetyBackupFileId)

	// State-preserving: live rows untouched.
	txns, err := models.ListCashTransactions(ctx, models.CashTransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestRestoreFetchFailureIsStatePreserving(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := storage.NewMemoryProvider()
	coordinator := NewCoordinator(store)

	seedLedgers(t, ctx)

	result, err := coordinator.Restore(ctx, "no-such-object")
	require.Error(t, err)
	assert.Equal(t, models.BackupStatusFailed, result.Status)
	assert.NotEmpty(t, result.SafetyBackupFileId)

	txns, err := models.ListContainerTransactions(ctx, models.ContainerTransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestRestoreLeavesUnsheetedKindsUntouched(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := storage.NewMemoryProvider()
	coordinator := NewCoordinator(store)

	_, err := models.CreateProperty(ctx, &models.NewProperty{
		RecordDate: day(1),
		PlotName:   "Plot 7",
		Amount:     dec("150000"),
	})
	require.NoError(t, err)

	// Snapshot predates the property registry: no Properties sheet.
	doc := &SnapshotDocument{Sheets: emptyMandatorySheets()}
	remoteId := uploadDocument(t, ctx, store, doc)

	result, err := coordinator.Restore(ctx, remoteId)
	require.NoError(t, err)
	assert.Equal(t, models.BackupStatusSuccess, result.Status)

	properties, err := models.ListProperties(ctx, models.PropertyFilter{})
	require.NoError(t, err)
	assert.Len(t, properties, 1)
}

func TestRestoreReinsertsInDateOrderWithFreshIds(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	store := storage.NewMemoryProvider()
	coordinator := NewCoordinator(store)

	doc := &SnapshotDocument{Sheets: emptyMandatorySheets()}
	containers := doc.Sheet(SheetContainers)
	// Rows deliberately out of date order.
	containers.Rows = []Record{
		{"Date": "2026-03-05", "Container Type": "JAR20", "Warehouse": "1", "Kind": "SALE", "Quantity": "-3", "Balance": "7"},
		{"Date": "2026-03-01", "Container Type": "JAR20", "Warehouse": "1", "Kind": "PURCHASE", "Quantity": "10", "Balance": "10"},
	}
	remoteId := uploadDocument(t, ctx, store, doc)

	result, err := coordinator.Restore(ctx, remoteId)
	require.NoError(t, err)
	assert.Equal(t, models.BackupStatusSuccess, result.Status)

	txns, err := models.ListContainerTransactions(ctx, models.ContainerTransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	// Insertion order followed date order, so ids ascend with dates and the
	// stored balances arrived untouched.
	assert.True(t, txns[0].TxnDate.Before(txns[1].TxnDate))
	assert.Less(t, txns[0].ID, txns[1].ID)
	assert.True(t, txns[0].Balance.Equal(dec("10")))
	assert.True(t, txns[1].Balance.Equal(dec("7")))
}

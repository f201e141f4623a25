package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultSettingsSeedsPin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureDefaultSettings(ctx))
	// Second call is a no-op.
	require.NoError(t, EnsureDefaultSettings(ctx))

	require.NoError(t, VerifyPin(ctx, "0000"))
	assert.Error(t, VerifyPin(ctx, "1234"))
}

func TestUpdatePinRequiresOldPin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, EnsureDefaultSettings(ctx))

	assert.Error(t, UpdatePin(ctx, "9999", "1234"))
	assert.Error(t, UpdatePin(ctx, "0000", "12"))

	require.NoError(t, UpdatePin(ctx, "0000", "1234"))
	require.NoError(t, VerifyPin(ctx, "1234"))
	assert.Error(t, VerifyPin(ctx, "0000"))
}

func TestFactoryResetKeepsSettingsAndNewestLog(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, EnsureDefaultSettings(ctx))

	_, err := CreateCashTransaction(ctx, &NewCashTransaction{TxnDate: day(1), Amount: dec("100")})
	require.NoError(t, err)
	_, err = CreateProperty(ctx, &NewProperty{RecordDate: day(1), PlotName: "Plot 12"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = CreateBackupLog(ctx, &NewBackupLog{
			Operation: BackupOperationExport,
			Kind:      BackupKindManual,
			Status:    BackupStatusSuccess,
		})
		require.NoError(t, err)
	}

	require.NoError(t, FactoryReset(ctx))

	assert.EqualValues(t, 0, countRows(t, ctx, &CashTransaction{}))
	assert.EqualValues(t, 0, countRows(t, ctx, &Property{}))
	assert.EqualValues(t, 1, countRows(t, ctx, &BackupLog{}))
	require.NoError(t, VerifyPin(ctx, "0000"))
}

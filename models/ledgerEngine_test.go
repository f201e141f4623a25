package models

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func containerInput(d int, kind TxnKind, qty string) *NewContainerTransaction {
	return &NewContainerTransaction{
		ContainerType: ContainerTypeJar20,
		WarehouseId:   1,
		TxnDate:       day(d),
		Kind:          kind,
		Qty:           dec(qty),
	}
}

func TestAppendRecomputesWholePartitionOnBackdatedInsert(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	later, err := CreateContainerTransaction(ctx, containerInput(2, TxnKindPurchase, "10"))
	require.NoError(t, err)
	assert.True(t, later.Balance.Equal(dec("10")))

	// Backdated row lands before the existing one; both balances shift.
	earlier, err := CreateContainerTransaction(ctx, containerInput(1, TxnKindPurchase, "5"))
	require.NoError(t, err)
	assert.True(t, earlier.Balance.Equal(dec("5")))

	refetched, err := GetContainerTransaction(ctx, later.ID)
	require.NoError(t, err)
	assert.True(t, refetched.Balance.Equal(dec("15")), "got %s", refetched.Balance)
}

func TestPartitionsAreIndependent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	_, err := CreateContainerTransaction(ctx, containerInput(1, TxnKindPurchase, "10"))
	require.NoError(t, err)

	other := containerInput(1, TxnKindPurchase, "3")
	other.WarehouseId = 2
	txn, err := CreateContainerTransaction(ctx, other)
	require.NoError(t, err)
	assert.True(t, txn.Balance.Equal(dec("3")))

	balance, err := GetContainerBalance(ctx, ContainerTypeJar20, 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10")))
}

func TestRecomputeIsIdempotent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	txn, err := CreateContainerTransaction(ctx, containerInput(1, TxnKindPurchase, "7"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, RecomputePartition[ContainerTransaction](ctx, txn))
	}
	refetched, err := GetContainerTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, refetched.Balance.Equal(dec("7")))
}

func TestEditMovingRowAcrossPartitionsRecomputesBoth(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	first, err := CreateContainerTransaction(ctx, containerInput(1, TxnKindPurchase, "10"))
	require.NoError(t, err)
	second, err := CreateContainerTransaction(ctx, containerInput(2, TxnKindPurchase, "4"))
	require.NoError(t, err)

	moved := containerInput(2, TxnKindPurchase, "4")
	moved.WarehouseId = 2
	updated, err := UpdateContainerTransaction(ctx, second.ID, moved)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(dec("4")))

	refetched, err := GetContainerTransaction(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, refetched.Balance.Equal(dec("10")))

	oldPartition, err := GetContainerBalance(ctx, ContainerTypeJar20, 1)
	require.NoError(t, err)
	assert.True(t, oldPartition.Equal(dec("10")))
	newPartition, err := GetContainerBalance(ctx, ContainerTypeJar20, 2)
	require.NoError(t, err)
	assert.True(t, newPartition.Equal(dec("4")))
}

func TestDeleteRecomputesSuccessors(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	first, err := CreateContainerTransaction(ctx, containerInput(1, TxnKindPurchase, "10"))
	require.NoError(t, err)
	second, err := CreateContainerTransaction(ctx, containerInput(2, TxnKindSale, "-4"))
	require.NoError(t, err)
	assert.True(t, second.Balance.Equal(dec("6")))

	_, err = DeleteContainerTransaction(ctx, first.ID)
	require.NoError(t, err)

	refetched, err := GetContainerTransaction(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, refetched.Balance.Equal(dec("-4")))
}

func TestPartitionBalanceEmptyIsZero(t *testing.T) {
	setupTestDB(t)

	balance, err := GetContainerBalance(context.Background(), ContainerTypeJar20, 99)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCashKindFollowsAmountSign(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	credit, err := CreateCashTransaction(ctx, &NewCashTransaction{
		TxnDate: day(1),
		Amount:  dec("500"),
	})
	require.NoError(t, err)
	assert.Equal(t, TxnKindCredit, credit.Kind)
	assert.Equal(t, DefaultCashAccount, credit.Account)

	debit, err := CreateCashTransaction(ctx, &NewCashTransaction{
		TxnDate: day(2),
		Amount:  dec("-120"),
	})
	require.NoError(t, err)
	assert.Equal(t, TxnKindDebit, debit.Kind)
	assert.True(t, debit.Balance.Equal(dec("380")))
}

func TestRawMaterialCannotGoNegative(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	_, err := CreateStockTransaction(ctx, &NewStockTransaction{
		Category: StockCategoryRawMaterial,
		TxnDate:  day(1),
		Kind:     TxnKindReceipt,
		Qty:      dec("100"),
	})
	require.NoError(t, err)

	_, err = CreateStockTransaction(ctx, &NewStockTransaction{
		Category: StockCategoryRawMaterial,
		TxnDate:  day(2),
		Kind:     TxnKindIssue,
		Qty:      dec("-150"),
	})
	require.Error(t, err)

	balance, err := GetStockBalance(ctx, StockCategoryRawMaterial)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))
}

func TestRawMaterialEditCannotGoNegative(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	_, err := CreateStockTransaction(ctx, &NewStockTransaction{
		Category: StockCategoryRawMaterial,
		TxnDate:  day(1),
		Kind:     TxnKindReceipt,
		Qty:      dec("100"),
	})
	require.NoError(t, err)

	draw, err := CreateStockTransaction(ctx, &NewStockTransaction{
		Category: StockCategoryRawMaterial,
		TxnDate:  day(2),
		Kind:     TxnKindIssue,
		Qty:      dec("-50"),
	})
	require.NoError(t, err)

	// Deepening the draw past the receipt is rejected on the edit path too.
	_, err = UpdateStockTransaction(ctx, draw.ID, &NewStockTransaction{
		Category: StockCategoryRawMaterial,
		TxnDate:  day(2),
		Kind:     TxnKindIssue,
		Qty:      dec("-500"),
	})
	require.Error(t, err)

	balance, err := GetStockBalance(ctx, StockCategoryRawMaterial)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("50")), "got %s", balance)

	// Deepening within the available balance is fine; the row's own pre-edit
	// quantity does not count against it.
	updated, err := UpdateStockTransaction(ctx, draw.ID, &NewStockTransaction{
		Category: StockCategoryRawMaterial,
		TxnDate:  day(2),
		Kind:     TxnKindIssue,
		Qty:      dec("-100"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
}

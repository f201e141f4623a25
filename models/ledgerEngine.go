package models

import (
	"context"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRecord is one signed movement in a running-balance sequence. A
// partition (container type x warehouse, cash account, stock category) is an
// independent sequence: ordering its rows by (txn_date, created_at, id), each
// row's balance is the prefix sum of quantities up to and including itself.
type LedgerRecord interface {
	GetID() int
	GetQty() decimal.Decimal
	GetBalance() decimal.Decimal
	// PartitionKey is a stable string used for partition-level locking.
	PartitionKey() string
	// PartitionScope narrows a query to this record's partition.
	PartitionScope(q *gorm.DB) *gorm.DB
}

type ledgerPtr[T any] interface {
	*T
	LedgerRecord
}

// AppendLedgerRow inserts a row and recomputes its partition. Insertion can
// land mid-sequence by date, so recompute always covers the whole partition.
// The insert itself is fail-fast; the recompute that follows is best-effort
// and safe to re-run.
func AppendLedgerRow[T any, PT ledgerPtr[T]](ctx context.Context, row PT) error {
	unlock := lockPartitions(ctx, row.PartitionKey())
	defer unlock()
	return appendLedgerRowLocked[T, PT](ctx, row)
}

func appendLedgerRowLocked[T any, PT ledgerPtr[T]](ctx context.Context, row PT) error {
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	return recomputePartition[T, PT](ctx, row)
}

// EditLedgerRow persists an updated row and recomputes every affected
// partition. `before` carries the pre-edit partition so a move across
// partitions recomputes both sides.
func EditLedgerRow[T any, PT ledgerPtr[T]](ctx context.Context, before PT, updated PT) error {
	keys := []string{before.PartitionKey(), updated.PartitionKey()}
	unlock := lockPartitions(ctx, keys...)
	defer unlock()

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(updated).Error; err != nil {
		return err
	}
	if before.PartitionKey() != updated.PartitionKey() {
		if err := recomputePartition[T, PT](ctx, before); err != nil {
			return err
		}
	}
	return recomputePartition[T, PT](ctx, updated)
}

// RemoveLedgerRow deletes a row and recomputes the remaining rows of its
// partition.
func RemoveLedgerRow[T any, PT ledgerPtr[T]](ctx context.Context, row PT) error {
	unlock := lockPartitions(ctx, row.PartitionKey())
	defer unlock()
	return removeLedgerRowLocked[T, PT](ctx, row)
}

func removeLedgerRowLocked[T any, PT ledgerPtr[T]](ctx context.Context, row PT) error {
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(new(T), row.GetID()).Error; err != nil {
		return err
	}
	return recomputePartition[T, PT](ctx, row)
}

// RecomputePartition rebuilds the running balances of the partition the
// prototype row describes. Idempotent; redundant calls are harmless.
func RecomputePartition[T any, PT ledgerPtr[T]](ctx context.Context, proto PT) error {
	unlock := lockPartitions(ctx, proto.PartitionKey())
	defer unlock()
	return recomputePartition[T, PT](ctx, proto)
}

// recomputePartition walks the whole partition in (txn_date, created_at, id)
// order accumulating the prefix sum and writes back every row whose stored
// balance differs. Partitions are bounded by real transaction volume, so the
// O(partition) full walk is deliberate; do not replace it with incremental
// delta propagation.
//
// A write failure mid-walk leaves the partition partially recomputed. That is
// a documented gap: re-running the recompute repairs it.
func recomputePartition[T any, PT ledgerPtr[T]](ctx context.Context, proto PT) error {
	db := config.GetDB()

	var rows []T
	q := proto.PartitionScope(db.WithContext(ctx).Model(new(T))).
		Order("txn_date ASC, created_at ASC, id ASC")
	if err := q.Find(&rows).Error; err != nil {
		return err
	}

	running := decimal.Zero
	for i := range rows {
		r := PT(&rows[i])
		running = running.Add(r.GetQty())
		if !running.Equal(r.GetBalance()) {
			if err := db.WithContext(ctx).Model(new(T)).
				Where("id = ?", r.GetID()).
				UpdateColumn("balance", running).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// PartitionBalance returns the current running balance of a partition: the
// balance of its last row by (txn_date, created_at, id), zero when empty.
func PartitionBalance[T any, PT ledgerPtr[T]](ctx context.Context, proto PT) (decimal.Decimal, error) {
	db := config.GetDB()

	var rows []T
	q := proto.PartitionScope(db.WithContext(ctx).Model(new(T))).
		Order("txn_date DESC, created_at DESC, id DESC").
		Limit(1)
	if err := q.Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return PT(&rows[0]).GetBalance(), nil
}

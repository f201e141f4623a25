package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContainerTransaction is one movement of filled containers for a
// (container type, warehouse) bucket. Qty is signed: purchases/receipts are
// positive, sales/issues negative. Balance is the running container count of
// the bucket and is owned by the ledger engine.
type ContainerTransaction struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ContainerType ContainerType   `gorm:"type:varchar(10);index:idx_container_partition;not null" json:"container_type"`
	WarehouseId   int             `gorm:"index:idx_container_partition;not null" json:"warehouse_id"`
	TxnDate       time.Time       `gorm:"index;not null" json:"txn_date"`
	Kind          TxnKind         `gorm:"type:varchar(20);not null" json:"kind"`
	Qty           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	Balance       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	Party         string          `gorm:"size:100" json:"party"`
	Description   string          `gorm:"size:255" json:"description"`
	CorrelationId string          `gorm:"size:36;index" json:"correlation_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *ContainerTransaction) GetID() int { return t.ID }
func (t *ContainerTransaction) GetQty() decimal.Decimal { return t.Qty }
func (t *ContainerTransaction) GetBalance() decimal.Decimal { return t.Balance }

func (t *ContainerTransaction) PartitionKey() string {
	return fmt.Sprintf("container:%s:%d", t.ContainerType, t.WarehouseId)
}

func (t *ContainerTransaction) PartitionScope(q *gorm.DB) *gorm.DB {
	return q.Where("container_type = ? AND warehouse_id = ?", t.ContainerType, t.WarehouseId)
}

type NewContainerTransaction struct {
	ContainerType ContainerType   `json:"container_type" binding:"required"`
	WarehouseId   int             `json:"warehouse_id" binding:"required"`
	TxnDate       time.Time       `json:"txn_date" binding:"required"`
	Kind          TxnKind         `json:"kind" binding:"required"`
	Qty           decimal.Decimal `json:"qty" binding:"required"`
	Party         string          `json:"party"`
	Description   string          `json:"description"`
}

func (input *NewContainerTransaction) validate() error {
	if !input.ContainerType.Valid() {
		return errors.New("invalid container type")
	}
	if input.WarehouseId <= 0 {
		return errors.New("warehouse is required")
	}
	if input.Qty.IsZero() {
		return errors.New("qty must be non-zero")
	}
	switch input.Kind {
	case TxnKindPurchase, TxnKindReceipt, TxnKindSale, TxnKindIssue, TxnKindAdjustment:
	default:
		return errors.New("invalid transaction kind for containers")
	}
	return nil
}

func CreateContainerTransaction(ctx context.Context, input *NewContainerTransaction) (*ContainerTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	txn := ContainerTransaction{
		ContainerType: input.ContainerType,
		WarehouseId:   input.WarehouseId,
		TxnDate:       utils.TruncateToDate(input.TxnDate),
		Kind:          input.Kind,
		Qty:           input.Qty,
		Party:         input.Party,
		Description:   input.Description,
	}
	if err := AppendLedgerRow[ContainerTransaction](ctx, &txn); err != nil {
		return nil, err
	}
	return fetchContainerTransaction(ctx, txn.ID)
}

func UpdateContainerTransaction(ctx context.Context, id int, input *NewContainerTransaction) (*ContainerTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	txn, err := fetchContainerTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.CorrelationId != "" {
		return nil, errors.New("cascade-born transactions cannot be edited; delete and re-issue the action")
	}

	before := *txn
	txn.ContainerType = input.ContainerType
	txn.WarehouseId = input.WarehouseId
	txn.TxnDate = utils.TruncateToDate(input.TxnDate)
	txn.Kind = input.Kind
	txn.Qty = input.Qty
	txn.Party = input.Party
	txn.Description = input.Description

	if err := EditLedgerRow[ContainerTransaction](ctx, &before, txn); err != nil {
		return nil, err
	}
	return fetchContainerTransaction(ctx, id)
}

// DeleteContainerTransaction removes a container movement. Rows born from a
// cascade action route through the resolver so the paired stock rows are
// reversed with them.
func DeleteContainerTransaction(ctx context.Context, id int) (*ContainerTransaction, error) {
	txn, err := fetchContainerTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	// Legacy cascade rows predate correlation ids, so SELL_FILLED is routed by
	// kind as well.
	if txn.CorrelationId != "" || txn.Kind == TxnKindSellFilled {
		if err := ReverseDerivedAction(ctx, txn); err != nil {
			return nil, err
		}
		return txn, nil
	}

	if err := RemoveLedgerRow[ContainerTransaction](ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func fetchContainerTransaction(ctx context.Context, id int) (*ContainerTransaction, error) {
	db := config.GetDB()
	var txn ContainerTransaction
	if err := db.WithContext(ctx).First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func GetContainerTransaction(ctx context.Context, id int) (*ContainerTransaction, error) {
	return fetchContainerTransaction(ctx, id)
}

type ContainerTransactionFilter struct {
	ContainerType ContainerType
	WarehouseId   int
	FromDate      *time.Time
	ToDate        *time.Time
	Offset        int
	Limit         int
}

func ListContainerTransactions(ctx context.Context, filter ContainerTransactionFilter) ([]*ContainerTransaction, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&ContainerTransaction{})
	if filter.ContainerType != "" {
		q = q.Where("container_type = ?", filter.ContainerType)
	}
	if filter.WarehouseId > 0 {
		q = q.Where("warehouse_id = ?", filter.WarehouseId)
	}
	if filter.FromDate != nil {
		q = q.Where("txn_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("txn_date <= ?", *filter.ToDate)
	}
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}

	var txns []*ContainerTransaction
	if err := q.Order("txn_date ASC, created_at ASC, id ASC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// GetContainerBalance reports the current container count of one bucket.
func GetContainerBalance(ctx context.Context, containerType ContainerType, warehouseId int) (decimal.Decimal, error) {
	proto := ContainerTransaction{ContainerType: containerType, WarehouseId: warehouseId}
	return PartitionBalance[ContainerTransaction](ctx, &proto)
}

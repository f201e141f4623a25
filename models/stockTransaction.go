package models

import (
	"context"
	"errors"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTransaction is one production-stock movement. The RAW_MATERIAL
// partition is measured in litres of raw water, FINISHED_GOODS in packed
// units. Balance is the running stock level of the category.
type StockTransaction struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Category      StockCategory   `gorm:"type:varchar(20);index;not null" json:"category"`
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

func (t *StockTransaction) GetID() int { return t.ID }
func (t *StockTransaction) GetQty() decimal.Decimal { return t.Qty }
func (t *StockTransaction) GetBalance() decimal.Decimal { return t.Balance }

func (t *StockTransaction) PartitionKey() string {
	return "stock:" + string(t.Category)
}

func (t *StockTransaction) PartitionScope(q *gorm.DB) *gorm.DB {
	return q.Where("category = ?", t.Category)
}

type NewStockTransaction struct {
	Category    StockCategory   `json:"category" binding:"required"`
	TxnDate     time.Time       `json:"txn_date" binding:"required"`
	Kind        TxnKind         `json:"kind" binding:"required"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	Party       string          `json:"party"`
	Description string          `json:"description"`
}

func (input *NewStockTransaction) validate() error {
	if !input.Category.Valid() {
		return errors.New("invalid stock category")
	}
	if input.Qty.IsZero() {
		return errors.New("qty must be non-zero")
	}
	switch input.Kind {
	case TxnKindReceipt, TxnKindIssue, TxnKindAdjustment:
	default:
		return errors.New("invalid transaction kind for stock")
	}
	return nil
}

// validateRawDraw rejects a movement that would leave the raw-material
// partition negative at its current end balance. priorQty is what the row
// being written already contributes to the partition (zero on create).
// Negative raw water is physically meaningless.
func validateRawDraw(ctx context.Context, category StockCategory, qty, priorQty decimal.Decimal) error {
	if category != StockCategoryRawMaterial || qty.GreaterThanOrEqual(priorQty) {
		return nil
	}
	balance, err := GetStockBalance(ctx, category)
	if err != nil {
		return err
	}
	if balance.Sub(priorQty).Add(qty).IsNegative() {
		return errors.New("raw material balance cannot go below zero")
	}
	return nil
}

func CreateStockTransaction(ctx context.Context, input *NewStockTransaction) (*StockTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := validateRawDraw(ctx, input.Category, input.Qty, decimal.Zero); err != nil {
		return nil, err
	}

	txn := StockTransaction{
		Category:    input.Category,
		TxnDate:     utils.TruncateToDate(input.TxnDate),
		Kind:        input.Kind,
		Qty:         input.Qty,
		Party:       input.Party,
		Description: input.Description,
	}
	if err := AppendLedgerRow[StockTransaction](ctx, &txn); err != nil {
		return nil, err
	}
	return fetchStockTransaction(ctx, txn.ID)
}

func UpdateStockTransaction(ctx context.Context, id int, input *NewStockTransaction) (*StockTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	txn, err := fetchStockTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.CorrelationId != "" {
		return nil, errors.New("cascade-born transactions cannot be edited; delete and re-issue the action")
	}

	before := *txn
	priorQty := decimal.Zero
	if before.Category == StockCategoryRawMaterial {
		priorQty = before.Qty
	}
	if err := validateRawDraw(ctx, input.Category, input.Qty, priorQty); err != nil {
		return nil, err
	}

	txn.Category = input.Category
	txn.TxnDate = utils.TruncateToDate(input.TxnDate)
	txn.Kind = input.Kind
	txn.Qty = input.Qty
	txn.Party = input.Party
	txn.Description = input.Description

	if err := EditLedgerRow[StockTransaction](ctx, &before, txn); err != nil {
		return nil, err
	}
	return fetchStockTransaction(ctx, id)
}

func DeleteStockTransaction(ctx context.Context, id int) (*StockTransaction, error) {
	txn, err := fetchStockTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if txn.CorrelationId != "" {
		if err := ReverseStockCascade(ctx, txn); err != nil {
			return nil, err
		}
		return txn, nil
	}

	if err := RemoveLedgerRow[StockTransaction](ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func fetchStockTransaction(ctx context.Context, id int) (*StockTransaction, error) {
	db := config.GetDB()
	var txn StockTransaction
	if err := db.WithContext(ctx).First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func GetStockTransaction(ctx context.Context, id int) (*StockTransaction, error) {
	return fetchStockTransaction(ctx, id)
}

type StockTransactionFilter struct {
	Category StockCategory
	FromDate *time.Time
	ToDate   *time.Time
	Offset   int
	Limit    int
}

func ListStockTransactions(ctx context.Context, filter StockTransactionFilter) ([]*StockTransaction, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&StockTransaction{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
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

	var txns []*StockTransaction
	if err := q.Order("txn_date ASC, created_at ASC, id ASC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func GetStockBalance(ctx context.Context, category StockCategory) (decimal.Decimal, error) {
	proto := StockTransaction{Category: category}
	return PartitionBalance[StockTransaction](ctx, &proto)
}

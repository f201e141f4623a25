package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// A cascade action is one user-facing event that must write paired rows in
// two ledgers to stay consistent with the physical unit conversion: filled
// containers on one side, litres of raw water on the other. Both rows share a
// CorrelationId so the pair can be reversed exactly later. (Rows from before
// correlation ids existed are matched by date+kind+quantity instead.)

type SellFilledAction struct {
	ContainerType ContainerType   `json:"container_type" binding:"required"`
	WarehouseId   int             `json:"warehouse_id" binding:"required"`
	Qty           decimal.Decimal `json:"qty" binding:"required"`
	Buyer         string          `json:"buyer"`
	TxnDate       time.Time       `json:"txn_date" binding:"required"`
}

type FillAction struct {
	ContainerType ContainerType   `json:"container_type" binding:"required"`
	Qty           decimal.Decimal `json:"qty" binding:"required"`
	TxnDate       time.Time       `json:"txn_date" binding:"required"`
	Description   string          `json:"description"`
}

// ApplySellFilled sells qty factory-filled containers: the container bucket
// loses the units and the raw-material partition loses the converted litres.
// Rejected with InsufficiencyError before any write when the raw balance
// cannot cover the conversion.
func ApplySellFilled(ctx context.Context, action *SellFilledAction) (*ContainerTransaction, error) {
	if !action.ContainerType.Valid() {
		return nil, errors.New("invalid container type")
	}
	if action.WarehouseId <= 0 {
		return nil, errors.New("warehouse is required")
	}
	if !action.Qty.IsPositive() {
		return nil, errors.New("qty must be positive")
	}

	ratio, err := LitreRatio(action.ContainerType)
	if err != nil {
		return nil, err
	}
	litres := action.Qty.Mul(ratio)
	txnDate := utils.TruncateToDate(action.TxnDate)

	containerRow := ContainerTransaction{
		ContainerType: action.ContainerType,
		WarehouseId:   action.WarehouseId,
		TxnDate:       txnDate,
		Kind:          TxnKindSellFilled,
		Qty:           action.Qty.Neg(),
		Party:         action.Buyer,
		CorrelationId: uuid.NewString(),
	}
	rawRow := StockTransaction{
		Category:      StockCategoryRawMaterial,
		TxnDate:       txnDate,
		Kind:          TxnKindSellFilled,
		Qty:           litres.Neg(),
		Party:         action.Buyer,
		CorrelationId: containerRow.CorrelationId,
	}

	unlock := lockPartitions(ctx, containerRow.PartitionKey(), rawRow.PartitionKey())
	defer unlock()

	available, err := GetStockBalance(ctx, StockCategoryRawMaterial)
	if err != nil {
		return nil, err
	}
	if available.LessThan(litres) {
		return nil, &InsufficiencyError{Required: litres, Available: available}
	}

	if err := appendLedgerRowLocked[ContainerTransaction](ctx, &containerRow); err != nil {
		return nil, err
	}
	if err := appendLedgerRowLocked[StockTransaction](ctx, &rawRow); err != nil {
		// Undo the half-applied action so the ledgers stay paired.
		if undoErr := removeLedgerRowLocked[ContainerTransaction](ctx, &containerRow); undoErr != nil {
			config.LogError(config.GetLogger(), "cascade.go", "ApplySellFilled", "undo container row", containerRow.ID, undoErr)
		}
		return nil, err
	}
	return &containerRow, nil
}

// ApplyFill converts raw water into packed finished goods: finished goods
// gain the units, raw material loses the converted litres.
func ApplyFill(ctx context.Context, action *FillAction) (*StockTransaction, error) {
	if !action.ContainerType.Valid() {
		return nil, errors.New("invalid container type")
	}
	if !action.Qty.IsPositive() {
		return nil, errors.New("qty must be positive")
	}

	ratio, err := LitreRatio(action.ContainerType)
	if err != nil {
		return nil, err
	}
	litres := action.Qty.Mul(ratio)
	txnDate := utils.TruncateToDate(action.TxnDate)

	finishedRow := StockTransaction{
		Category:      StockCategoryFinishedGoods,
		TxnDate:       txnDate,
		Kind:          TxnKindFill,
		Qty:           action.Qty,
		Description:   action.Description,
		CorrelationId: uuid.NewString(),
	}
	rawRow := StockTransaction{
		Category:      StockCategoryRawMaterial,
		TxnDate:       txnDate,
		Kind:          TxnKindFill,
		Qty:           litres.Neg(),
		Description:   action.Description,
		CorrelationId: finishedRow.CorrelationId,
	}

	unlock := lockPartitions(ctx, finishedRow.PartitionKey(), rawRow.PartitionKey())
	defer unlock()

	available, err := GetStockBalance(ctx, StockCategoryRawMaterial)
	if err != nil {
		return nil, err
	}
	if available.LessThan(litres) {
		return nil, &InsufficiencyError{Required: litres, Available: available}
	}

	if err := appendLedgerRowLocked[StockTransaction](ctx, &finishedRow); err != nil {
		return nil, err
	}
	if err := appendLedgerRowLocked[StockTransaction](ctx, &rawRow); err != nil {
		if undoErr := removeLedgerRowLocked[StockTransaction](ctx, &finishedRow); undoErr != nil {
			config.LogError(config.GetLogger(), "cascade.go", "ApplyFill", "undo finished row", finishedRow.ID, undoErr)
		}
		return nil, err
	}
	return &finishedRow, nil
}

// ReverseDerivedAction deletes a cascade-born container row together with its
// correlated stock rows and recomputes every touched partition. Zero or
// multiple correlated matches are tolerated: older data may lack the paired
// rows, so reversal proceeds with whatever it finds and logs the ambiguity.
func ReverseDerivedAction(ctx context.Context, primary *ContainerTransaction) error {
	matches, err := findCorrelatedStockRows(ctx, primary)
	if err != nil {
		return err
	}

	keys := []string{primary.PartitionKey()}
	for _, m := range matches {
		keys = append(keys, m.PartitionKey())
	}
	unlock := lockPartitions(ctx, keys...)
	defer unlock()

	if len(matches) != 1 {
		config.GetLogger().WithFields(logrus.Fields{
			"module":        "cascade.go",
			"primaryId":     primary.ID,
			"correlationId": primary.CorrelationId,
			"matches":       len(matches),
		}).Warn("cascade reversal found an unexpected number of correlated rows; proceeding best-effort")
	}

	if err := removeLedgerRowLocked[ContainerTransaction](ctx, primary); err != nil {
		return err
	}
	for _, m := range matches {
		if err := removeLedgerRowLocked[StockTransaction](ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// ReverseStockCascade deletes a cascade-born stock row together with every
// row sharing its correlation id (the FILL pair lives entirely inside the
// stock table; a SELL_FILLED pair spans the container table too).
func ReverseStockCascade(ctx context.Context, primary *StockTransaction) error {
	if primary.CorrelationId == "" {
		return errors.New("not a cascade-born transaction")
	}
	db := config.GetDB()

	var stockRows []*StockTransaction
	if err := db.WithContext(ctx).
		Where("correlation_id = ?", primary.CorrelationId).
		Find(&stockRows).Error; err != nil {
		return err
	}
	var containerRows []*ContainerTransaction
	if err := db.WithContext(ctx).
		Where("correlation_id = ?", primary.CorrelationId).
		Find(&containerRows).Error; err != nil {
		return err
	}

	var keys []string
	for _, r := range stockRows {
		keys = append(keys, r.PartitionKey())
	}
	for _, r := range containerRows {
		keys = append(keys, r.PartitionKey())
	}
	unlock := lockPartitions(ctx, keys...)
	defer unlock()

	for _, r := range containerRows {
		if err := removeLedgerRowLocked[ContainerTransaction](ctx, r); err != nil {
			return err
		}
	}
	for _, r := range stockRows {
		if err := removeLedgerRowLocked[StockTransaction](ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// findCorrelatedStockRows locates the stock rows paired with a container row:
// by correlation id when present, otherwise by the legacy
// (date, kind, expected converted quantity) match.
func findCorrelatedStockRows(ctx context.Context, primary *ContainerTransaction) ([]*StockTransaction, error) {
	db := config.GetDB()
	var matches []*StockTransaction

	if primary.CorrelationId != "" {
		if err := db.WithContext(ctx).
			Where("correlation_id = ?", primary.CorrelationId).
			Find(&matches).Error; err != nil {
			return nil, err
		}
		return matches, nil
	}

	ratio, err := LitreRatio(primary.ContainerType)
	if err != nil {
		return nil, err
	}
	expectedQty := primary.Qty.Mul(ratio)

	if err := db.WithContext(ctx).
		Where("category = ? AND txn_date = ? AND kind = ? AND qty = ?",
			StockCategoryRawMaterial, primary.TxnDate, primary.Kind, expectedQty).
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

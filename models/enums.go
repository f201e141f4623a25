package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

type ContainerType string

const (
	ContainerTypeJar20   ContainerType = "JAR20"
	ContainerTypeJar10   ContainerType = "JAR10"
	ContainerTypeBottle1 ContainerType = "BOTTLE1"
	ContainerTypePouch   ContainerType = "POUCH"
)

// litreRatios maps each container type to the litres of raw water one filled
// unit consumes. These are fixed plant constants, not configuration.
var litreRatios = map[ContainerType]decimal.Decimal{
	ContainerTypeJar20:   decimal.NewFromInt(20),
	ContainerTypeJar10:   decimal.NewFromInt(10),
	ContainerTypeBottle1: decimal.NewFromInt(1),
	ContainerTypePouch:   decimal.RequireFromString("0.5"),
}

// LitreRatio returns the per-unit raw-water volume for a container type.
func LitreRatio(t ContainerType) (decimal.Decimal, error) {
	ratio, ok := litreRatios[t]
	if !ok {
		return decimal.Zero, errors.New("invalid container type")
	}
	return ratio, nil
}

func (t ContainerType) Valid() bool {
	_, ok := litreRatios[t]
	return ok
}

type StockCategory string

const (
	StockCategoryRawMaterial   StockCategory = "RAW_MATERIAL"
	StockCategoryFinishedGoods StockCategory = "FINISHED_GOODS"
)

func (c StockCategory) Valid() bool {
	return c == StockCategoryRawMaterial || c == StockCategoryFinishedGoods
}

type TxnKind string

const (
	TxnKindPurchase   TxnKind = "PURCHASE"
	TxnKindSale       TxnKind = "SALE"
	TxnKindReceipt    TxnKind = "RECEIPT"
	TxnKindIssue      TxnKind = "ISSUE"
	TxnKindAdjustment TxnKind = "ADJUSTMENT"
	TxnKindCredit     TxnKind = "CREDIT"
	TxnKindDebit      TxnKind = "DEBIT"
	TxnKindFill       TxnKind = "FILL"
	TxnKindSellFilled TxnKind = "SELL_FILLED"
)

// EntityKind names one tracked table for snapshot/restore bookkeeping.
type EntityKind string

const (
	EntityKindContainer EntityKind = "CONTAINER"
	EntityKindCash      EntityKind = "CASH"
	EntityKindStock     EntityKind = "STOCK"
	EntityKindProperty  EntityKind = "PROPERTY"
)

// AllEntityKinds is the snapshot sheet order. The first two are the
// foundational ledgers and are mandatory in every restore candidate.
var AllEntityKinds = []EntityKind{
	EntityKindContainer,
	EntityKindCash,
	EntityKindStock,
	EntityKindProperty,
}

type BackupOperation string

const (
	BackupOperationExport  BackupOperation = "EXPORT"
	BackupOperationRestore BackupOperation = "RESTORE"
)

type BackupKind string

const (
	BackupKindManual    BackupKind = "MANUAL"
	BackupKindAutomatic BackupKind = "AUTOMATIC"
)

type BackupStatus string

const (
	BackupStatusSuccess BackupStatus = "SUCCESS"
	BackupStatusPartial BackupStatus = "PARTIAL"
	BackupStatusFailed  BackupStatus = "FAILED"
)

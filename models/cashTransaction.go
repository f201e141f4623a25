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

const DefaultCashAccount = "CASH"

// CashTransaction is one cash-book entry. Amount is signed (credit positive,
// debit negative); Balance is the running account balance.
type CashTransaction struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Account     string          `gorm:"size:50;index;not null;default:CASH" json:"account"`
	TxnDate     time.Time       `gorm:"index;not null" json:"txn_date"`
	Kind        TxnKind         `gorm:"type:varchar(20);not null" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	Party       string          `gorm:"size:100" json:"party"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *CashTransaction) GetID() int { return t.ID }
func (t *CashTransaction) GetQty() decimal.Decimal { return t.Amount }
func (t *CashTransaction) GetBalance() decimal.Decimal { return t.Balance }

func (t *CashTransaction) PartitionKey() string {
	return "cash:" + t.Account
}

func (t *CashTransaction) PartitionScope(q *gorm.DB) *gorm.DB {
	return q.Where("account = ?", t.Account)
}

// BeforeSave keeps Kind and the amount sign consistent: the cash book is
// queried by kind, and a DEBIT row with a positive amount corrupts balances.
func (t *CashTransaction) BeforeSave(tx *gorm.DB) error {
	_ = tx
	if t == nil {
		return nil
	}
	if t.Account == "" {
		t.Account = DefaultCashAccount
	}
	if t.Amount.IsZero() {
		return nil
	}
	if t.Amount.IsNegative() {
		t.Kind = TxnKindDebit
	} else {
		t.Kind = TxnKindCredit
	}
	return nil
}

type NewCashTransaction struct {
	Account     string          `json:"account"`
	TxnDate     time.Time       `json:"txn_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Party       string          `json:"party"`
	Description string          `json:"description"`
}

func (input *NewCashTransaction) validate() error {
	if input.Amount.IsZero() {
		return errors.New("amount must be non-zero")
	}
	return nil
}

func CreateCashTransaction(ctx context.Context, input *NewCashTransaction) (*CashTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	account := input.Account
	if account == "" {
		account = DefaultCashAccount
	}
	txn := CashTransaction{
		Account:     account,
		TxnDate:     utils.TruncateToDate(input.TxnDate),
		Amount:      input.Amount,
		Party:       input.Party,
		Description: input.Description,
	}
	if err := AppendLedgerRow[CashTransaction](ctx, &txn); err != nil {
		return nil, err
	}
	return fetchCashTransaction(ctx, txn.ID)
}

func UpdateCashTransaction(ctx context.Context, id int, input *NewCashTransaction) (*CashTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	txn, err := fetchCashTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *txn
	if input.Account != "" {
		txn.Account = input.Account
	}
	txn.TxnDate = utils.TruncateToDate(input.TxnDate)
	txn.Amount = input.Amount
	txn.Party = input.Party
	txn.Description = input.Description

	if err := EditLedgerRow[CashTransaction](ctx, &before, txn); err != nil {
		return nil, err
	}
	return fetchCashTransaction(ctx, id)
}

func DeleteCashTransaction(ctx context.Context, id int) (*CashTransaction, error) {
	txn, err := fetchCashTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RemoveLedgerRow[CashTransaction](ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func fetchCashTransaction(ctx context.Context, id int) (*CashTransaction, error) {
	db := config.GetDB()
	var txn CashTransaction
	if err := db.WithContext(ctx).First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func GetCashTransaction(ctx context.Context, id int) (*CashTransaction, error) {
	return fetchCashTransaction(ctx, id)
}

type CashTransactionFilter struct {
	Account  string
	FromDate *time.Time
	ToDate   *time.Time
	Offset   int
	Limit    int
}

func ListCashTransactions(ctx context.Context, filter CashTransactionFilter) ([]*CashTransaction, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&CashTransaction{})
	if filter.Account != "" {
		q = q.Where("account = ?", filter.Account)
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

	var txns []*CashTransaction
	if err := q.Order("txn_date ASC, created_at ASC, id ASC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func GetCashBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	if account == "" {
		account = DefaultCashAccount
	}
	proto := CashTransaction{Account: account}
	return PartitionBalance[CashTransaction](ctx, &proto)
}

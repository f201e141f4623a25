package backup

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
	"github.com/shopspring/decimal"
)

// Record is one flattened snapshot row: human-readable column label to scalar
// value, everything carried as its string form so a serialize/deserialize
// round trip is value-exact.
type Record map[string]string

// Sheet is one ordered table dump inside a snapshot.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Record
}

// SnapshotDocument is a point-in-time export of every tracked table. Produced
// once, stored remotely, never mutated.
type SnapshotDocument struct {
	Sheets []Sheet
}

func (d *SnapshotDocument) Sheet(name string) *Sheet {
	for i := range d.Sheets {
		if d.Sheets[i].Name == name {
			return &d.Sheets[i]
		}
	}
	return nil
}

// SnapshotFormatError marks a candidate snapshot that cannot be restored:
// missing mandatory sheet or unreadable container format.
type SnapshotFormatError struct {
	Reason string
}

func (e *SnapshotFormatError) Error() string {
	return "snapshot format error: " + e.Reason
}

// Sheet names are part of the wire format; renaming one breaks every stored
// snapshot.
const (
	SheetContainers = "Containers"
	SheetCashBook   = "Cash Book"
	SheetStock      = "Production Stock"
	SheetProperties = "Properties"
)

type sheetSpec struct {
	Kind      models.EntityKind
	Name      string
	Mandatory bool
	Columns   []string
}

// sheetSpecs is the snapshot sheet order. The two foundational ledgers are
// mandatory: a restore candidate without them is rejected. Optional sheets
// are written only when non-empty, so their absence tells the restore side
// "this snapshot predates the feature", not "wipe the table".
var sheetSpecs = []sheetSpec{
	{
		Kind:      models.EntityKindContainer,
		Name:      SheetContainers,
		Mandatory: true,
		Columns:   []string{"Date", "Container Type", "Warehouse", "Kind", "Quantity", "Balance", "Party", "Description", "Correlation Id"},
	},
	{
		Kind:      models.EntityKindCash,
		Name:      SheetCashBook,
		Mandatory: true,
		Columns:   []string{"Date", "Account", "Kind", "Amount", "Balance", "Party", "Description"},
	},
	{
		Kind:      models.EntityKindStock,
		Name:      SheetStock,
		Mandatory: false,
		Columns:   []string{"Date", "Category", "Kind", "Quantity", "Balance", "Party", "Description", "Correlation Id"},
	},
	{
		Kind:      models.EntityKindProperty,
		Name:      SheetProperties,
		Mandatory: false,
		Columns:   []string{"Date", "Plot Name", "Party", "Amount", "Note"},
	},
}

// drainPageSize is the fixed scan window used when dumping a table. Some
// stores silently truncate unpaginated reads, so the exporter always walks in
// bounded pages until a short page signals the end.
const drainPageSize = 1000

// drainAll reads every row of a table via repeated bounded scans advancing an
// offset cursor. The workaround lives here, in one place, so the choice of
// store can change without touching the exporter.
func drainAll[T any](ctx context.Context, order string) ([]T, error) {
	db := config.GetDB()

	var all []T
	offset := 0
	for {
		var page []T
		err := db.WithContext(ctx).Model(new(T)).
			Order(order).
			Offset(offset).
			Limit(drainPageSize).
			Find(&page).Error
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < drainPageSize {
			return all, nil
		}
		offset += drainPageSize
	}
}

func containerToRecord(t *models.ContainerTransaction) Record {
	return Record{
		"Date":           t.TxnDate.Format(utils.DateLayout),
		"Container Type": string(t.ContainerType),
		"Warehouse":      strconv.Itoa(t.WarehouseId),
		"Kind":           string(t.Kind),
		"Quantity":       t.Qty.String(),
		"Balance":        t.Balance.String(),
		"Party":          t.Party,
		"Description":    t.Description,
		"Correlation Id": t.CorrelationId,
	}
}

func recordToContainer(rec Record) (*models.ContainerTransaction, error) {
	date, err := utils.ParseDate(rec["Date"])
	if err != nil {
		return nil, fmt.Errorf("unparsable date %q", rec["Date"])
	}
	warehouseId, err := strconv.Atoi(rec["Warehouse"])
	if err != nil {
		return nil, fmt.Errorf("unparsable warehouse %q", rec["Warehouse"])
	}
	qty, err := decimal.NewFromString(rec["Quantity"])
	if err != nil {
		return nil, fmt.Errorf("unparsable quantity %q", rec["Quantity"])
	}
	balance, err := decimal.NewFromString(rec["Balance"])
	if err != nil {
		return nil, fmt.Errorf("unparsable balance %q", rec["Balance"])
	}
	containerType := models.ContainerType(rec["Container Type"])
	if !containerType.Valid() {
		return nil, fmt.Errorf("unknown container type %q", rec["Container Type"])
	}
	return &models.ContainerTransaction{
		ContainerType: containerType,
		WarehouseId:   warehouseId,
		TxnDate:       date,
		Kind:          models.TxnKind(rec["Kind"]),
		Qty:           qty,
		Balance:       balance,
		Party:         rec["Party"],
		Description:   rec["Description"],
		CorrelationId: rec["Correlation Id"],
	}, nil
}

func cashToRecord(t *models.CashTransaction) Record {
	return Record{
		"Date":        t.TxnDate.Format(utils.DateLayout),
		"Account":     t.Account,
		"Kind":        string(t.Kind),
		"Amount":      t.Amount.String(),
		"Balance":     t.Balance.String(),
		"Party":       t.Party,
		"Description": t.Description,
	}
}

func recordToCash(rec Record) (*models.CashTransaction, error) {
	date, err := utils.ParseDate(rec["Date"])
	if err != nil {
		return nil, fmt.Errorf("unparsable date %q", rec["Date"])
	}
	amount, err := decimal.NewFromString(rec["Amount"])
	if err != nil {
		return nil, fmt.Errorf("unparsable amount %q", rec["Amount"])
	}
	balance, err := decimal.NewFromString(rec["Balance"])
	if err != nil {
		return nil, fmt.Errorf("unparsable balance %q", rec["Balance"])
	}
	account := rec["Account"]
	if account == "" {
		account = models.DefaultCashAccount
	}
	return &models.CashTransaction{
		Account:     account,
		TxnDate:     date,
		Kind:        models.TxnKind(rec["Kind"]),
		Amount:      amount,
		Balance:     balance,
		Party:       rec["Party"],
		Description: rec["Description"],
	}, nil
}

func stockToRecord(t *models.StockTransaction) Record {
	return Record{
		"Date":           t.TxnDate.Format(utils.DateLayout),
		"Category":       string(t.Category),
		"Kind":           string(t.Kind),
		"Quantity":       t.Qty.String(),
		"Balance":        t.Balance.String(),
		"Party":          t.Party,
		"Description":    t.Description,
		"Correlation Id": t.CorrelationId,
	}
}

func recordToStock(rec Record) (*models.StockTransaction, error) {
	date, err := utils.ParseDate(rec["Date"])
	if err != nil {
		return nil, fmt.Errorf("unparsable date %q", rec["Date"])
	}
	qty, err := decimal.NewFromString(rec["Quantity"])
	if err != nil {
		return nil, fmt.Errorf("unparsable quantity %q", rec["Quantity"])
	}
	balance, err := decimal.NewFromString(rec["Balance"])
	if err != nil {
		return nil, fmt.Errorf("unparsable balance %q", rec["Balance"])
	}
	category := models.StockCategory(rec["Category"])
	if !category.Valid() {
		return nil, fmt.Errorf("unknown stock category %q", rec["Category"])
	}
	return &models.StockTransaction{
		Category:      category,
		TxnDate:       date,
		Kind:          models.TxnKind(rec["Kind"]),
		Qty:           qty,
		Balance:       balance,
		Party:         rec["Party"],
		Description:   rec["Description"],
		CorrelationId: rec["Correlation Id"],
	}, nil
}

func propertyToRecord(p *models.Property) Record {
	return Record{
		"Date":      p.RecordDate.Format(utils.DateLayout),
		"Plot Name": p.PlotName,
		"Party":     p.Party,
		"Amount":    p.Amount.String(),
		"Note":      p.Note,
	}
}

func recordToProperty(rec Record) (*models.Property, error) {
	date, err := utils.ParseDate(rec["Date"])
	if err != nil {
		return nil, fmt.Errorf("unparsable date %q", rec["Date"])
	}
	if rec["Plot Name"] == "" {
		return nil, errors.New("missing plot name")
	}
	amount, err := decimal.NewFromString(rec["Amount"])
	if err != nil {
		return nil, fmt.Errorf("unparsable amount %q", rec["Amount"])
	}
	return &models.Property{
		RecordDate: date,
		PlotName:   rec["Plot Name"],
		Party:      rec["Party"],
		Amount:     amount,
		Note:       rec["Note"],
	}, nil
}

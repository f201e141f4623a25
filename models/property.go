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

// Property is one property-registry record (plot bookings, instalments,
// registry fees). Plain rows, no running balance.
type Property struct {
	ID         int             `gorm:"primary_key" json:"id"`
	RecordDate time.Time       `gorm:"index;not null" json:"record_date"`
	PlotName   string          `gorm:"size:100;not null" json:"plot_name"`
	Party      string          `gorm:"size:100" json:"party"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Note       string          `gorm:"size:255" json:"note"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProperty struct {
	RecordDate time.Time       `json:"record_date" binding:"required"`
	PlotName   string          `json:"plot_name" binding:"required"`
	Party      string          `json:"party"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
}

func (input *NewProperty) validate() error {
	if input.PlotName == "" {
		return errors.New("plot name is required")
	}
	return nil
}

func CreateProperty(ctx context.Context, input *NewProperty) (*Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	property := Property{
		RecordDate: utils.TruncateToDate(input.RecordDate),
		PlotName:   input.PlotName,
		Party:      input.Party,
		Amount:     input.Amount,
		Note:       input.Note,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func UpdateProperty(ctx context.Context, id int, input *NewProperty) (*Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	property, err := fetchProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(property).Updates(map[string]interface{}{
		"RecordDate": utils.TruncateToDate(input.RecordDate),
		"PlotName":   input.PlotName,
		"Party":      input.Party,
		"Amount":     input.Amount,
		"Note":       input.Note,
	}).Error
	if err != nil {
		return nil, err
	}
	return property, nil
}

func DeleteProperty(ctx context.Context, id int) (*Property, error) {
	property, err := fetchProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func fetchProperty(ctx context.Context, id int) (*Property, error) {
	db := config.GetDB()
	var property Property
	if err := db.WithContext(ctx).First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &property, nil
}

func GetProperty(ctx context.Context, id int) (*Property, error) {
	return fetchProperty(ctx, id)
}

type PropertyFilter struct {
	PlotName string
	FromDate *time.Time
	ToDate   *time.Time
	Offset   int
	Limit    int
}

func ListProperties(ctx context.Context, filter PropertyFilter) ([]*Property, error) {
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&Property{})
	if filter.PlotName != "" {
		q = q.Where("plot_name = ?", filter.PlotName)
	}
	if filter.FromDate != nil {
		q = q.Where("record_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("record_date <= ?", *filter.ToDate)
	}
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}

	var properties []*Property
	if err := q.Order("record_date ASC, id ASC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

package models

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
	"gorm.io/gorm"
)

// Settings is the singleton operator configuration row. It is never exported
// to snapshots and never wiped by restore or factory reset, so an old
// snapshot cannot lock the operator out.
type Settings struct {
	ID           int       `gorm:"primary_key" json:"id"`
	BusinessName string    `gorm:"size:100" json:"business_name"`
	PinHash      string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const settingsRowId = 1

// EnsureDefaultSettings creates the settings row on first boot. The initial
// PIN comes from SEED_PIN (default "0000") and should be changed immediately.
func EnsureDefaultSettings(ctx context.Context) error {
	db := config.GetDB()
	var existing Settings
	err := db.WithContext(ctx).First(&existing, settingsRowId).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pin := os.Getenv("SEED_PIN")
	if pin == "" {
		pin = "0000"
	}
	hash, err := utils.HashPin(pin)
	if err != nil {
		return err
	}
	settings := Settings{
		ID:           settingsRowId,
		BusinessName: os.Getenv("BUSINESS_NAME"),
		PinHash:      string(hash),
	}
	return db.WithContext(ctx).Create(&settings).Error
}

func GetSettings(ctx context.Context) (*Settings, error) {
	db := config.GetDB()
	var settings Settings
	if err := db.WithContext(ctx).First(&settings, settingsRowId).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// VerifyPin checks the operator PIN guarding destructive operations.
func VerifyPin(ctx context.Context, pin string) error {
	settings, err := GetSettings(ctx)
	if err != nil {
		return err
	}
	if err := utils.ComparePin(settings.PinHash, pin); err != nil {
		return errors.New("invalid pin")
	}
	return nil
}

func UpdatePin(ctx context.Context, oldPin string, newPin string) error {
	if len(newPin) < 4 {
		return errors.New("pin must be at least 4 digits")
	}
	if err := VerifyPin(ctx, oldPin); err != nil {
		return err
	}
	hash, err := utils.HashPin(newPin)
	if err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&Settings{ID: settingsRowId}).
		UpdateColumn("pin_hash", string(hash)).Error
}

func UpdateBusinessName(ctx context.Context, name string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&Settings{ID: settingsRowId}).
		UpdateColumn("business_name", name).Error
}

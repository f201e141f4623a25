package backup

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:backup_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	config.SetDB(db)
	if err := db.AutoMigrate(
		&models.ContainerTransaction{},
		&models.CashTransaction{},
		&models.StockTransaction{},
		&models.Property{},
		&models.BackupLog{},
		&models.Settings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

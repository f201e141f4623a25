package models

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB points the global handle at a fresh in-memory database. Each
// test gets its own named database so state never leaks between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared", n)
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
	// A single connection keeps the shared-cache in-memory database alive for
	// the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	config.SetDB(db)
	if err := db.AutoMigrate(
		&ContainerTransaction{},
		&CashTransaction{},
		&StockTransaction{},
		&Property{},
		&BackupLog{},
		&Settings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

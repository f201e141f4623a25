package models

import (
	"context"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
)

// FactoryReset wipes every tracked entity kind and prunes the audit trail to
// its newest entry. Settings survive so the operator PIN keeps working.
func FactoryReset(ctx context.Context) error {
	db := config.GetDB()

	wipe := []interface{}{
		&ContainerTransaction{},
		&CashTransaction{},
		&StockTransaction{},
		&Property{},
	}
	for _, model := range wipe {
		if err := db.WithContext(ctx).Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return PruneBackupLogs(ctx)
}

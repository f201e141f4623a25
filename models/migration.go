package models

import (
	"log"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&ContainerTransaction{},
		&CashTransaction{},
		&StockTransaction{},
		&Property{},
		&BackupLog{},
		&Settings{},
	)
	if err != nil {
		log.Fatal(err)
	}
}

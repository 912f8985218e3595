package main

import (
	"go-order-api/internal/config"
	"go-order-api/internal/model"
	"go-order-api/pkg/database"
	logx "go-order-api/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var demoCatalog = []model.Product{
	{Name: "Wireless Mouse", Price: decimal.RequireFromString("24.90"), Stock: 150},
	{Name: "Mechanical Keyboard", Price: decimal.RequireFromString("89.00"), Stock: 40},
	{Name: "USB-C Hub", Price: decimal.RequireFromString("39.50"), Stock: 75},
	{Name: "27\" Monitor", Price: decimal.RequireFromString("249.99"), Stock: 12},
	{Name: "Laptop Stand", Price: decimal.RequireFromString("31.00"), Stock: 8},
	{Name: "Webcam 1080p", Price: decimal.RequireFromString("54.25"), Stock: 0},
}

func main() {
	// 1. Load Env
	cfg, envLoaded, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})
	if !envLoaded {
		logx.Warn().Msg(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, cfg.Environment().IsProduction())
	if err != nil {
		logx.Fatal().Err(err).Msg("connect database")
	}
	if err := database.Migrate(db); err != nil {
		logx.Fatal().Err(err).Msg("migrate database")
	}

	// 3. Seed
	inserted, err := seedCatalog(db)
	if err != nil {
		logx.Fatal().Err(err).Msg("seed catalog")
	}
	if inserted == 0 {
		logx.Info().Msg("products table not empty, nothing to seed")
		return
	}
	logx.Info().Int("products", inserted).Msg("demo catalog seeded")
}

// seedCatalog inserts the demo catalog unless products already exist.
func seedCatalog(db *gorm.DB) (int, error) {
	inserted := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		products := make([]model.Product, len(demoCatalog))
		copy(products, demoCatalog)
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		inserted = len(products)
		return nil
	})
	return inserted, err
}

package database

import (
	"fmt"

	"go-order-api/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the products, orders and order_lines tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Product{}, &model.Order{}, &model.OrderLine{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

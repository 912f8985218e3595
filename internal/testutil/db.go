// Package testutil provides an in-memory SQLite database with the production schema for tests.
package testutil

import (
	"fmt"
	"testing"

	"go-order-api/internal/model"
	"go-order-api/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory database with foreign keys enforced and runs the migrations.
// The pool holds a single connection, so code under test must use the transaction handle
// it was given while a transaction is open.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SeedProduct inserts a product and returns it.
func SeedProduct(t testing.TB, db *gorm.DB, name, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedOrder inserts an order holding the given productID -> quantity lines.
// Stock is not touched.
func SeedOrder(t testing.TB, db *gorm.DB, lines map[uint]int) *model.Order {
	t.Helper()
	o := &model.Order{}
	require.NoError(t, db.Omit("Lines").Create(o).Error)
	for productID, qty := range lines {
		line := &model.OrderLine{OrderID: o.ID, ProductID: productID, Quantity: qty}
		require.NoError(t, db.Omit("Product").Create(line).Error)
	}
	return o
}

// Stock reads a product's current stock.
func Stock(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.Stock
}

// Lines reads an order's lines keyed by product id.
func Lines(t testing.TB, db *gorm.DB, orderID uint) map[uint]int {
	t.Helper()
	var lines []model.OrderLine
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&lines).Error)
	out := make(map[uint]int, len(lines))
	for _, l := range lines {
		out[l.ProductID] = l.Quantity
	}
	return out
}

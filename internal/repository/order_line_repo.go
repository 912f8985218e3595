package repository

import (
	"go-order-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderLineRepository interface {
	WithTx(tx *gorm.DB) OrderLineRepository
	ListForOrder(orderID uint) ([]model.OrderLine, error)
	Upsert(line *model.OrderLine) error
	Remove(orderID, productID uint) error
	CountForProduct(productID uint) (int64, error)
}

type orderLineRepo struct {
	db *gorm.DB
}

func NewOrderLineRepo(db *gorm.DB) OrderLineRepository {
	return &orderLineRepo{db}
}

func (r *orderLineRepo) WithTx(tx *gorm.DB) OrderLineRepository {
	return &orderLineRepo{tx}
}

func (r *orderLineRepo) ListForOrder(orderID uint) ([]model.OrderLine, error) {
	var lines []model.OrderLine
	err := r.db.Where("order_id = ?", orderID).Order("product_id ASC").Find(&lines).Error
	return lines, err
}

// Upsert inserts the line or, when (order_id, product_id) already exists, overwrites its quantity.
func (r *orderLineRepo) Upsert(line *model.OrderLine) error {
	return r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(line).Error
}

func (r *orderLineRepo) Remove(orderID, productID uint) error {
	res := r.db.Where("order_id = ? AND product_id = ?", orderID, productID).Delete(&model.OrderLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderLineRepo) CountForProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.OrderLine{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

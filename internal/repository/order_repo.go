package repository

import (
	"go-order-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(order *model.Order) error
	FindAll() ([]model.Order, error)
	FindByID(id uint) (*model.Order, error)
	LockByID(id uint) (*model.Order, error)
	Delete(id uint) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepo{tx}
}

func (r *orderRepo) Create(order *model.Order) error {
	return r.db.Omit(clause.Associations).Create(order).Error
}

// withLines preloads lines (ordered by product) and the product each line points to.
func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_id ASC")
		}).
		Preload("Lines.Product")
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	if err := withLines(r.db).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].EnsureLines()
	}
	return orders, nil
}

func (r *orderRepo) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := withLines(r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	order.EnsureLines()
	return &order, nil
}

// LockByID loads the bare order row with SELECT ... FOR UPDATE. Lines are not loaded.
func (r *orderRepo) LockByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// Delete removes the order's lines and then the order itself.
// Run it inside a transaction so both go or neither does.
func (r *orderRepo) Delete(id uint) error {
	if err := r.db.Where("order_id = ?", id).Delete(&model.OrderLine{}).Error; err != nil {
		return err
	}
	res := r.db.Delete(&model.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

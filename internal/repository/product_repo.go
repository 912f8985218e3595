package repository

import (
	"go-order-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	LockByIDs(ids []uint) (map[uint]*model.Product, error)
	Update(product *model.Product) error
	UpdateStock(id uint, newStock int) error
	Delete(id uint) error
	Stats(lowStockThreshold int) (*CatalogStats, error)
}

// CatalogStats untuk overview stats
type CatalogStats struct {
	TotalProducts  int64           `json:"totalProducts"`
	LowStockCount  int64           `json:"lowStockCount"`
	TotalStock     int64           `json:"totalStock"`
	TotalValuation decimal.Decimal `json:"totalValuation"`
	TotalOrders    int64           `json:"totalOrders"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx returns a repository bound to tx so its writes join the caller's transaction.
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// LockByIDs loads the given products with SELECT ... FOR UPDATE.
// Rows are locked in ascending id order; ids that do not exist are absent from the map.
func (r *productRepo) LockByIDs(ids []uint) (map[uint]*model.Product, error) {
	locked := make(map[uint]*model.Product, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}

	var products []model.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	for i := range products {
		locked[products[i].ID] = &products[i]
	}
	return locked, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// UpdateStock writes an absolute stock value. Callers hold the row lock.
func (r *productRepo) UpdateStock(id uint, newStock int) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", newStock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(id uint) error {
	res := r.db.Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Stats(lowStockThreshold int) (*CatalogStats, error) {
	var stats CatalogStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	// Low Stock Count (stock < threshold)
	if err := r.db.Model(&model.Product{}).Where("stock < ?", lowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	row := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock), 0), COALESCE(SUM(stock * price), 0)").
		Row()
	if err := row.Scan(&stats.TotalStock, &stats.TotalValuation); err != nil {
		return nil, err
	}
	stats.TotalValuation = stats.TotalValuation.Round(2)

	if err := r.db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

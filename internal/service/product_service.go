package service

import (
	"context"
	"errors"

	"go-order-api/internal/errx"
	"go-order-api/internal/event"
	"go-order-api/internal/model"
	"go-order-api/internal/repository"
	"go-order-api/pkg/validator"

	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, in model.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	lineRepo    repository.OrderLineRepository
	db          *gorm.DB
	notifier    event.Notifier
}

func NewProductService(pRepo repository.ProductRepository, lRepo repository.OrderLineRepository, db *gorm.DB, notifier event.Notifier) ProductService {
	if notifier == nil {
		notifier = event.Nop
	}
	return &productService{
		productRepo: pRepo,
		lineRepo:    lRepo,
		db:          db,
		notifier:    notifier,
	}
}

func validateProduct(in *model.ProductInput) error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return errx.Validation("%s", errs[0].String())
	}
	// price column is numeric(12,2)
	if !in.Price.Equal(in.Price.Round(2)) {
		return errx.Validation("price %s has more than 2 decimal places", in.Price.String())
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	// 1. Validasi Struct Dasar
	if err := validateProduct(&in); err != nil {
		return nil, err
	}

	// 2. Simpan ke Database
	var product model.Product
	in.Apply(&product)
	if err := s.productRepo.WithTx(s.db.WithContext(ctx)).Create(&product); err != nil {
		return nil, errx.Internal(err, "create product")
	}

	// 3. Broadcast ke subscribers
	s.notifier.Notify(ctx, model.NewStockEvent(model.ActionProductCreated, &product, 0, 0))
	return &product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, in model.ProductInput) (*model.Product, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}

	var (
		updated  *model.Product
		oldStock int
	)

	// Gunakan Transaction Block dengan Locking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		// 1. Cari & Lock Product (Pessimistic Locking)
		locked, err := products.LockByIDs([]uint{id})
		if err != nil {
			return errx.Internal(err, "lock product")
		}
		existing, ok := locked[id]
		if !ok {
			return errx.NotFound("product %d not found", id)
		}

		oldStock = existing.Stock
		in.Apply(existing)

		if err := products.Update(existing); err != nil {
			return errx.Internal(err, "update product")
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Broadcast only after commit so a rollback never reaches subscribers
	s.notifier.Notify(ctx, model.NewStockEvent(model.ActionProductUpdated, updated, oldStock, 0))
	return updated, nil
}

// DeleteProduct refuses to delete a product that any order line still references.
func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		locked, err := products.LockByIDs([]uint{id})
		if err != nil {
			return errx.Internal(err, "lock product")
		}
		if _, ok := locked[id]; !ok {
			return errx.NotFound("product %d not found", id)
		}

		refs, err := s.lineRepo.WithTx(tx).CountForProduct(id)
		if err != nil {
			return errx.Internal(err, "count order lines")
		}
		if refs > 0 {
			return errx.Conflict("product %d is referenced by %d order line(s)", id, refs)
		}

		if err := products.Delete(id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errx.NotFound("product %d not found", id)
			}
			return errx.Internal(err, "delete product")
		}
		return nil
	})
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, errx.Internal(err, "list products")
	}
	return products, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errx.NotFound("product %d not found", id)
	}
	if err != nil {
		return nil, errx.Internal(err, "find product")
	}
	return product, nil
}

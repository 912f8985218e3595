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

type OrderService interface {
	CreateOrder(ctx context.Context) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	GetAllOrders() ([]model.Order, error)
	GetOrder(id uint) (*model.Order, error)
	AddProduct(ctx context.Context, req model.AddProductRequest) (*model.OrderLine, error)
	Reconcile(ctx context.Context, orderID uint, target []model.LineRequest) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	lineRepo    repository.OrderLineRepository
	db          *gorm.DB
	notifier    event.Notifier
}

func NewOrderService(oRepo repository.OrderRepository, pRepo repository.ProductRepository, lRepo repository.OrderLineRepository, db *gorm.DB, notifier event.Notifier) OrderService {
	if notifier == nil {
		notifier = event.Nop
	}
	return &orderService{
		orderRepo:   oRepo,
		productRepo: pRepo,
		lineRepo:    lRepo,
		db:          db,
		notifier:    notifier,
	}
}

func (s *orderService) CreateOrder(ctx context.Context) (*model.Order, error) {
	order := model.Order{Lines: []model.OrderLine{}}
	if err := s.orderRepo.WithTx(s.db.WithContext(ctx)).Create(&order); err != nil {
		return nil, errx.Internal(err, "create order")
	}
	return &order, nil
}

// DeleteOrder removes the order and its lines. Product stock is left as it is.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.orderRepo.WithTx(tx).Delete(id)
		if errors.Is(err, repository.ErrNotFound) {
			return errx.NotFound("order %d not found", id)
		}
		if err != nil {
			return errx.Internal(err, "delete order")
		}
		return nil
	})
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, errx.Internal(err, "list orders")
	}
	return orders, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errx.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, errx.Internal(err, "find order")
	}
	return order, nil
}

// AddProduct adds quantity units of one product to an order, creating the line or
// growing the existing one, and takes the units out of stock.
func (s *orderService) AddProduct(ctx context.Context, req model.AddProductRequest) (*model.OrderLine, error) {
	if req.Quantity <= 0 {
		return nil, errx.Validation("quantity must be greater than zero")
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, errx.Validation("%s", errs[0].String())
	}

	var (
		line     model.OrderLine
		product  *model.Product
		oldStock int
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)
		lines := s.lineRepo.WithTx(tx)

		// Lock order first, then product, the same order Reconcile uses
		_, orderErr := orders.LockByID(req.OrderID)
		if orderErr != nil && !errors.Is(orderErr, repository.ErrNotFound) {
			return errx.Internal(orderErr, "lock order")
		}

		locked, err := products.LockByIDs([]uint{req.ProductID})
		if err != nil {
			return errx.Internal(err, "lock product")
		}
		p, ok := locked[req.ProductID]
		if !ok {
			return errx.NotFound("product %d not found", req.ProductID)
		}
		if p.Stock < req.Quantity {
			return errx.InsufficientStock(p.ID, req.Quantity, p.Stock, true)
		}
		if orderErr != nil {
			return errx.NotFound("order %d not found", req.OrderID)
		}

		existing, err := lines.ListForOrder(req.OrderID)
		if err != nil {
			return errx.Internal(err, "list order lines")
		}
		line = model.OrderLine{OrderID: req.OrderID, ProductID: req.ProductID, Quantity: req.Quantity}
		for _, l := range existing {
			if l.ProductID == req.ProductID {
				line.Quantity += l.Quantity
			}
		}

		oldStock = p.Stock
		p.Stock -= req.Quantity
		if err := products.UpdateStock(p.ID, p.Stock); err != nil {
			return errx.Internal(err, "update stock")
		}
		if err := lines.Upsert(&line); err != nil {
			return errx.Internal(err, "upsert order line")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, model.NewStockEvent(model.ActionOrderLineAdded, product, oldStock, req.OrderID))
	line.Product = product
	return &line, nil
}

// Reconcile replaces the order's lines with target and moves the quantity differences
// in or out of product stock. Everything happens in one transaction holding row locks on
// the order and on every product involved, taken in ascending id order; on any failure
// nothing is written.
func (s *orderService) Reconcile(ctx context.Context, orderID uint, target []model.LineRequest) (*model.Order, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	var events []model.StockEvent

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)
		lines := s.lineRepo.WithTx(tx)

		if _, err := orders.LockByID(orderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errx.NotFound("order %d not found", orderID)
			}
			return errx.Internal(err, "lock order")
		}

		existing, err := lines.ListForOrder(orderID)
		if err != nil {
			return errx.Internal(err, "list order lines")
		}

		locked, err := products.LockByIDs(targetProductIDs(existing, target))
		if err != nil {
			return errx.Internal(err, "lock products")
		}

		plan, err := planReconcile(orderID, existing, locked, target)
		if err != nil {
			return err
		}

		for _, l := range plan.Removed {
			if err := lines.Remove(l.OrderID, l.ProductID); err != nil {
				return errx.Internal(err, "remove order line")
			}
		}
		for i := range plan.Upserts {
			if err := lines.Upsert(&plan.Upserts[i]); err != nil {
				return errx.Internal(err, "upsert order line")
			}
		}
		for _, id := range plan.changedProducts() {
			p := locked[id]
			oldStock := p.Stock
			p.Stock = plan.Stock[id]
			if err := products.UpdateStock(id, p.Stock); err != nil {
				return errx.Internal(err, "update stock")
			}
			events = append(events, model.NewStockEvent(model.ActionOrderReconcile, p, oldStock, orderID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, events...)
	return s.GetOrder(orderID)
}

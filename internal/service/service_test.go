package service

import (
	"context"
	"sync"
	"testing"

	"go-order-api/internal/model"
	"go-order-api/internal/repository"
	"go-order-api/internal/testutil"

	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.StockEvent
}

func (r *recordingNotifier) Notify(_ context.Context, events ...model.StockEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recordingNotifier) all() []model.StockEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.StockEvent(nil), r.events...)
}

type fixture struct {
	db       *gorm.DB
	orders   OrderService
	products ProductService
	stats    DashboardService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	lineRepo := repository.NewOrderLineRepo(db)
	n := &recordingNotifier{}
	return &fixture{
		db:       db,
		orders:   NewOrderService(orderRepo, productRepo, lineRepo, db, n),
		products: NewProductService(productRepo, lineRepo, db, n),
		stats:    NewDashboardService(productRepo, 10),
		notifier: n,
	}
}

package service

import (
	"context"
	"testing"

	"go-order-api/internal/errx"
	"go-order-api/internal/model"
	"go-order-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderThenGetHasNoLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.orders.GetOrder(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, got.Lines)
}

func TestGetOrderNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.GetOrder(404)
	assert.Equal(t, errx.KindNotFound, errx.KindOf(err))
}

func TestReconcileLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Keyboard", "49.90", 10)

	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)

	// [{P1,5}] with stock 10 -> stock 5, one line
	got, err := f.orders.Reconcile(ctx, order.ID, []model.LineRequest{{ProductID: p1.ID, Quantity: 5}})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, p1.ID, got.Lines[0].ProductID)
	assert.Equal(t, 5, got.Lines[0].Quantity)
	require.NotNil(t, got.Lines[0].Product)
	assert.Equal(t, "Keyboard", got.Lines[0].Product.Name)
	assert.Equal(t, 5, testutil.Stock(t, f.db, p1.ID))

	// [{P1,2}] returns 3 units
	_, err = f.orders.Reconcile(ctx, order.ID, []model.LineRequest{{ProductID: p1.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 8, testutil.Stock(t, f.db, p1.ID))
	assert.Equal(t, map[uint]int{p1.ID: 2}, testutil.Lines(t, f.db, order.ID))

	// [] clears the order and restores stock
	got, err = f.orders.Reconcile(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.Equal(t, 10, testutil.Stock(t, f.db, p1.ID))
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Mouse", "19.00", 6)
	p2 := testutil.SeedProduct(t, f.db, "Pad", "5.00", 4)
	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)

	target := []model.LineRequest{{ProductID: p1.ID, Quantity: 2}, {ProductID: p2.ID, Quantity: 1}}
	_, err = f.orders.Reconcile(ctx, order.ID, target)
	require.NoError(t, err)
	eventsAfterFirst := len(f.notifier.all())

	_, err = f.orders.Reconcile(ctx, order.ID, target)
	require.NoError(t, err)

	assert.Equal(t, 4, testutil.Stock(t, f.db, p1.ID))
	assert.Equal(t, 3, testutil.Stock(t, f.db, p2.ID))
	assert.Len(t, f.notifier.all(), eventsAfterFirst, "second call must not change any stock")
}

func TestReconcileInsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Monitor", "199.00", 10)
	p2 := testutil.SeedProduct(t, f.db, "Cable", "3.50", 2)
	p3 := testutil.SeedProduct(t, f.db, "Stand", "25.00", 5)

	order := testutil.SeedOrder(t, f.db, map[uint]int{p1.ID: 3, p3.ID: 1})

	// p1 shrinks and p3 is dropped, both succeed in the plan; p2 fails
	_, err := f.orders.Reconcile(ctx, order.ID, []model.LineRequest{
		{ProductID: p1.ID, Quantity: 1},
		{ProductID: p2.ID, Quantity: 3},
	})
	require.Error(t, err)

	appErr := errx.From(err)
	assert.Equal(t, errx.KindInsufficientStock, appErr.Kind)
	assert.Equal(t, p2.ID, appErr.ProductID)
	assert.Contains(t, appErr.Message, "requested 3, available 2")

	assert.Equal(t, 10, testutil.Stock(t, f.db, p1.ID))
	assert.Equal(t, 2, testutil.Stock(t, f.db, p2.ID))
	assert.Equal(t, 5, testutil.Stock(t, f.db, p3.ID))
	assert.Equal(t, map[uint]int{p1.ID: 3, p3.ID: 1}, testutil.Lines(t, f.db, order.ID))
	assert.Empty(t, f.notifier.all())
}

func TestReconcileUnknownProductIsInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)

	_, err = f.orders.Reconcile(ctx, order.ID, []model.LineRequest{{ProductID: 77, Quantity: 1}})
	appErr := errx.From(err)
	assert.Equal(t, errx.KindInsufficientStock, appErr.Kind)
	assert.Equal(t, uint(77), appErr.ProductID)
}

func TestReconcileMissingOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Reconcile(context.Background(), 999, nil)
	assert.Equal(t, errx.KindNotFound, errx.KindOf(err))
}

func TestReconcileRejectsInvalidTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Chair", "80.00", 3)
	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)

	_, err = f.orders.Reconcile(ctx, order.ID, []model.LineRequest{{ProductID: p1.ID, Quantity: 0}})
	assert.Equal(t, errx.KindValidation, errx.KindOf(err))

	_, err = f.orders.Reconcile(ctx, order.ID, []model.LineRequest{
		{ProductID: p1.ID, Quantity: 1},
		{ProductID: p1.ID, Quantity: 1},
	})
	assert.Equal(t, errx.KindValidation, errx.KindOf(err))
	assert.Equal(t, 3, testutil.Stock(t, f.db, p1.ID))
}

func TestReconcileEmitsEventsPerChangedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Desk", "300.00", 4)
	p2 := testutil.SeedProduct(t, f.db, "Lamp", "20.00", 9)
	order := testutil.SeedOrder(t, f.db, map[uint]int{p1.ID: 2})

	_, err := f.orders.Reconcile(ctx, order.ID, []model.LineRequest{{ProductID: p2.ID, Quantity: 4}})
	require.NoError(t, err)

	events := f.notifier.all()
	require.Len(t, events, 2)
	assert.Equal(t, p1.ID, events[0].ProductID)
	assert.Equal(t, 4, events[0].OldStock)
	assert.Equal(t, 6, events[0].NewStock)
	assert.Equal(t, p2.ID, events[1].ProductID)
	assert.Equal(t, 9, events[1].OldStock)
	assert.Equal(t, 5, events[1].NewStock)
	for _, e := range events {
		assert.Equal(t, model.ActionOrderReconcile, e.Action)
		assert.Equal(t, order.ID, e.OrderID)
	}
}

func TestDeleteOrderKeepsProductStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Bottle", "9.99", 10)
	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)
	_, err = f.orders.Reconcile(ctx, order.ID, []model.LineRequest{{ProductID: p1.ID, Quantity: 4}})
	require.NoError(t, err)

	require.NoError(t, f.orders.DeleteOrder(ctx, order.ID))

	assert.Empty(t, testutil.Lines(t, f.db, order.ID))
	assert.Equal(t, 6, testutil.Stock(t, f.db, p1.ID))
	_, err = f.orders.GetOrder(order.ID)
	assert.Equal(t, errx.KindNotFound, errx.KindOf(err))

	err = f.orders.DeleteOrder(ctx, order.ID)
	assert.Equal(t, errx.KindNotFound, errx.KindOf(err))
}

func TestAddProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Pen", "1.20", 10)
	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)

	line, err := f.orders.AddProduct(ctx, model.AddProductRequest{OrderID: order.ID, ProductID: p1.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 7, testutil.Stock(t, f.db, p1.ID))

	// second call grows the same line
	line, err = f.orders.AddProduct(ctx, model.AddProductRequest{OrderID: order.ID, ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 5, line.Product.Stock)
	assert.Equal(t, map[uint]int{p1.ID: 5}, testutil.Lines(t, f.db, order.ID))

	events := f.notifier.all()
	require.Len(t, events, 2)
	assert.Equal(t, model.ActionOrderLineAdded, events[1].Action)
	assert.Equal(t, 7, events[1].OldStock)
	assert.Equal(t, 5, events[1].NewStock)
}

func TestAddProductFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := testutil.SeedProduct(t, f.db, "Ink", "4.00", 2)
	order, err := f.orders.CreateOrder(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  model.AddProductRequest
		kind errx.Kind
	}{
		{"zero quantity", model.AddProductRequest{OrderID: order.ID, ProductID: p1.ID, Quantity: 0}, errx.KindValidation},
		{"negative quantity", model.AddProductRequest{OrderID: order.ID, ProductID: p1.ID, Quantity: -1}, errx.KindValidation},
		{"missing product", model.AddProductRequest{OrderID: order.ID, ProductID: 500, Quantity: 1}, errx.KindNotFound},
		{"missing order", model.AddProductRequest{OrderID: 500, ProductID: p1.ID, Quantity: 1}, errx.KindNotFound},
		{"insufficient stock", model.AddProductRequest{OrderID: order.ID, ProductID: p1.ID, Quantity: 3}, errx.KindInsufficientStock},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.AddProduct(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, errx.KindOf(err))
		})
	}

	assert.Equal(t, 2, testutil.Stock(t, f.db, p1.ID))
	assert.Empty(t, testutil.Lines(t, f.db, order.ID))
}

func TestGetAllOrdersPreloadsLines(t *testing.T) {
	f := newFixture(t)
	p1 := testutil.SeedProduct(t, f.db, "Cup", "2.00", 5)
	testutil.SeedOrder(t, f.db, map[uint]int{p1.ID: 1})
	testutil.SeedOrder(t, f.db, nil)

	orders, err := f.orders.GetAllOrders()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, "Cup", orders[0].Lines[0].Product.Name)
	assert.Empty(t, orders[1].Lines)
}

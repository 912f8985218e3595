package model

import (
	"time"

	"github.com/google/uuid"
)

type StockAction string

const (
	ActionProductCreated StockAction = "product_created"
	ActionProductUpdated StockAction = "product_updated"
	ActionOrderLineAdded StockAction = "order_line_added"
	ActionOrderReconcile StockAction = "order_reconciled"
)

// StockEvent describes one committed change of a product's stock counter
type StockEvent struct {
	EventID   uuid.UUID   `json:"eventId"`
	Type      string      `json:"type"`
	Action    StockAction `json:"action"`
	ProductID uint        `json:"productId"`
	Name      string      `json:"name"`
	OldStock  int         `json:"oldStock"`
	NewStock  int         `json:"newStock"`
	OrderID   uint        `json:"orderId,omitempty"`
	At        time.Time   `json:"at"`
}

// NewStockEvent stamps a fresh event id and timestamp.
func NewStockEvent(action StockAction, p *Product, oldStock int, orderID uint) StockEvent {
	return StockEvent{
		EventID:   uuid.New(),
		Type:      "stock_update",
		Action:    action,
		ProductID: p.ID,
		Name:      p.Name,
		OldStock:  oldStock,
		NewStock:  p.Stock,
		OrderID:   orderID,
		At:        time.Now().UTC(),
	}
}

// Package event delivers committed stock changes to interested subscribers.
package event

import (
	"context"

	"go-order-api/internal/model"
)

// Notifier receives stock events after the transaction that produced them committed.
// Implementations must not block the caller for long and must swallow their own errors.
type Notifier interface {
	Notify(ctx context.Context, events ...model.StockEvent)
}

// Fanout sends every event to each notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, events ...model.StockEvent) {
	if len(events) == 0 {
		return
	}
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, events...)
		}
	}
}

type nop struct{}

func (nop) Notify(context.Context, ...model.StockEvent) {}

// Nop discards every event.
var Nop Notifier = nop{}

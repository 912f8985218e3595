package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-order-api/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu     sync.Mutex
	events []model.StockEvent
}

func (r *recorder) Notify(_ context.Context, events ...model.StockEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func TestFanoutDeliversToEveryNotifier(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := Fanout{a, nil, Nop, b}

	p := &model.Product{Name: "Lamp", Stock: 4}
	p.ID = 2
	f.Notify(context.Background(), model.NewStockEvent(model.ActionProductUpdated, p, 9, 0))

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Equal(t, 9, a.events[0].OldStock)
	assert.Equal(t, 4, b.events[0].NewStock)
}

func TestFanoutSkipsEmptyBatches(t *testing.T) {
	a := &recorder{}
	Fanout{a}.Notify(context.Background())
	assert.Empty(t, a.events)
}

func TestRedisPublisherSwallowsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	pub := NewRedisPublisher(client, "stock-events")
	p := &model.Product{Name: "Lamp", Stock: 1}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NotPanics(t, func() {
		pub.Notify(ctx, model.NewStockEvent(model.ActionProductCreated, p, 0, 0))
	})
}

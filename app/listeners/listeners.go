// Package listeners subscribes side effects to the order lifecycle events
// fired by services.OrderService.
package listeners

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/app/services"
	"github.com/shashiranjanraj/orderdesk/pkg/event"
	"github.com/shashiranjanraj/orderdesk/pkg/eventbus"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

var orderEvents = []string{
	services.EventOrderCreated,
	services.EventOrderStatusChanged,
	services.EventOrderDeleted,
	services.EventStockRejected,
}

// Line is one order line as carried in outbound messages.
type Line struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// OrderMessage is the feed and broker representation of an event.
type OrderMessage struct {
	Type           string `json:"type"`
	OrderID        uint   `json:"order_id,omitempty"`
	UserID         uint   `json:"user_id"`
	Status         string `json:"status,omitempty"`
	PreviousStatus string `json:"previous_status,omitempty"`
	TotalAmount    string `json:"total_amount,omitempty"`
	Items          []Line `json:"items,omitempty"`

	ProductID uint `json:"product_id,omitempty"`
	Available *int `json:"available,omitempty"`
	Requested *int `json:"requested,omitempty"`
}

// Message converts an event payload to an OrderMessage. It reports false
// for payloads it does not know.
func Message(name string, payload interface{}) (OrderMessage, bool) {
	switch p := payload.(type) {
	case services.OrderCreated:
		return fromOrder(name, p.Order, ""), p.Order != nil
	case services.OrderStatusChanged:
		return fromOrder(name, p.Order, p.Previous), p.Order != nil
	case services.OrderDeleted:
		return fromOrder(name, p.Order, ""), p.Order != nil
	case services.StockRejected:
		if p.Err == nil {
			return OrderMessage{}, false
		}
		available, requested := p.Err.Available, p.Err.Requested
		return OrderMessage{
			Type:      name,
			UserID:    p.UserID,
			ProductID: p.Err.ProductID,
			Available: &available,
			Requested: &requested,
		}, true
	}
	return OrderMessage{}, false
}

func fromOrder(name string, o *models.Order, previous string) OrderMessage {
	if o == nil {
		return OrderMessage{}
	}
	msg := OrderMessage{
		Type:           name,
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		PreviousStatus: previous,
		TotalAmount:    models.FormatMoney(o.TotalAmount),
	}
	for _, it := range o.Items {
		msg.Items = append(msg.Items, Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: models.FormatMoney(it.UnitPrice),
			Subtotal:  models.FormatMoney(it.Subtotal),
		})
	}
	return msg
}

// RegisterMetrics counts every event, stock rejections and created order
// totals.
func RegisterMetrics(d *event.Dispatcher) {
	for _, name := range orderEvents {
		name := name
		d.Listen(name, func(_ context.Context, payload interface{}) {
			metrics.OrderEvents.WithLabelValues(name).Inc()
			switch p := payload.(type) {
			case services.StockRejected:
				metrics.StockRejections.Inc()
			case services.OrderCreated:
				if p.Order != nil {
					total, _ := p.Order.TotalAmount.Float64()
					metrics.OrderValue.Observe(total)
				}
			}
		})
	}
}

// RegisterLog writes one debug line per event.
func RegisterLog(d *event.Dispatcher) {
	for _, name := range orderEvents {
		name := name
		d.Listen(name, func(ctx context.Context, payload interface{}) {
			msg, ok := Message(name, payload)
			if !ok {
				return
			}
			logger.WithCtx(ctx).Debug("event dispatched",
				"event", name,
				"order_id", msg.OrderID,
				"user_id", msg.UserID,
			)
		})
	}
}

// Broadcaster pushes a JSON value to live subscribers.
type Broadcaster interface {
	Publish(v interface{}) error
}

// RegisterBroadcast forwards order changes to the websocket feed. Stock
// rejections stay private to the requester and are not broadcast.
func RegisterBroadcast(d *event.Dispatcher, b Broadcaster) {
	for _, name := range orderEvents[:3] {
		name := name
		d.Listen(name, func(ctx context.Context, payload interface{}) {
			msg, ok := Message(name, payload)
			if !ok {
				return
			}
			msg.Items = nil
			if err := b.Publish(msg); err != nil {
				logger.WithCtx(ctx).Warn("ws: broadcast failed", "event", name, "error", err)
			}
		})
	}
}

// Broker publishes events to the message broker off the request path.
type Broker struct {
	pub     eventbus.Publisher
	timeout time.Duration
	wg      sync.WaitGroup
}

// RegisterBroker subscribes pub to every order event. Call Wait on
// shutdown to flush in-flight publishes.
func RegisterBroker(d *event.Dispatcher, pub eventbus.Publisher) *Broker {
	b := &Broker{pub: pub, timeout: 10 * time.Second}
	for _, name := range orderEvents {
		name := name
		d.Listen(name, func(ctx context.Context, payload interface{}) {
			msg, ok := Message(name, payload)
			if !ok {
				return
			}
			b.publish(context.WithoutCancel(ctx), name, msg)
		})
	}
	return b
}

func (b *Broker) publish(ctx context.Context, name string, msg OrderMessage) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()
		if err := b.pub.Publish(ctx, name, msg); err != nil {
			logger.WithCtx(ctx).Error("eventbus: publish failed", "event", name, "order_id", msg.OrderID, "error", err)
		}
	}()
}

// Wait blocks until every started publish has finished.
func (b *Broker) Wait() { b.wg.Wait() }

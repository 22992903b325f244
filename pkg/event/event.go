// Package event is a small in-process event dispatcher. Listeners are
// registered by name and invoked in registration order.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// Handler receives an event payload. The context is the one the event was
// fired with; handlers that outlive the call must detach from it.
type Handler func(ctx context.Context, payload interface{})

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// Fire dispatches an event synchronously. A panicking listener is logged and
// skipped so the remaining listeners still run. A nil Dispatcher drops the
// event.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload interface{}) {
	if d == nil {
		return
	}
	for _, h := range d.listeners(event) {
		d.call(ctx, event, h, payload)
	}
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	return hs
}

func (d *Dispatcher) call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", r)
		}
	}()
	h(ctx, payload)
}

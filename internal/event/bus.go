package event

import (
	"context"
	"sync"

	"github.com/smallbiznis/northstar/pkg/log/ctxlogger"
	"go.uber.org/zap"
)

// Handler consumes one event. Returning an error only logs it; the
// publisher's transaction is already committed by the time handlers run.
type Handler func(ctx context.Context, e Event) error

// Publisher is the narrow interface services hold.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus dispatches events synchronously to subscribers in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *zap.Logger
}

// NewBus builds an empty bus.
func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log.Named("event.bus"),
	}
}

// Subscribe registers a handler for the named event. Handlers for one name
// run in the order they were registered.
func (b *Bus) Subscribe(name string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], h)
	b.mu.Unlock()
}

// Publish delivers e to every subscriber of its name. Subscriber errors are
// logged and swallowed; with no subscribers the event is dropped.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e == nil {
		return
	}

	b.mu.RLock()
	handlers := b.handlers[e.Name()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	ctx = ctxlogger.ContextWithEventName(ctx, e.Name())
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			b.log.Warn("event subscriber failed",
				zap.String("event", e.Name()),
				zap.Error(err),
			)
		}
	}
}

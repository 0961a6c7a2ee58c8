// Package push models the alert delivery channel as a cancellable
// subscription, keeping the transport detail (WebSocket stream or
// alerts mailbox) decoupled from the notification log it feeds.
package push

import (
	"sync"

	"github.com/google/uuid"
)

// Notification is the visible part of a push message.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Message is a single foreground-delivered push payload.
type Message struct {
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data"`
}

// Handler consumes delivered messages in arrival order.
type Handler func(Message)

// Unsubscribe cancels a subscription. After it returns, the handler
// receives no further messages. It is safe to call more than once.
type Unsubscribe func()

// Subscriber is the contract every push transport implements.
type Subscriber interface {
	Subscribe(h Handler) (Unsubscribe, error)
}

// Dispatcher fans incoming messages out to registered handlers. The
// zero value is ready to use. Transports use the onFirst/onLast hooks
// of Add to start their delivery loop when the first handler registers
// and tear it down when the last one leaves.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[uuid.UUID]Handler
}

// Add registers a handler and returns its removal func. onFirst runs
// when this registration is the first live one, onLast when its removal
// leaves none. Either hook may be nil.
func (d *Dispatcher) Add(h Handler, onFirst, onLast func()) Unsubscribe {
	d.mu.Lock()
	if d.handlers == nil {
		d.handlers = make(map[uuid.UUID]Handler)
	}
	id := uuid.New()
	d.handlers[id] = h
	first := len(d.handlers) == 1
	d.mu.Unlock()

	if first && onFirst != nil {
		onFirst()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.handlers, id)
			last := len(d.handlers) == 0
			d.mu.Unlock()

			if last && onLast != nil {
				onLast()
			}
		})
	}
}

// Dispatch delivers msg to every registered handler.
func (d *Dispatcher) Dispatch(msg Message) {
	d.mu.Lock()
	hs := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		hs = append(hs, h)
	}
	d.mu.Unlock()

	for _, h := range hs {
		h(msg)
	}
}

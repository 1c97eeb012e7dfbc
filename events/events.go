package events

import (
	"context"
	"fmt"
	"sync"

	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeBankrollCreated EventType = "bankroll_created"
	EventTypeBetPlaced       EventType = "bet_placed"
	EventTypeBetSettled      EventType = "bet_settled"
	EventTypeBetDeleted      EventType = "bet_deleted"
)

// AllEventTypes lists every event the ledger emits
var AllEventTypes = []EventType{
	EventTypeBalanceChange,
	EventTypeBankrollCreated,
	EventTypeBetPlaced,
	EventTypeBetSettled,
	EventTypeBetDeleted,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that was applied to a bankroll
type BalanceChangeEvent struct {
	UserID          string                 `json:"userId"`
	BankrollID      uuid.UUID              `json:"bankrollId"`
	OldBalance      decimal.Decimal        `json:"oldBalance"`
	NewBalance      decimal.Decimal        `json:"newBalance"`
	ChangeAmount    decimal.Decimal        `json:"changeAmount"`
	TransactionType models.TransactionType `json:"transactionType"`
	RelatedID       *uuid.UUID             `json:"relatedId,omitempty"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BankrollCreatedEvent represents a newly opened bankroll
type BankrollCreatedEvent struct {
	UserID         string          `json:"userId"`
	BankrollID     uuid.UUID       `json:"bankrollId"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Currency       string          `json:"currency"`
}

func (e BankrollCreatedEvent) Type() EventType {
	return EventTypeBankrollCreated
}

// BetPlacedEvent represents a bet that was recorded and whose stake was debited
type BetPlacedEvent struct {
	UserID     string          `json:"userId"`
	BetID      uuid.UUID       `json:"betId"`
	BankrollID uuid.UUID       `json:"bankrollId"`
	Sport      models.Sport    `json:"sport"`
	Event      string          `json:"event"`
	Selection  string          `json:"selection"`
	Odds       decimal.Decimal `json:"odds"`
	Stake      decimal.Decimal `json:"stake"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent represents a bet leaving PENDING
type BetSettledEvent struct {
	UserID     string           `json:"userId"`
	BetID      uuid.UUID        `json:"betId"`
	BankrollID uuid.UUID        `json:"bankrollId"`
	Event      string           `json:"event"`
	Selection  string           `json:"selection"`
	Status     models.BetStatus `json:"status"`
	Odds       decimal.Decimal  `json:"odds"`
	Stake      decimal.Decimal  `json:"stake"`
	Profit     decimal.Decimal  `json:"profit"`
	Credit     decimal.Decimal  `json:"credit"`
	NewBalance decimal.Decimal  `json:"newBalance"`
	Currency   string           `json:"currency"`
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// BetDeletedEvent represents a removed bet; Refund is zero for settled bets
type BetDeletedEvent struct {
	UserID     string           `json:"userId"`
	BetID      uuid.UUID        `json:"betId"`
	BankrollID uuid.UUID        `json:"bankrollId"`
	Status     models.BetStatus `json:"status"`
	Refund     decimal.Decimal  `json:"refund"`
}

func (e BetDeletedEvent) Type() EventType {
	return EventTypeBetDeleted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// orderedQueueSize bounds the backlog of one ordered subscriber; Emit blocks
// once it is full
const orderedQueueSize = 1024

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	ordered  []*orderedSubscriber
	closed   bool
	workers  sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

type queuedEvent struct {
	ctx   context.Context
	event Event
}

// orderedSubscriber feeds one handler from a single goroutine, so it sees
// events in exactly the order they were emitted
type orderedSubscriber struct {
	name    string
	types   map[EventType]bool
	handler Handler
	queue   chan queuedEvent
}

func (s *orderedSubscriber) run() {
	for item := range s.queue {
		s.handle(item)
	}
}

func (s *orderedSubscriber) handle(item queuedEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"subscriber": s.name,
				"eventType":  item.event.Type(),
				"panic":      r,
			}).Error("Ordered event handler panicked")
		}
	}()
	s.handler(item.ctx, item.event)
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds the handler to every ledger event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// SubscribeOrdered adds a handler that receives the given event types, or every
// ledger event when none are given, one at a time in emission order. External
// sinks use it so consumers can replay a bankroll's events as they happened.
func (b *Bus) SubscribeOrdered(name string, handler Handler, eventTypes ...EventType) {
	if len(eventTypes) == 0 {
		eventTypes = AllEventTypes
	}
	types := make(map[EventType]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		types[eventType] = true
	}

	subscriber := &orderedSubscriber{
		name:    name,
		types:   types,
		handler: handler,
		queue:   make(chan queuedEvent, orderedQueueSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		log.WithField("subscriber", name).Warn("Ignoring subscription on a closed event bus")
		return
	}
	b.ordered = append(b.ordered, subscriber)

	b.workers.Add(1)
	go func() {
		defer b.workers.Done()
		subscriber.run()
	}()

	log.WithFields(log.Fields{
		"subscriber": name,
		"eventTypes": len(types),
	}).Debug("Subscribed ordered handler")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	b.enqueueOrdered(ctx, event)

	// Handlers run asynchronously; a slow sink must not hold up a request
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// enqueueOrdered hands the event to every ordered subscriber. The read lock is
// held across the sends so Close cannot close a queue underneath them.
func (b *Bus) enqueueOrdered(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		if len(b.ordered) > 0 {
			log.WithField("eventType", event.Type()).Warn("Dropping event emitted after the bus was closed")
		}
		return
	}

	for _, subscriber := range b.ordered {
		if subscriber.types[event.Type()] {
			subscriber.queue <- queuedEvent{ctx: ctx, event: event}
		}
	}
}

// Close stops accepting events for ordered subscribers and waits until their
// queues are drained or ctx expires
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		for _, subscriber := range b.ordered {
			close(subscriber.queue)
		}
	}
	b.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		b.workers.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		log.Debug("Event bus drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain event subscribers: %w", ctx.Err())
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event until commit")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events reach ordered subscribers
// in the order they were published.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	// Handlers outlive the request, so they get a detached context
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		if b.real != nil {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"betledger/events"

	"github.com/google/uuid"
)

// SourceService names this process in every published envelope
const SourceService = "betledger"

// EventEnvelope wraps a ledger event for external consumers
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope serializes an event into an envelope
func NewEventEnvelope(event events.Event, now time.Time) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     now.UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}, nil
}

// Marshal encodes the envelope as JSON
func (e *EventEnvelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// PartitionKey returns the bankroll an event belongs to. The Kafka sink is an
// ordered bus subscriber, so every event of one bankroll lands on the same
// partition in the order it was emitted.
func PartitionKey(event events.Event) string {
	switch e := event.(type) {
	case events.BalanceChangeEvent:
		return e.BankrollID.String()
	case events.BankrollCreatedEvent:
		return e.BankrollID.String()
	case events.BetPlacedEvent:
		return e.BankrollID.String()
	case events.BetSettledEvent:
		return e.BankrollID.String()
	case events.BetDeletedEvent:
		return e.BankrollID.String()
	default:
		return string(event.Type())
	}
}

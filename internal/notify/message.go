package notify

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/savings/internal/core/events"
)

// LedgerMessage is the body published for every ledger change.
type LedgerMessage struct {
	EventID    string                 `json:"event_id"`
	EventType  string                 `json:"event_type"`
	OccurredAt time.Time              `json:"occurred_at"`
	MoneyFlow  map[string]interface{} `json:"money_flow"`
}

func NewLedgerMessage(event events.Event) *LedgerMessage {
	payload, _ := event.Payload().(map[string]interface{})
	return &LedgerMessage{
		EventID:    event.EventID(),
		EventType:  event.EventType(),
		OccurredAt: event.OccurredAt(),
		MoneyFlow:  payload,
	}
}

func (m *LedgerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerMessageFromJSON(data []byte) (*LedgerMessage, error) {
	var msg LedgerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

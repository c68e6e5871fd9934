package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeMoneyFlowInserted = "moneyflow.inserted"
	EventTypeMoneyFlowDeleted  = "moneyflow.deleted"
)

// LedgerEventTypes lists every event that changes the ledger contents.
var LedgerEventTypes = []string{EventTypeMoneyFlowInserted, EventTypeMoneyFlowDeleted}

// MoneyFlowChange is the snapshot of a flow carried by ledger events.
type MoneyFlowChange struct {
	MoneyFlowID int64     `json:"money_flow_id"`
	Name        string    `json:"name"`
	Amount      string    `json:"amount"`
	IsExpense   bool      `json:"is_expense"`
	Category    int       `json:"category"`
	IsRecurrent bool      `json:"is_recurrent"`
	Date        time.Time `json:"date"`
}

type MoneyFlowInsertedEvent struct {
	BaseEvent
	MoneyFlowChange
}

type MoneyFlowDeletedEvent struct {
	BaseEvent
	MoneyFlowChange
}

func newLedgerBase(eventType string, c MoneyFlowChange) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"money_flow_id": c.MoneyFlowID,
			"name":          c.Name,
			"amount":        c.Amount,
			"is_expense":    c.IsExpense,
			"category":      c.Category,
			"is_recurrent":  c.IsRecurrent,
			"date":          c.Date,
		},
	}
}

func NewMoneyFlowInsertedEvent(c MoneyFlowChange) *MoneyFlowInsertedEvent {
	return &MoneyFlowInsertedEvent{
		BaseEvent:       newLedgerBase(EventTypeMoneyFlowInserted, c),
		MoneyFlowChange: c,
	}
}

func NewMoneyFlowDeletedEvent(c MoneyFlowChange) *MoneyFlowDeletedEvent {
	return &MoneyFlowDeletedEvent{
		BaseEvent:       newLedgerBase(EventTypeMoneyFlowDeleted, c),
		MoneyFlowChange: c,
	}
}

package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Action names the kind of change a TransactionEvent reports.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Actions lists every action a consumer binds to.
var Actions = []Action{ActionCreated, ActionUpdated, ActionDeleted}

// RoutingKey is the direct-exchange key for a, e.g. "transaction.created".
func (a Action) RoutingKey() string {
	return "transaction." + string(a)
}

func (a Action) Valid() bool {
	return a == ActionCreated || a == ActionUpdated || a == ActionDeleted
}

// TransactionEvent is a lightweight notice that a transaction changed.
// Consumers reload the transaction from the database when they need more.
type TransactionEvent struct {
	ID            string     `json:"id"`
	Action        Action     `json:"action"`
	TransactionID int64      `json:"transaction_id"`
	CategoryID    *int64     `json:"category_id,omitempty"`
	Kind          core.Kind  `json:"kind"`
	Amount        core.Money `json:"amount"`
	Timestamp     time.Time  `json:"timestamp"`
}

// NewTransactionEvent builds an event for tx with a fresh message id.
func NewTransactionEvent(action Action, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		ID:            uuid.NewString(),
		Action:        action,
		TransactionID: tx.ID,
		CategoryID:    tx.CategoryID,
		Kind:          tx.Type,
		Amount:        tx.Amount,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON decodes and checks a message body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Action.Valid() {
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
	if msg.TransactionID <= 0 {
		return nil, fmt.Errorf("missing transaction id")
	}
	return &msg, nil
}

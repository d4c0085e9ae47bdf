package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// TransactionEvent announces that a ledger row was created or deleted.
// It carries the full row so consumers never read the primary store.
type TransactionEvent struct {
	Event       string    `json:"event"`
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Label       string    `json:"label"`
	AmountCents int64     `json:"amountCents"`
	Date        time.Time `json:"date"`
	Icon        string    `json:"icon,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewTransactionEvent(event, txType, id, userID, label string, amountCents int64, date time.Time, icon string) *TransactionEvent {
	return &TransactionEvent{
		Event:       event,
		Type:        txType,
		ID:          id,
		UserID:      userID,
		Label:       label,
		AmountCents: amountCents,
		Date:        date,
		Icon:        icon,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

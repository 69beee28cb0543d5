package amqp

import (
	"encoding/json"
	"time"
)

// BillCreatedMessage announces a newly persisted bill to the reminder
// fan-out. Consumers fetch full details from the store if needed.
type BillCreatedMessage struct {
	ID         int64     `json:"id"`
	WalletID   int64     `json:"wallet_id"`
	ValueCents int64     `json:"value_cents"`
	DueDate    string    `json:"due_date"` // YYYY-MM-DD
	SeriesID   string    `json:"series_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// DigestLine is one bill inside a published monthly digest.
type DigestLine struct {
	BillID      int64  `json:"bill_id"`
	Description string `json:"description"`
	ValueCents  int64  `json:"value_cents"`
	DueDate     string `json:"due_date"`
	WalletID    int64  `json:"wallet_id"`
	Category    string `json:"category"`
}

// MonthlyDigestMessage carries the full reminder digest for one calendar
// month, ready for downstream notifiers (mail, chat, ...).
type MonthlyDigestMessage struct {
	Year       int          `json:"year"`
	Month      int          `json:"month"`
	TotalCents int64        `json:"total_cents"`
	Bills      []DigestLine `json:"bills"`
	Timestamp  time.Time    `json:"timestamp"`
}

func (m *BillCreatedMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

func BillCreatedMessageFromJSON(data []byte) (*BillCreatedMessage, error) {
	var msg BillCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *MonthlyDigestMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

func MonthlyDigestMessageFromJSON(data []byte) (*MonthlyDigestMessage, error) {
	var msg MonthlyDigestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangeMessage tells the mirror worker that a record changed.
// It carries only the action and id; the worker fetches the full record
// from the store when it needs one.
type RecordChangeMessage struct {
	Action    string    `json:"action"` // created | updated | deleted
	RecordID  string    `json:"recordId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChangeMessage(action, recordID string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Action:    action,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

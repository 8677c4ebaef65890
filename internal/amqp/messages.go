package amqp

import (
	"encoding/json"
	"time"
)

// StatementProcessMessage asks the worker to hand one uploaded statement to
// the external categorization service. It carries only the registry ID; the
// worker fetches the file details from storage.
type StatementProcessMessage struct {
	StatementID string    `json:"statement_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewStatementProcessMessage creates a process message for the given upload.
func NewStatementProcessMessage(statementID string) *StatementProcessMessage {
	return &StatementProcessMessage{
		StatementID: statementID,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StatementProcessMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StatementProcessMessageFromJSON creates a message from JSON bytes
func StatementProcessMessageFromJSON(data []byte) (*StatementProcessMessage, error) {
	var msg StatementProcessMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

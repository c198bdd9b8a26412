package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"daytrack/internal/core"
)

// DayChangedMessage says that the activities or rating of one calendar day
// changed. The worker reloads the day's week from the store.
type DayChangedMessage struct {
	Date      core.Date `json:"date"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDayChangedMessage(date core.Date, reason string) *DayChangedMessage {
	return &DayChangedMessage{
		Date:      date,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

func (m *DayChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DayChangedMessageFromJSON decodes and validates a message body.
func DayChangedMessageFromJSON(data []byte) (*DayChangedMessage, error) {
	var msg DayChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Date.Validate(); err != nil {
		return nil, fmt.Errorf("day changed message: %w", err)
	}
	return &msg, nil
}

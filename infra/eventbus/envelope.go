package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/fintrack/pkg/domain/events"
)

// envelope is the wire format shared by the Redis and AMQP publishers.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}
	env, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope for %s: %w", event.Type(), err)
	}
	return env, nil
}

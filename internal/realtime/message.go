package realtime

import (
	"encoding/json"
	"strings"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Message is one server-pushed event. Its JSON form is the websocket frame.
type Message struct {
	Event model.EventName `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewMessage encodes payload as the message data
func NewMessage(event model.EventName, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: data}, nil
}

// SSE returns the message framed as a server-sent event
func (m Message) SSE() []byte {
	return formatSSEMessage(string(m.Event), string(m.Data))
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and a trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

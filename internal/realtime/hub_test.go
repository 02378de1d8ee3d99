package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "round_result",
			data:      `{"result":"win"}`,
			expected:  "event: round_result\ndata: {\"result\":\"win\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "ranking_updated",
			data:      "[\n  1,\n  2\n]",
			expected:  "event: ranking_updated\ndata: [\ndata:   1,\ndata:   2\ndata: ]\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(model.EventPlayerLeft, model.PlayerLeftPayload{PlayerID: "p1"})
	require.NoError(t, err)

	frame, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"player_left","data":{"player_id":"p1"}}`, string(frame))
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func registerClient(t *testing.T, hub *Hub, id string, playerID model.PlayerID) *Client {
	t.Helper()
	client := NewClient(id, playerID)
	before := hub.ClientCount()
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == before+1 },
		time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case msg := <-client.Send():
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", client.ID())
		return Message{}
	}
}

func assertNothingReceived(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg := <-client.Send():
		t.Fatalf("client %s unexpectedly received %s", client.ID(), msg.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := startHub(t)
	alice := registerClient(t, hub, "c1", "alice")
	anon := registerClient(t, hub, "c2", "")

	hub.Broadcast(Message{Event: model.EventRankingUpdated, Data: json.RawMessage(`[]`)})

	assert.Equal(t, model.EventRankingUpdated, receive(t, alice).Event)
	assert.Equal(t, model.EventRankingUpdated, receive(t, anon).Event)
}

func TestHub_SendToPlayerReachesAllOfTheirConnections(t *testing.T) {
	hub := startHub(t)
	aliceTab1 := registerClient(t, hub, "c1", "alice")
	aliceTab2 := registerClient(t, hub, "c2", "alice")
	bob := registerClient(t, hub, "c3", "bob")

	hub.SendToPlayer("alice", Message{Event: model.EventRoundResult})

	assert.Equal(t, model.EventRoundResult, receive(t, aliceTab1).Event)
	assert.Equal(t, model.EventRoundResult, receive(t, aliceTab2).Event)
	assertNothingReceived(t, bob)
	assert.Equal(t, 2, hub.PlayerClientCount("alice"))
}

func TestHub_SendToClient(t *testing.T) {
	hub := startHub(t)
	first := registerClient(t, hub, "c1", "alice")
	second := registerClient(t, hub, "c2", "alice")

	hub.SendToClient("c2", Message{Event: model.EventMoveRegistered})

	assert.Equal(t, model.EventMoveRegistered, receive(t, second).Event)
	assertNothingReceived(t, first)
}

func TestHub_PreservesOrderPerClient(t *testing.T) {
	hub := startHub(t)
	client := registerClient(t, hub, "c1", "alice")

	hub.SendToPlayer("alice", Message{Event: model.EventRoundResult})
	hub.Broadcast(Message{Event: model.EventRankingUpdated})

	assert.Equal(t, model.EventRoundResult, receive(t, client).Event)
	assert.Equal(t, model.EventRankingUpdated, receive(t, client).Event)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := registerClient(t, hub, "c1", "alice")

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 5*time.Millisecond)

	_, ok := <-client.Send()
	assert.False(t, ok)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	client := registerClient(t, hub, "c1", "alice")
	hub.Close()
	hub.Close() // idempotent

	<-stopped
	_, ok := <-client.Send()
	assert.False(t, ok)

	// Must not block after the hub has stopped
	hub.Unregister(client)
	hub.Register(NewClient("c2", "bob"))
}

func TestPublisher_EncodesPayloads(t *testing.T) {
	hub := startHub(t)
	client := registerClient(t, hub, "c1", "alice")
	publisher := NewPublisher(hub, testutil.NopLogger())

	publisher.SendToPlayer("alice", model.EventRoundResult, model.RoundResult{
		You:        "Alice",
		Opponent:   "Bob",
		Result:     model.ResultDraw,
		DeltaScore: 1,
	})

	msg := receive(t, client)
	assert.Equal(t, model.EventRoundResult, msg.Event)

	var result model.RoundResult
	require.NoError(t, json.Unmarshal(msg.Data, &result))
	assert.Equal(t, "Bob", result.Opponent)
	assert.Equal(t, 1, result.DeltaScore)

	publisher.SendToSession("c1", model.EventError, model.ErrorPayload{Code: "X", Message: "y"})
	assert.Equal(t, model.EventError, receive(t, client).Event)
}

func TestPublisher_DropsUnencodablePayload(t *testing.T) {
	hub := startHub(t)
	client := registerClient(t, hub, "c1", "alice")
	logger, logs := testutil.CaptureLogger()
	publisher := NewPublisher(hub, logger)

	publisher.SendToAll(model.EventRankingUpdated, make(chan int))

	assertNothingReceived(t, client)
	assert.Contains(t, logs.String(), "failed to encode event")
}

func TestServeSSE(t *testing.T) {
	hub := startHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub, NewClient("sse-1", "alice"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSuffix(line, "\n")
			switch {
			case line == "":
				return event, data
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data += strings.TrimPrefix(line, "data: ")
			}
		}
	}

	event, data := readEvent()
	assert.Equal(t, "connected", event)
	assert.Contains(t, data, `"session_id":"sse-1"`)

	hub.SendToPlayer("alice", Message{Event: model.EventRoundResult, Data: json.RawMessage(`{"result":"win"}`)})
	event, data = readEvent()
	assert.Equal(t, "round_result", event)
	assert.JSONEq(t, `{"result":"win"}`, data)
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

const gatewayPath = "/api/v1/game/rps/ws"

// gatewayMessage is a frame pushed by the gateway
type gatewayMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// gatewayError is the payload of an error frame
type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *gatewayError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func newPlayCmd() *cobra.Command {
	var name string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "play <move> [move...]",
		Short: "Join the game and play one match per move",
		Long: `Connect to the game gateway, join with the saved token and queue each
move in turn, waiting for its match to resolve before sending the next.

Moves are rock, paper, or scissors. A match only resolves once another
player queues a move, so play blocks until an opponent shows up, the
timeout expires, or Ctrl+C is pressed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return play(ctx, name, args)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name to join with")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")

	return cmd
}

func play(ctx context.Context, name string, moves []string) error {
	if client.token == "" {
		return errors.New("not logged in: run 'rpsctl auth login' first")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, client.WebSocketURL(gatewayPath), client.AuthHeader())
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock reads when the context ends
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	frames := make(chan gatewayMessage)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg gatewayMessage
			if err := conn.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	// await reads frames until want arrives, surfacing error frames
	await := func(want string) (gatewayMessage, error) {
		for {
			select {
			case msg := <-frames:
				if cfg.Verbose {
					fmt.Fprintf(os.Stderr, "<- %s %s\n", msg.Event, string(msg.Data))
				}
				switch msg.Event {
				case want:
					return msg, nil
				case "error":
					var gerr gatewayError
					if err := json.Unmarshal(msg.Data, &gerr); err != nil {
						return msg, fmt.Errorf("malformed error frame: %w", err)
					}
					return msg, &gerr
				}
			case err := <-readErr:
				if ctx.Err() != nil {
					return gatewayMessage{}, ctx.Err()
				}
				return gatewayMessage{}, fmt.Errorf("connection lost: %w", err)
			case <-ctx.Done():
				return gatewayMessage{}, ctx.Err()
			}
		}
	}

	send := func(action string, data any) error {
		return conn.WriteJSON(map[string]any{"action": action, "data": data})
	}

	if err := send("join", map[string]string{"display_name": name}); err != nil {
		return fmt.Errorf("join failed: %w", err)
	}
	if _, err := await("ranking_updated"); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	for _, move := range moves {
		if err := send("play", map[string]string{"move": strings.ToLower(move)}); err != nil {
			return fmt.Errorf("play failed: %w", err)
		}

		msg, err := await("round_result")
		if err != nil {
			return err
		}

		var result RoundResult
		if err := json.Unmarshal(msg.Data, &result); err != nil {
			return fmt.Errorf("failed to parse round result: %w", err)
		}
		out.Print(result)
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return nil
}

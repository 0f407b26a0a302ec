// Command tester is a terminal probe for the relay: it connects, announces
// an alias, and renders roster/group snapshots as tables while relaying
// stdin lines as messages. Useful for poking a running server by hand.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	ServerURL string `envconfig:"RELAY_URL" default:"ws://localhost:8080/ws"`
	Alias     string `envconfig:"RELAY_ALIAS" default:"tester"`
	// RELAY_COLOURS enables colorized event output for readability.
	Colours bool `envconfig:"RELAY_COLOURS" default:"true"`
}

// event mirrors the server envelopes loosely; only the fields the probe
// renders are decoded.
type event struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Alias   string          `json:"alias"`
	From    string          `json:"from"`
	GroupID string          `json:"groupId"`
	Payload json.RawMessage `json:"payload"`
	Clients []struct {
		ID    string `json:"id"`
		Alias string `json:"alias"`
	} `json:"clients"`
	Groups []struct {
		ID      string   `json:"id"`
		Alias   string   `json:"alias"`
		Members []string `json:"members"`
	} `json:"groups"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Tester error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if !cfg.Colours {
		color.Disable()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", cfg.ServerURL, err)
	}
	defer conn.Close()

	go sendLoop(conn)

	done := make(chan error, 1)
	go func() { done <- readLoop(conn, cfg.Alias) }()

	select {
	case <-ctx.Done():
		return exitOK, nil
	case err := <-done:
		if err != nil {
			return exitRuntime, err
		}
		return exitOK, nil
	}
}

// sendLoop relays stdin lines. Format: "<targetId> <text>"; a target
// carrying the group prefix fans out, anything else is a direct message.
func sendLoop(conn *websocket.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		target, text, found := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		if !found {
			color.Yellow.Println("usage: <targetId> <text>")
			continue
		}
		out, _ := json.Marshal(map[string]any{
			"type":     "message",
			"targetId": target,
			"payload":  text,
		})
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			return
		}
	}
}

func readLoop(conn *websocket.Conn, alias string) error {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var evt event
		if err := json.Unmarshal(raw, &evt); err != nil {
			continue
		}
		render(conn, evt, alias)
	}
}

func render(conn *websocket.Conn, evt event, alias string) {
	switch evt.Type {
	case "id":
		color.Cyan.Printf("connected as %s\n", evt.ID)
		out, _ := json.Marshal(map[string]any{"type": "alias", "alias": alias, "id": evt.ID})
		_ = conn.WriteMessage(websocket.TextMessage, out)
	case "message":
		var text string
		_ = json.Unmarshal(evt.Payload, &text)
		if evt.GroupID != "" {
			color.Green.Printf("[%s] %s: %s\n", evt.GroupID, evt.From, text)
		} else {
			color.Green.Printf("%s: %s\n", evt.From, text)
		}
	case "newClient":
		color.Cyan.Printf("joined: %s (%s)\n", evt.Alias, evt.ID)
	case "clientDisconnected":
		color.Yellow.Printf("left: %s (%s)\n", evt.Alias, evt.ID)
	case "clientsList":
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Alias"})
		for _, c := range evt.Clients {
			table.Append([]string{c.ID, c.Alias})
		}
		table.Render()
	case "groupsList":
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Alias", "Members"})
		for _, g := range evt.Groups {
			table.Append([]string{g.ID, g.Alias, fmt.Sprintf("%d", len(g.Members))})
		}
		table.Render()
	}
}

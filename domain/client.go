// Package domain contains core concepts of the relay: connected clients,
// groups, and typed routing targets. No network or UI logic lives here.
package domain

import "github.com/google/uuid"

// ClientID is the server-issued identity token of one live connection.
type ClientID string

func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

// Client is the registry-owned identity of a connection.
// Alias is empty until the peer announces one.
type Client struct {
	ID    ClientID
	Alias string
}

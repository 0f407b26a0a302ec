// Package protocol defines the JSON envelopes exchanged with browser
// clients. Inbound events share one discriminated struct; outbound events
// are one type per kind, all tagged through the Outbound marker.
package protocol

import (
	"encoding/json"

	"chat-relay/domain"
)

// Inbound event kinds. remClientToGroup/remClientFromGroup and
// remGroup/delGroup are accepted as interchangeable spellings.
const (
	TypeMessage            = "message"
	TypeAlias              = "alias"
	TypeReqGroups          = "reqGroups"
	TypeAttachment         = "attachment"
	TypeCreateGroup        = "createGroup"
	TypeAddClientToGroup   = "addClientToGroup"
	TypeRemClientToGroup   = "remClientToGroup"
	TypeRemClientFromGroup = "remClientFromGroup"
	TypeRemGroup           = "remGroup"
	TypeDelGroup           = "delGroup"
)

// Inbound is the single client-to-server envelope. Only the fields relevant
// to the given Type are set; the rest stay zero. Payload and Data are kept
// raw: non-string payloads are relayed untouched.
type Inbound struct {
	Type       string          `json:"type"`
	TargetID   string          `json:"targetId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Alias      string          `json:"alias,omitempty"`
	ID         string          `json:"id,omitempty"`
	Filename   string          `json:"filename,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	GroupAlias string          `json:"groupAlias,omitempty"`
	GroupID    string          `json:"groupId,omitempty"`
}

// Decode parses a raw frame. It reports false for anything that is not a
// JSON object with a type tag; such frames are dropped by the router with
// no reply, per the permissive-ignore policy.
func Decode(raw []byte) (Inbound, bool) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, false
	}
	if in.Type == "" {
		return Inbound{}, false
	}
	return in, true
}

// Outbound is the marker for every server-to-client event.
type Outbound interface {
	outbound()
}

// Encode serializes an outbound event to one JSON frame.
func Encode(evt Outbound) ([]byte, error) {
	return json.Marshal(evt)
}

// AssignedID tells a freshly-connected client its server-issued identity.
type AssignedID struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func NewAssignedID(id domain.ClientID) AssignedID {
	return AssignedID{Type: "id", ID: string(id)}
}

// Message is a relayed text payload. GroupID is set for group fan-out,
// IDTarget for direct delivery; the two are mutually exclusive.
type Message struct {
	Type     string          `json:"type"`
	IDFrom   string          `json:"id_from"`
	From     string          `json:"from"`
	GroupID  string          `json:"groupId,omitempty"`
	IDTarget string          `json:"id_target,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// Attachment is a relayed file. Data passes through as received; only the
// filename runs through the sanitizer.
type Attachment struct {
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	Filename string          `json:"filename"`
	IDFrom   string          `json:"id_from"`
	From     string          `json:"from"`
	GroupID  string          `json:"groupId,omitempty"`
	IDTarget string          `json:"id_target,omitempty"`
}

// NewClient announces an alias change to every connection.
type NewClient struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// ClientEntry is one roster row.
type ClientEntry struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// ClientsList is the full roster snapshot.
type ClientsList struct {
	Type    string        `json:"type"`
	Clients []ClientEntry `json:"clients"`
}

// ClientDisconnected carries the id and last known alias of a closed peer.
type ClientDisconnected struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// GroupView is the serialized form of a group. Members are client ids, not
// aliases, so duplicate display names stay unambiguous.
type GroupView struct {
	ID      string   `json:"id"`
	Alias   string   `json:"alias"`
	Members []string `json:"members"`
}

type GroupsList struct {
	Type   string      `json:"type"`
	Groups []GroupView `json:"groups"`
}

type GroupCreated struct {
	Type  string    `json:"type"`
	Group GroupView `json:"group"`
}

type GroupUpdated struct {
	Type  string    `json:"type"`
	Group GroupView `json:"group"`
}

type GroupDeleted struct {
	Type    string `json:"type"`
	GroupID string `json:"groupId"`
}

func NewMessage(from domain.Client, payload json.RawMessage) Message {
	return Message{Type: TypeMessage, IDFrom: string(from.ID), From: displayAlias(from), Payload: payload}
}

func NewAttachment(from domain.Client, filename string, data json.RawMessage) Attachment {
	return Attachment{Type: TypeAttachment, IDFrom: string(from.ID), From: displayAlias(from), Filename: filename, Data: data}
}

func NewNewClient(id, alias string) NewClient {
	return NewClient{Type: "newClient", ID: id, Alias: alias}
}

func NewClientsList(clients []ClientEntry) ClientsList {
	return ClientsList{Type: "clientsList", Clients: clients}
}

func NewClientDisconnected(id domain.ClientID, alias string) ClientDisconnected {
	return ClientDisconnected{Type: "clientDisconnected", ID: string(id), Alias: alias}
}

func NewGroupsList(groups []GroupView) GroupsList {
	return GroupsList{Type: "groupsList", Groups: groups}
}

func NewGroupCreated(view GroupView) GroupCreated {
	return GroupCreated{Type: "groupCreated", Group: view}
}

func NewGroupUpdated(view GroupView) GroupUpdated {
	return GroupUpdated{Type: "groupUpdated", Group: view}
}

func NewGroupDeleted(id domain.GroupID) GroupDeleted {
	return GroupDeleted{Type: "groupDeleted", GroupID: string(id)}
}

// displayAlias falls back to "unknown" for peers that never announced one.
func displayAlias(c domain.Client) string {
	if c.Alias == "" {
		return "unknown"
	}
	return c.Alias
}

func (AssignedID) outbound()         {}
func (Message) outbound()            {}
func (Attachment) outbound()         {}
func (NewClient) outbound()          {}
func (ClientsList) outbound()        {}
func (ClientDisconnected) outbound() {}
func (GroupsList) outbound()         {}
func (GroupCreated) outbound()       {}
func (GroupUpdated) outbound()       {}
func (GroupDeleted) outbound()       {}

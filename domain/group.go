package domain

import "github.com/google/uuid"

// Group ids carry a reserved lexical prefix so the wire protocol can tell a
// group target apart from a direct client id without an extra field.
const (
	GroupIDPrefix     = "group"
	DefaultGroupAlias = "All"
)

// DefaultGroupID is the fixed id of the permanent all-members group.
const DefaultGroupID GroupID = "groupAll"

type GroupID string

func NewGroupID() GroupID {
	return GroupID(GroupIDPrefix + "-" + uuid.NewString())
}

// Group is a named set of member clients. Members are kept by id so that a
// later alias change never touches membership.
type Group struct {
	ID      GroupID
	Alias   string
	members map[ClientID]struct{}
}

func NewGroup(id GroupID, alias string) *Group {
	return &Group{
		ID:      id,
		Alias:   alias,
		members: make(map[ClientID]struct{}),
	}
}

func (g *Group) IsDefault() bool {
	return g.ID == DefaultGroupID
}

func (g *Group) Add(id ClientID) {
	g.members[id] = struct{}{}
}

// Remove reports whether the client was a member.
func (g *Group) Remove(id ClientID) bool {
	if _, ok := g.members[id]; !ok {
		return false
	}
	delete(g.members, id)
	return true
}

func (g *Group) Has(id ClientID) bool {
	_, ok := g.members[id]
	return ok
}

func (g *Group) Len() int {
	return len(g.members)
}

// MemberIDs returns the member set in unspecified order.
func (g *Group) MemberIDs() []ClientID {
	ids := make([]ClientID, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}
	return ids
}

package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/protocol"
)

type nopSink struct{}

func (nopSink) Send(protocol.Outbound) bool { return true }

func TestRegistry_RegisterJoinsDefaultGroupOnly(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given an empty registry, only the default group exists
	clients, groups := registry.Counts()
	req.Zero(clients)
	req.Equal(1, groups)

	// When a connection registers
	client := registry.Register(nopSink{})

	// Then it is a member of the default group and of no other group
	req.Equal([]domain.GroupID{domain.DefaultGroupID}, registry.MembershipsOf(client.ID))

	_, sink, ok := registry.Find(client.ID)
	req.True(ok)
	req.NotNil(sink)
}

func TestRegistry_SetAliasAndRoster(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client := registry.Register(nopSink{})

	registry.SetAlias(client.ID, "Alice")

	roster := registry.Roster()
	req.Len(roster, 1)
	req.Equal(protocol.ClientEntry{ID: string(client.ID), Alias: "Alice"}, roster[0])

	// Unknown ids are ignored
	registry.SetAlias("missing", "ghost")
	req.Len(registry.Roster(), 1)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client := registry.Register(nopSink{})

	registry.Remove(client.ID)
	registry.Remove(client.ID)

	_, _, ok := registry.Find(client.ID)
	req.False(ok)
}

func TestRegistry_CreateGroupSeedsCreator(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client := registry.Register(nopSink{})

	g := registry.CreateGroup("Team", client.ID)

	req.True(g.Has(client.ID))
	req.Equal(1, g.Len())
	req.Equal(domain.TargetGroup, domain.ParseTarget(string(g.ID)).Kind)

	view, ok := registry.GroupView(g.ID)
	req.True(ok)
	req.Equal([]string{string(client.ID)}, view.Members)
}

func TestRegistry_AddMemberRequiresBothSides(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client := registry.Register(nopSink{})
	g := registry.CreateGroup("Team", client.ID)

	req.False(registry.AddMember("group-missing", client.ID))
	req.False(registry.AddMember(g.ID, "client-missing"))

	other := registry.Register(nopSink{})
	req.True(registry.AddMember(g.ID, other.ID))
	req.Equal(2, g.Len())
}

func TestRegistry_RemoveMemberCascadeFlag(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client := registry.Register(nopSink{})
	g := registry.CreateGroup("Team", client.ID)

	// When the last member of a non-default group leaves
	removed, emptied := registry.RemoveMember(g.ID, client.ID)
	req.True(removed)
	req.True(emptied)

	// The default group never reports emptied
	removed, emptied = registry.RemoveMember(domain.DefaultGroupID, client.ID)
	req.True(removed)
	req.False(emptied)

	// A non-member removal is a no-op
	removed, emptied = registry.RemoveMember(g.ID, client.ID)
	req.False(removed)
	req.False(emptied)
}

func TestRegistry_DeleteGroupProtectsDefault(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	client := registry.Register(nopSink{})
	g := registry.CreateGroup("Team", client.ID)

	// Deleting the default group fails silently
	req.False(registry.DeleteGroup(domain.DefaultGroupID))
	_, ok := registry.Group(domain.DefaultGroupID)
	req.True(ok)

	// Unknown groups too
	req.False(registry.DeleteGroup("group-missing"))

	// Regular groups are deleted
	req.True(registry.DeleteGroup(g.ID))
	_, ok = registry.Group(g.ID)
	req.False(ok)
}

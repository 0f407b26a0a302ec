// Package runtime holds the process-wide relay state and the router that
// mutates it. It orchestrates delivery without containing wire-level logic.
package runtime

import (
	"sync"

	"github.com/samber/lo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/protocol"
)

type session struct {
	client domain.Client
	sink   contract.Sink
}

// Registry owns every live client identity and every group. It is rebuilt
// empty (plus the default group) on each process start; nothing persists.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ClientID]*session
	groups   map[domain.GroupID]*domain.Group
}

func NewRegistry() *Registry {
	r := &Registry{
		sessions: make(map[domain.ClientID]*session),
		groups:   make(map[domain.GroupID]*domain.Group),
	}
	r.groups[domain.DefaultGroupID] = domain.NewGroup(domain.DefaultGroupID, domain.DefaultGroupAlias)
	return r
}

// Register creates a fresh identity for a connection and auto-joins it to
// the default group.
func (r *Registry) Register(sink contract.Sink) domain.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	client := domain.Client{ID: domain.NewClientID()}
	r.sessions[client.ID] = &session{client: client, sink: sink}
	r.groups[domain.DefaultGroupID].Add(client.ID)
	return client
}

// SetAlias stores an already-sanitized alias. Unknown ids are ignored.
func (r *Registry) SetAlias(id domain.ClientID, alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.client.Alias = alias
	}
}

func (r *Registry) Find(id domain.ClientID) (domain.Client, contract.Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Client{}, nil, false
	}
	return s.client, s.sink, true
}

// Remove deletes an identity. Removing an absent id is a no-op.
func (r *Registry) Remove(id domain.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// Roster snapshots all live {id, alias} pairs in unspecified order.
func (r *Registry) Roster() []protocol.ClientEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapToSlice(r.sessions, func(id domain.ClientID, s *session) protocol.ClientEntry {
		return protocol.ClientEntry{ID: string(id), Alias: s.client.Alias}
	})
}

// Sinks snapshots every live write end for a broadcast.
func (r *Registry) Sinks() []contract.Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapToSlice(r.sessions, func(_ domain.ClientID, s *session) contract.Sink {
		return s.sink
	})
}

// CreateGroup allocates a group with a fresh prefixed id, seeded with its
// creator.
func (r *Registry) CreateGroup(alias string, seed domain.ClientID) *domain.Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := domain.NewGroup(domain.NewGroupID(), alias)
	g.Add(seed)
	r.groups[g.ID] = g
	return g
}

func (r *Registry) Group(id domain.GroupID) (*domain.Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	return g, ok
}

// DeleteGroup reports whether the group was actually deleted. The default
// group and unknown ids fail silently, protecting the default-group
// invariant without surfacing an error.
func (r *Registry) DeleteGroup(id domain.GroupID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[id]
	if !ok || g.IsDefault() {
		return false
	}
	delete(r.groups, id)
	return true
}

// AddMember links a live client to an existing group. Both sides must be
// known for the mutation to happen.
func (r *Registry) AddMember(groupID domain.GroupID, clientID domain.ClientID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[groupID]
	if !ok {
		return false
	}
	if _, ok := r.sessions[clientID]; !ok {
		return false
	}
	g.Add(clientID)
	return true
}

// RemoveMember unlinks a client from a group. emptied reports that a
// non-default group lost its last member and must cascade into deletion;
// the default group never empties this way.
func (r *Registry) RemoveMember(groupID domain.GroupID, clientID domain.ClientID) (removed, emptied bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[groupID]
	if !ok {
		return false, false
	}
	if !g.Remove(clientID) {
		return false, false
	}
	return true, !g.IsDefault() && g.Len() == 0
}

// MembershipsOf lists every group currently containing the client.
func (r *Registry) MembershipsOf(id domain.ClientID) []domain.GroupID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.GroupID
	for gid, g := range r.groups {
		if g.Has(id) {
			out = append(out, gid)
		}
	}
	return out
}

// GroupView serializes one group for the wire.
func (r *Registry) GroupView(id domain.GroupID) (protocol.GroupView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	if !ok {
		return protocol.GroupView{}, false
	}
	return viewOf(g), true
}

// GroupViews serializes every group for a groups-list snapshot.
func (r *Registry) GroupViews() []protocol.GroupView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapToSlice(r.groups, func(_ domain.GroupID, g *domain.Group) protocol.GroupView {
		return viewOf(g)
	})
}

// Counts reports live client and group totals for telemetry.
func (r *Registry) Counts() (clients, groups int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions), len(r.groups)
}

func viewOf(g *domain.Group) protocol.GroupView {
	return protocol.GroupView{
		ID:    string(g.ID),
		Alias: g.Alias,
		Members: lo.Map(g.MemberIDs(), func(id domain.ClientID, _ int) string {
			return string(id)
		}),
	}
}

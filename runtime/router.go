package runtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/protocol"
	"chat-relay/sanitize"
)

// Router dispatches inbound client events and drives the connection
// lifecycle. A single mutex serializes handlers, so registry and group
// mutations are atomic with respect to each other; connection goroutines
// funnel through it one at a time.
//
// Delivery is fire-and-forget: a peer whose sink is not writable is
// skipped, with no queuing and no retry. Malformed frames, unknown event
// kinds, and unresolvable targets are dropped without a reply.
type Router struct {
	mu       sync.Mutex
	log      *slog.Logger
	registry *Registry
	censor   *sanitize.Censor
}

// NewRouter wires a router over its registry. censor may be nil, which
// disables the blocked-word stage.
func NewRouter(log *slog.Logger, registry *Registry, censor *sanitize.Censor) *Router {
	return &Router{log: log, registry: registry, censor: censor}
}

// HandleOpen registers a fresh connection, auto-joins it to the default
// group, and sends the assigned id back through its sink.
func (r *Router) HandleOpen(sink contract.Sink) domain.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	client := r.registry.Register(sink)
	sink.Send(protocol.NewAssignedID(client.ID))
	r.log.Info("client connected", "id", client.ID)
	return client
}

// HandleInbound parses one raw frame and dispatches it. Frames that fail to
// parse never propagate as errors to the transport layer.
func (r *Router) HandleInbound(from domain.ClientID, raw []byte) {
	in, ok := protocol.Decode(raw)
	if !ok {
		r.log.Debug("dropping unparseable frame", "from", from)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch in.Type {
	case protocol.TypeMessage:
		r.relayMessage(from, in)
	case protocol.TypeAlias:
		r.setAlias(from, in)
	case protocol.TypeReqGroups:
		r.broadcastGroupsList()
	case protocol.TypeAttachment:
		r.relayAttachment(from, in)
	case protocol.TypeCreateGroup:
		r.createGroup(from, in)
	case protocol.TypeAddClientToGroup:
		r.addMember(in)
	case protocol.TypeRemClientToGroup, protocol.TypeRemClientFromGroup:
		r.removeMember(in)
	case protocol.TypeRemGroup, protocol.TypeDelGroup:
		r.deleteGroup(domain.GroupID(in.GroupID))
	default:
		r.log.Debug("ignoring unknown event kind", "type", in.Type, "from", from)
	}
}

// HandleClose runs the close transition: disconnect broadcast, registry
// removal, group cleanup with empty-group cascade, then a fresh groups
// list. The order is part of the protocol contract.
func (r *Router) HandleClose(from domain.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, _, ok := r.registry.Find(from)
	if !ok {
		return
	}
	r.log.Info("client disconnected", "id", client.ID, "alias", client.Alias)

	r.broadcast(protocol.NewClientDisconnected(client.ID, client.Alias))
	r.registry.Remove(from)

	for _, gid := range r.registry.MembershipsOf(from) {
		removed, emptied := r.registry.RemoveMember(gid, from)
		if !removed {
			continue
		}
		if emptied {
			r.deleteGroup(gid)
			continue
		}
		if view, ok := r.registry.GroupView(gid); ok {
			r.broadcast(protocol.NewGroupUpdated(view))
		}
	}
	r.broadcastGroupsList()
}

// HandleTransportError logs a transport-level failure. Errors and closes
// are distinct signals; cleanup happens only on the close transition.
func (r *Router) HandleTransportError(from domain.ClientID, err error) {
	r.log.Warn("transport error", "id", from, "error", err)
}

func (r *Router) relayMessage(from domain.ClientID, in protocol.Inbound) {
	sender := r.senderInfo(from)
	payload := r.cleanValue(in.Payload)

	switch target := domain.ParseTarget(in.TargetID); target.Kind {
	case domain.TargetGroup:
		g, ok := r.registry.Group(target.Group)
		if !ok {
			return
		}
		evt := protocol.NewMessage(sender, payload)
		evt.GroupID = string(target.Group)
		r.sendToGroup(g.MemberIDs(), from, evt)
	case domain.TargetDirect:
		_, sink, ok := r.registry.Find(target.Client)
		if !ok {
			return
		}
		evt := protocol.NewMessage(sender, payload)
		evt.IDTarget = string(target.Client)
		sink.Send(evt)
	}
}

func (r *Router) relayAttachment(from domain.ClientID, in protocol.Inbound) {
	sender := r.senderInfo(from)
	filename := r.cleanText(in.Filename)

	switch target := domain.ParseTarget(in.TargetID); target.Kind {
	case domain.TargetGroup:
		g, ok := r.registry.Group(target.Group)
		if !ok {
			return
		}
		evt := protocol.NewAttachment(sender, filename, in.Data)
		evt.GroupID = string(target.Group)
		r.sendToGroup(g.MemberIDs(), from, evt)
	case domain.TargetDirect:
		_, sink, ok := r.registry.Find(target.Client)
		if !ok {
			return
		}
		evt := protocol.NewAttachment(sender, filename, in.Data)
		evt.IDTarget = string(target.Client)
		sink.Send(evt)
	}
}

// setAlias stores the sanitized alias, then emits the fixed three-step
// sequence: presence broadcast, private roster reply, groups-list
// broadcast.
func (r *Router) setAlias(from domain.ClientID, in protocol.Inbound) {
	clean := sanitize.Alias(in.Alias)
	r.registry.SetAlias(from, clean)

	r.broadcast(protocol.NewNewClient(in.ID, clean))
	if _, sink, ok := r.registry.Find(from); ok {
		sink.Send(protocol.NewClientsList(r.registry.Roster()))
	}
	r.broadcastGroupsList()
}

func (r *Router) createGroup(from domain.ClientID, in protocol.Inbound) {
	alias := in.GroupAlias
	if alias == "" {
		alias = "Group"
	}
	g := r.registry.CreateGroup(alias, from)
	if view, ok := r.registry.GroupView(g.ID); ok {
		r.broadcast(protocol.NewGroupCreated(view))
	}
	r.broadcastGroupsList()
}

func (r *Router) addMember(in protocol.Inbound) {
	gid := domain.GroupID(in.GroupID)
	if !r.registry.AddMember(gid, domain.ClientID(in.TargetID)) {
		return
	}
	if view, ok := r.registry.GroupView(gid); ok {
		r.broadcast(protocol.NewGroupUpdated(view))
	}
	r.broadcastGroupsList()
}

func (r *Router) removeMember(in protocol.Inbound) {
	gid := domain.GroupID(in.GroupID)
	removed, emptied := r.registry.RemoveMember(gid, domain.ClientID(in.TargetID))
	if !removed {
		return
	}
	if emptied {
		r.deleteGroup(gid)
		return
	}
	if view, ok := r.registry.GroupView(gid); ok {
		r.broadcast(protocol.NewGroupUpdated(view))
	}
	r.broadcastGroupsList()
}

// deleteGroup broadcasts the deletion and a fresh list. The default group
// and unknown ids are silently protected inside the registry.
func (r *Router) deleteGroup(id domain.GroupID) {
	if !r.registry.DeleteGroup(id) {
		return
	}
	r.broadcast(protocol.NewGroupDeleted(id))
	r.broadcastGroupsList()
}

func (r *Router) broadcast(evt protocol.Outbound) {
	for _, sink := range r.registry.Sinks() {
		sink.Send(evt)
	}
}

func (r *Router) broadcastGroupsList() {
	r.broadcast(protocol.NewGroupsList(r.registry.GroupViews()))
}

// sendToGroup fans an event out to every member except the sender,
// skipping members whose sink is not writable.
func (r *Router) sendToGroup(members []domain.ClientID, sender domain.ClientID, evt protocol.Outbound) {
	for _, id := range members {
		if id == sender {
			continue
		}
		if _, sink, ok := r.registry.Find(id); ok {
			sink.Send(evt)
		}
	}
}

func (r *Router) senderInfo(from domain.ClientID) domain.Client {
	client, _, ok := r.registry.Find(from)
	if !ok {
		return domain.Client{ID: from}
	}
	return client
}

func (r *Router) cleanValue(raw json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return raw
	}
	clean, err := json.Marshal(r.cleanText(s))
	if err != nil {
		return raw
	}
	return clean
}

func (r *Router) cleanText(s string) string {
	t := sanitize.Text(s)
	masked, words := r.censor.Apply(t)
	if len(words) > 0 {
		r.log.Debug("masked blocked words", "count", len(words))
	}
	return masked
}

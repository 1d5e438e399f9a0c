package scenegraph

// EventType names a structural or lifecycle notification.
type EventType string

const (
	EventAdded    EventType = "added"
	EventRemoved  EventType = "removed"
	EventMoved    EventType = "moved"
	EventReplaced EventType = "replaced"
	EventDispose  EventType = "dispose"
)

// Event is delivered to listeners of the node it concerns. Index is the
// child slot involved, or -1 when there is none.
type Event struct {
	Type   EventType
	Target *Node
	Index  int
}

type ListenerID uint64

type Listener func(Event)

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// AddEventListener registers fn for events of type t on n.
func (n *Node) AddEventListener(t EventType, fn Listener) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[EventType][]listenerEntry)
	}
	n.nextListenerID++
	id := n.nextListenerID
	n.listeners[t] = append(n.listeners[t], listenerEntry{id: id, fn: fn})
	return id
}

// RemoveEventListener unregisters a listener. Unknown ids are ignored.
func (n *Node) RemoveEventListener(t EventType, id ListenerID) {
	entries := n.listeners[t]
	for i, e := range entries {
		if e.id == id {
			// copy so an in-flight dispatch keeps its own view
			next := make([]listenerEntry, 0, len(entries)-1)
			next = append(next, entries[:i]...)
			next = append(next, entries[i+1:]...)
			n.listeners[t] = next
			return
		}
	}
}

func (n *Node) HasEventListener(t EventType, id ListenerID) bool {
	for _, e := range n.listeners[t] {
		if e.id == id {
			return true
		}
	}
	return false
}

// OnDispose registers fn to run when Dispose is called on n. The returned
// func unregisters it; calling it more than once is harmless.
func (n *Node) OnDispose(fn func()) (remove func()) {
	id := n.AddEventListener(EventDispose, func(Event) { fn() })
	return func() { n.RemoveEventListener(EventDispose, id) }
}

// ListenerCount is the number of listeners registered for t.
func (n *Node) ListenerCount(t EventType) int { return len(n.listeners[t]) }

func (n *Node) dispatch(t EventType, index int) {
	entries := n.listeners[t]
	if len(entries) == 0 {
		return
	}
	ev := Event{Type: t, Target: n, Index: index}
	for _, e := range entries {
		e.fn(ev)
	}
}

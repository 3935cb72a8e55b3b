package callmodel

// EventKind discriminates the call event union.
type EventKind int

const (
	// EventIncoming carries a freshly modeled ringing call. Never folded
	// into a bulk update.
	EventIncoming EventKind = iota
	// EventDisconnected carries a call in its terminal state, emitted
	// exactly once before the record is removed.
	EventDisconnected
	// EventUpdated carries every record that changed in one engine pass.
	EventUpdated
	// EventPostDial reports post-dial character progress on a call.
	EventPostDial
)

func (k EventKind) String() string {
	switch k {
	case EventIncoming:
		return "incoming"
	case EventDisconnected:
		return "disconnected"
	case EventUpdated:
		return "updated"
	case EventPostDial:
		return "post_dial"
	default:
		return "unknown"
	}
}

// PostDialState is the progress of post-dial character handling.
type PostDialState int

const (
	PostDialStarted PostDialState = iota
	PostDialPause
	PostDialWait
	PostDialWild
	PostDialComplete
)

func (s PostDialState) String() string {
	switch s {
	case PostDialStarted:
		return "started"
	case PostDialPause:
		return "pause"
	case PostDialWait:
		return "wait"
	case PostDialWild:
		return "wild"
	case PostDialComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// PostDialInfo describes one post-dial step on a call.
type PostDialInfo struct {
	State     PostDialState
	CallID    int
	Remaining string
	Char      rune
}

// Event is the tagged union delivered to listeners. Exactly one payload
// field is set, per Kind. Records are snapshots: the engine never mutates
// them after delivery.
type Event struct {
	Kind EventKind

	// Call is set for EventIncoming and EventDisconnected.
	Call *Call
	// Calls is set for EventUpdated.
	Calls []*Call
	// PostDial is set for EventPostDial.
	PostDial *PostDialInfo
}

// Listener receives call events. Calls into a listener are synchronous
// and in registration order; listeners must not block on external I/O.
type Listener interface {
	OnCallEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) OnCallEvent(ev Event) { f(ev) }

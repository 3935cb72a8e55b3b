// Package telephony defines the boundary to the underlying telephony
// layer: raw connection handles, the three mutable connection containers
// (ringing, foreground, background) and the aggregate predicates the
// layer exposes. The callmodel engine only ever reads these types; it
// never owns or mutates them.
package telephony

import "time"

// State is the raw per-connection state as reported by the telephony layer.
type State int

const (
	StateIdle State = iota
	StateActive
	StateHolding
	StateDialing
	StateAlerting
	StateIncoming
	StateWaiting
	StateDisconnected
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateHolding:
		return "holding"
	case StateDialing:
		return "dialing"
	case StateAlerting:
		return "alerting"
	case StateIncoming:
		return "incoming"
	case StateWaiting:
		return "waiting"
	case StateDisconnected:
		return "disconnected"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// Ringing reports whether the state is a ringing transient handled by the
// dedicated incoming path rather than the state sweep.
func (s State) Ringing() bool {
	return s == StateIncoming || s == StateWaiting
}

// Alive reports whether the connection still represents something: it has
// not gone idle or fully disconnected.
func (s State) Alive() bool {
	return s != StateIdle && s != StateDisconnected
}

// Model distinguishes the two structurally different call models the
// engine has to reconcile.
type Model int

const (
	ModelGSM Model = iota
	ModelCDMA
)

func (m Model) String() string {
	if m == ModelCDMA {
		return "cdma"
	}
	return "gsm"
}

// Presentation is the caller-ID presentation rule for a number or name.
type Presentation int

const (
	PresentationAllowed Presentation = iota
	PresentationRestricted
	PresentationUnknown
	PresentationPayphone
)

// Connection is one leg of a call. Implementations must be comparable;
// the engine keys its identity maps by connection value and treats that
// identity as valid only between first sighting and retirement.
type Connection interface {
	State() State
	Number() string
	NumberPresentation() Presentation
	CnapName() string
	CnapNamePresentation() Presentation
	// CreateTime is when the connection first came into existence.
	// Conference parent election uses the earliest live leg.
	CreateTime() time.Time
	// ConnectTime is when the connection went active, zero if it never did.
	ConnectTime() time.Time
	DisconnectCause() Cause
}

// Group is one of the layer's connection containers. The container object
// is reused across unrelated calls; only its current membership matters.
type Group interface {
	Connections() []Connection
	// Multiparty reports whether any of the container's members form a
	// network-level multi-party call.
	Multiparty() bool
}

// Grouper is implemented by containers whose members can split into
// several distinct network-level groupings at once (a foreground
// container may hold two unrelated conference rooms plus a plain call).
// GroupingKey returns a stable key identifying conn's grouping within
// the container, or "" when conn belongs to none; members with
// different keys never form one multi-party call together. Containers
// that do not implement Grouper form a single grouping covering every
// member, gated by Multiparty alone.
type Grouper interface {
	GroupingKey(conn Connection) string
}

// Layer is the telephony substrate the engine reconciles against.
// All reads are in-memory and non-blocking.
type Layer interface {
	Ringing() Group
	Foreground() Group
	Background() Group

	Model() Model

	// Aggregate call-control predicates.
	CanAddCall() bool
	CanMergeCalls() bool
	CanSwapCalls() bool
	CanHoldCall() bool
	SupportsHold() bool

	IsEmergencyNumber(number string) bool
	InEmergencyCallbackMode() bool

	// CanRespondViaText reports whether an SMS-capable default
	// application is available to reject a ringing call with a message.
	CanRespondViaText() bool

	// Redialing reports the externally managed CDMA redial flag; while
	// set, dialing legs surface as redialing.
	Redialing() bool
}

// Package callmodel reconciles the telephony layer's volatile connection
// containers into stable, independently addressable call records that
// downstream consumers (audio routing, Bluetooth, DTMF, the in-call UI
// bridge) can cache and diff.
package callmodel

import (
	"time"

	"github.com/mfinn/callmodel/internal/telephony"
)

// State is the normalized, externally visible state of a call record.
type State int

const (
	StateIdle State = iota
	StateIncoming
	StateCallWaiting
	StateDialing
	StateRedialing
	StateActive
	StateOnHold
	StateConferenced
	StateDisconnecting
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIncoming:
		return "incoming"
	case StateCallWaiting:
		return "call_waiting"
	case StateDialing:
		return "dialing"
	case StateRedialing:
		return "redialing"
	case StateActive:
		return "active"
	case StateOnHold:
		return "on_hold"
	case StateConferenced:
		return "conferenced"
	case StateDisconnecting:
		return "disconnecting"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Live reports whether the state counts as an in-progress call.
func (s State) Live() bool {
	switch s {
	case StateActive, StateCallWaiting, StateConferenced, StateDialing,
		StateRedialing, StateIncoming, StateOnHold, StateDisconnecting:
		return true
	}
	return false
}

// Ringing reports whether the call is waiting to be answered.
func (s State) Ringing() bool {
	return s == StateIncoming || s == StateCallWaiting
}

// Dialing reports whether an outgoing call is being placed.
func (s State) Dialing() bool {
	return s == StateDialing || s == StateRedialing
}

// Capabilities is the bitmask of user-facing actions valid for a record.
type Capabilities uint32

const (
	CapHold Capabilities = 1 << iota
	CapSupportHold
	CapAddCall
	CapMergeCalls
	CapSwapCalls
	CapRespondViaText
	CapMute
	CapGenericConference
)

// Has reports whether every capability in mask is set.
func (c Capabilities) Has(mask Capabilities) bool {
	return c&mask == mask
}

var capabilityNames = []struct {
	cap  Capabilities
	name string
}{
	{CapHold, "hold"},
	{CapSupportHold, "support_hold"},
	{CapAddCall, "add_call"},
	{CapMergeCalls, "merge_calls"},
	{CapSwapCalls, "swap_calls"},
	{CapRespondViaText, "respond_via_text"},
	{CapMute, "mute"},
	{CapGenericConference, "generic_conference"},
}

// Names returns the set capabilities as strings, for logs and payloads.
func (c Capabilities) Names() []string {
	var names []string
	for _, cn := range capabilityNames {
		if c.Has(cn.cap) {
			names = append(names, cn.name)
		}
	}
	return names
}

// Call is one stable call record: either a single leg or the parent record
// of a conference. Records handed to listeners are snapshots and are never
// mutated again by the engine.
type Call struct {
	ID    int
	State State

	// Cause is meaningful only once State is StateDisconnected.
	Cause DisconnectCause

	ConnectTime time.Time

	// Only populated for non-conference records.
	Number               string
	NumberPresentation   telephony.Presentation
	CnapName             string
	CnapNamePresentation telephony.Presentation

	// Set while dialing through a third-party gateway provider.
	GatewayNumber  string
	GatewayPackage string

	// ChildIDs holds the member call IDs of a conference record, ordered
	// by leg creation time. Empty for simple records.
	ChildIDs []int

	Capabilities Capabilities
}

// Conference reports whether this is a conference parent record.
func (c *Call) Conference() bool {
	return len(c.ChildIDs) > 0
}

// Clone returns a deep copy safe to hand across execution contexts.
func (c *Call) Clone() *Call {
	dup := *c
	if c.ChildIDs != nil {
		dup.ChildIDs = append([]int(nil), c.ChildIDs...)
	}
	return &dup
}

func (c *Call) equal(o *Call) bool {
	if c.ID != o.ID || c.State != o.State || c.Cause != o.Cause ||
		!c.ConnectTime.Equal(o.ConnectTime) ||
		c.Number != o.Number || c.NumberPresentation != o.NumberPresentation ||
		c.CnapName != o.CnapName || c.CnapNamePresentation != o.CnapNamePresentation ||
		c.GatewayNumber != o.GatewayNumber || c.GatewayPackage != o.GatewayPackage ||
		c.Capabilities != o.Capabilities ||
		len(c.ChildIDs) != len(o.ChildIDs) {
		return false
	}
	for i, id := range c.ChildIDs {
		if o.ChildIDs[i] != id {
			return false
		}
	}
	return true
}

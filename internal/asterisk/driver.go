package asterisk

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mfinn/callmodel/internal/callmodel"
	"github.com/mfinn/callmodel/internal/telephony"
)

// Clock provides the current time. Defaults to time.Now; override in tests.
type Clock func() time.Time

// chanConn is one tracked call leg, keyed by AMI Linkedid so the two
// Asterisk channels of a plain bridged call collapse into a single
// connection. Implements telephony.Connection.
type chanConn struct {
	linkedID  string
	number    string
	name      string
	state     telephony.State
	created   time.Time
	connected time.Time
	cause     telephony.Cause
	room      string // ConfBridge room, "" when not conferenced
}

func (c *chanConn) State() telephony.State { return c.state }
func (c *chanConn) Number() string         { return c.number }

func (c *chanConn) NumberPresentation() telephony.Presentation {
	if c.number == "" || c.number == "<unknown>" {
		return telephony.PresentationUnknown
	}
	return telephony.PresentationAllowed
}

func (c *chanConn) CnapName() string { return c.name }

func (c *chanConn) CnapNamePresentation() telephony.Presentation {
	if c.name == "" {
		return telephony.PresentationUnknown
	}
	return telephony.PresentationAllowed
}

func (c *chanConn) CreateTime() time.Time            { return c.created }
func (c *chanConn) ConnectTime() time.Time           { return c.connected }
func (c *chanConn) DisconnectCause() telephony.Cause { return c.cause }

// group is a computed container snapshot. Implements telephony.Group
// and telephony.Grouper.
type group struct {
	conns []telephony.Connection
	multi bool
}

func (g *group) Connections() []telephony.Connection { return g.conns }
func (g *group) Multiparty() bool                    { return g.multi }

// GroupingKey partitions the container by ConfBridge room, so two
// simultaneous rooms never merge into one conference and a plain call
// sharing the container with a room is never pulled in.
func (g *group) GroupingKey(conn telephony.Connection) string {
	if c, ok := conn.(*chanConn); ok {
		return c.room
	}
	return ""
}

// Driver projects AMI channel events onto the ringing/foreground/
// background containers and feeds the engine. Implements
// telephony.Layer. Not goroutine safe: the AMI session goroutine is the
// only caller, which also gives the engine its serialized event source.
type Driver struct {
	modeler *callmodel.Modeler
	calls   map[string]*chanConn // by Linkedid
	clock   Clock
	log     *zap.Logger

	emergencyNumbers map[string]bool
}

// NewDriver creates a Driver. Bind must be called before events flow.
func NewDriver(log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		calls: make(map[string]*chanConn),
		clock: time.Now,
		log:   log,
		emergencyNumbers: map[string]bool{
			"911": true, "112": true, "999": true,
		},
	}
}

// Bind attaches the engine fed by this driver. Split from NewDriver
// because the engine needs the driver as its telephony.Layer first.
func (d *Driver) Bind(m *callmodel.Modeler) {
	d.modeler = m
}

// HandleEvent ingests one AMI event, updating container state and
// invoking the engine's matching notification path.
func (d *Driver) HandleEvent(evt Event) {
	if d.modeler == nil || evt.IsResponse() {
		return
	}
	linkedID := evt.Get("Linkedid")
	if linkedID == "" {
		return
	}

	switch evt.Type() {
	case "Newchannel":
		d.handleNewchannel(evt, linkedID)
	case "Newstate":
		d.handleNewstate(evt, linkedID)
	case "Hold":
		d.setState(linkedID, telephony.StateHolding)
	case "Unhold":
		d.setState(linkedID, telephony.StateActive)
	case "ConfbridgeJoin":
		d.setRoom(linkedID, evt.Get("Conference"))
	case "ConfbridgeLeave":
		d.setRoom(linkedID, "")
	case "Hangup":
		d.handleHangup(evt, linkedID)
	}
}

func (d *Driver) handleNewchannel(evt Event, linkedID string) {
	if _, exists := d.calls[linkedID]; exists {
		return
	}
	conn := &chanConn{
		linkedID: linkedID,
		number:   evt.Get("CallerIDNum"),
		name:     evt.Get("CallerIDName"),
		created:  d.clock(),
		state:    stateFromDesc(evt.Get("ChannelStateDesc")),
	}
	d.calls[linkedID] = conn
	d.log.Debug("channel tracked",
		zap.String("linked_id", linkedID),
		zap.Stringer("state", conn.state))

	if conn.state.Ringing() {
		d.modeler.OnNewRingingConnection(conn)
		return
	}
	d.modeler.OnPhoneStateChanged()
}

func (d *Driver) handleNewstate(evt Event, linkedID string) {
	conn := d.calls[linkedID]
	if conn == nil {
		return
	}
	originating := evt.Get("Uniqueid") == linkedID

	switch evt.Get("ChannelStateDesc") {
	case "Ringing":
		if originating {
			// The tracked leg itself started ringing: an incoming call.
			if !conn.state.Ringing() {
				conn.state = telephony.StateIncoming
				d.modeler.OnNewRingingConnection(conn)
			}
			return
		}
		// The far leg is ringing: outbound call progress.
		conn.state = telephony.StateAlerting
	case "Up":
		// Both channels report Up; the first one wins.
		if conn.state == telephony.StateActive {
			return
		}
		if conn.connected.IsZero() {
			conn.connected = d.clock()
		}
		conn.state = telephony.StateActive
	default:
		return
	}
	d.modeler.OnPhoneStateChanged()
}

func (d *Driver) handleHangup(evt Event, linkedID string) {
	conn := d.calls[linkedID]
	if conn == nil {
		return
	}
	// Each channel of the call emits its own Hangup; act once, on the
	// originating channel's.
	if evt.Get("Uniqueid") != linkedID {
		return
	}
	conn.state = telephony.StateDisconnected
	conn.cause = causeFromCode(evt.GetInt("Cause"))
	conn.room = ""
	delete(d.calls, linkedID)
	d.modeler.OnDisconnect(conn)
}

func (d *Driver) setState(linkedID string, st telephony.State) {
	conn := d.calls[linkedID]
	if conn == nil {
		return
	}
	conn.state = st
	d.modeler.OnPhoneStateChanged()
}

func (d *Driver) setRoom(linkedID, room string) {
	conn := d.calls[linkedID]
	if conn == nil {
		return
	}
	conn.room = room
	if room != "" {
		if conn.connected.IsZero() {
			conn.connected = d.clock()
		}
		conn.state = telephony.StateActive
	}
	d.modeler.OnPhoneStateChanged()
}

func stateFromDesc(desc string) telephony.State {
	switch desc {
	case "Ringing":
		return telephony.StateIncoming
	case "Up":
		return telephony.StateActive
	default:
		// "Down", "Rsrvd", "Ring": an originating leg being set up.
		return telephony.StateDialing
	}
}

// causeFromCode maps Q.850 hangup cause codes onto raw telephony causes.
func causeFromCode(code int) telephony.Cause {
	switch code {
	case 1:
		return telephony.CauseUnobtainableNumber
	case 16:
		return telephony.CauseNormal
	case 17:
		return telephony.CauseBusy
	case 18, 19:
		return telephony.CauseIncomingMissed
	case 21:
		return telephony.CauseIncomingRejected
	case 27:
		return telephony.CauseOutOfService
	case 34, 42:
		return telephony.CauseCongestion
	case 29:
		return telephony.CauseCallBarred
	default:
		return telephony.CauseErrorUnspecified
	}
}

// Container views. Recomputed per call; the engine snapshots what it
// needs during a pass.

// Ringing returns the container of unanswered incoming legs.
func (d *Driver) Ringing() telephony.Group {
	return d.groupOf(func(s telephony.State) bool { return s.Ringing() })
}

// Foreground returns the container of active and dialing legs.
func (d *Driver) Foreground() telephony.Group {
	return d.groupOf(func(s telephony.State) bool {
		return s.Alive() && !s.Ringing() && s != telephony.StateHolding
	})
}

// Background returns the container of held legs.
func (d *Driver) Background() telephony.Group {
	return d.groupOf(func(s telephony.State) bool { return s == telephony.StateHolding })
}

func (d *Driver) groupOf(match func(telephony.State) bool) telephony.Group {
	g := &group{}
	rooms := make(map[string]int)
	for _, linkedID := range d.sortedIDs() {
		conn := d.calls[linkedID]
		if !match(conn.state) {
			continue
		}
		g.conns = append(g.conns, conn)
		if conn.room != "" {
			rooms[conn.room]++
			if rooms[conn.room] >= 2 {
				g.multi = true
			}
		}
	}
	return g
}

// sortedIDs returns the tracked linked IDs in stable order. Container
// order breaks conference-parent ties between legs with equal creation
// times, so it must not depend on map iteration.
func (d *Driver) sortedIDs() []string {
	ids := make([]string, 0, len(d.calls))
	for id := range d.calls {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Model reports the substrate call model. Asterisk behaves GSM-style:
// explicit legs, no invisible transitions.
func (d *Driver) Model() telephony.Model { return telephony.ModelGSM }

func (d *Driver) CanAddCall() bool { return len(d.calls) < 6 }

func (d *Driver) CanMergeCalls() bool {
	return len(d.Foreground().Connections()) > 0 && len(d.Background().Connections()) > 0
}

func (d *Driver) CanSwapCalls() bool { return d.CanMergeCalls() }

func (d *Driver) CanHoldCall() bool {
	return len(d.Foreground().Connections()) > 0 && len(d.Background().Connections()) == 0
}

func (d *Driver) SupportsHold() bool { return true }

func (d *Driver) IsEmergencyNumber(number string) bool {
	return d.emergencyNumbers[number]
}

func (d *Driver) InEmergencyCallbackMode() bool { return false }

// CanRespondViaText is false: there is no SMS application behind an
// Asterisk trunk.
func (d *Driver) CanRespondViaText() bool { return false }

func (d *Driver) Redialing() bool { return false }

// TrackedCalls returns the number of calls currently tracked.
func (d *Driver) TrackedCalls() int { return len(d.calls) }

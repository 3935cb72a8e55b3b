package callmodel

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mfinn/callmodel/internal/telephony"
)

// Modeler is the reconciliation engine. It translates the telephony
// layer's three volatile connection containers into stable call records,
// detects conference aggregation, derives capabilities, and fans out
// minimal deltas to listeners.
//
// Telephony events must be delivered serialized (one at a time). The
// internal mutex protects the query methods, which listeners and other
// execution contexts may call concurrently; it is released before
// listener fan-out so a listener can read back the model.
type Modeler struct {
	mu    sync.Mutex
	layer telephony.Layer
	store *Store

	gateway GatewayProvider
	log     *zap.Logger
	metrics *Metrics

	listeners []Listener

	// The CDMA 3-way synthetic outgoing leg, forced to a dialing display
	// state while registered. See isSyntheticDialing.
	cdmaOutgoing telephony.Connection
}

// Option configures a Modeler.
type Option func(*Modeler)

// WithLogger sets the engine logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Modeler) { m.log = log }
}

// WithGatewayProvider sets the third-party gateway resolver.
func WithGatewayProvider(gp GatewayProvider) Option {
	return func(m *Modeler) { m.gateway = gp }
}

// WithMetrics attaches engine metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Modeler) { m.metrics = metrics }
}

// New creates a Modeler over the given telephony layer.
func New(layer telephony.Layer, opts ...Option) *Modeler {
	m := &Modeler{
		layer: layer,
		store: NewStore(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddListener registers a listener. Fan-out follows registration order.
func (m *Modeler) AddListener(l Listener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// RemoveListener unregisters a previously added listener.
func (m *Modeler) RemoveListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, reg := range m.listeners {
		if reg == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// OnNewRingingConnection models a new ringing connection and emits a
// dedicated incoming event. Incoming calls are never folded into a bulk
// update.
func (m *Modeler) OnNewRingingConnection(conn telephony.Connection) {
	if conn == nil {
		m.log.Warn("new ringing connection is nil")
		return
	}
	m.mu.Lock()
	rec, ok := m.store.Simple(conn)
	if !ok {
		rec = m.store.CreateSimple(conn)
	}
	m.updateCallFromConnection(rec.call, conn, nil)
	ev := Event{Kind: EventIncoming, Call: rec.call.Clone()}
	m.log.Debug("incoming call",
		zap.Int("call_id", rec.call.ID),
		zap.String("handle", rec.handle),
		zap.Stringer("state", rec.call.State))
	m.metrics.stored(m.store.Counts())
	m.mu.Unlock()

	m.dispatch(ev)
}

// OnDisconnect models an explicit disconnect for conn: the record gets
// its terminal state and cause, the disconnect event is emitted, and the
// record is removed. If the leg belonged to a conference, a full sweep
// runs in the same logical transaction so the parent's child list (or its
// retirement) is reflected immediately.
func (m *Modeler) OnDisconnect(conn telephony.Connection) {
	if conn == nil {
		m.log.Warn("disconnect for nil connection")
		return
	}
	m.mu.Lock()
	rec, ok := m.store.Simple(conn)
	if !ok {
		m.log.Warn("disconnect for unknown connection",
			zap.Stringer("raw_state", conn.State()))
		m.mu.Unlock()
		return
	}
	if rec.call.State == StateDisconnected {
		// Terminal state is assigned exactly once; a second disconnect
		// for the same record is a programming error upstream.
		m.log.DPanic("record already disconnected",
			zap.Int("call_id", rec.call.ID),
			zap.String("handle", rec.handle))
		m.mu.Unlock()
		return
	}

	wasConference := m.store.InConference(rec.call.ID)

	m.updateCallFromConnection(rec.call, conn, nil)
	rec.call.State = StateDisconnected
	rec.call.Cause = TranslateDisconnectCause(conn.DisconnectCause())

	events := []Event{{Kind: EventDisconnected, Call: rec.call.Clone()}}
	m.log.Debug("call disconnected",
		zap.Int("call_id", rec.call.ID),
		zap.String("handle", rec.handle),
		zap.Stringer("cause", rec.call.Cause))

	m.store.RemoveSimple(conn)
	if m.cdmaOutgoing == conn {
		m.cdmaOutgoing = nil
	}

	if wasConference {
		if changed := m.sweepLocked(); len(changed) > 0 {
			events = append(events, Event{Kind: EventUpdated, Calls: changed})
		}
	}
	m.metrics.stored(m.store.Counts())
	m.mu.Unlock()

	m.dispatch(events...)
}

// OnPhoneStateChanged runs a full reconciliation sweep against the
// layer's current containers and emits one update carrying every changed
// record.
func (m *Modeler) OnPhoneStateChanged() {
	m.mu.Lock()
	changed := m.sweepLocked()
	m.metrics.stored(m.store.Counts())
	m.mu.Unlock()

	if len(changed) > 0 {
		m.dispatch(Event{Kind: EventUpdated, Calls: changed})
	}
}

// OnPostDialChars forwards post-dial character progress for conn's call.
// Unknown connections are logged and dropped.
func (m *Modeler) OnPostDialChars(conn telephony.Connection, state PostDialState, remaining string, ch rune) {
	m.mu.Lock()
	rec, ok := m.store.Simple(conn)
	if !ok {
		m.log.Warn("post dial chars for unknown connection",
			zap.Stringer("post_dial_state", state))
		m.mu.Unlock()
		return
	}
	info := &PostDialInfo{
		State:     state,
		CallID:    rec.call.ID,
		Remaining: remaining,
		Char:      ch,
	}
	m.mu.Unlock()

	m.dispatch(Event{Kind: EventPostDial, PostDial: info})
}

// SetCdmaOutgoing3WayCall registers (or, with nil, clears) the synthetic
// CDMA 3-way outgoing leg. While registered the leg's record always
// reports a dialing state; clearing it triggers a sweep that recomputes
// the true state.
func (m *Modeler) SetCdmaOutgoing3WayCall(conn telephony.Connection) {
	m.mu.Lock()
	m.cdmaOutgoing = conn
	changed := m.sweepLocked()
	m.metrics.stored(m.store.Counts())
	m.mu.Unlock()

	if len(changed) > 0 {
		m.dispatch(Event{Kind: EventUpdated, Calls: changed})
	}
}

// OnCdmaCallWaiting locates the ringing connection carrying the waiting
// call by number and funnels it through the normal incoming path. The
// CDMA layer does not deliver a connection reference with the
// notification.
func (m *Modeler) OnCdmaCallWaiting(number string) {
	var match telephony.Connection
	m.mu.Lock()
	for _, conn := range m.layer.Ringing().Connections() {
		if conn.State().Ringing() && conn.Number() == number {
			match = conn
			break
		}
	}
	m.mu.Unlock()

	if match == nil {
		m.log.Warn("cdma call waiting with no matching ringing connection")
		return
	}
	m.OnNewRingingConnection(match)
}

// OnCdmaCallWaitingReject disconnects the waiting record with a rejected
// cause. CDMA networks drop the waiting leg silently, so the rejection is
// modeled locally.
func (m *Modeler) OnCdmaCallWaitingReject() {
	m.mu.Lock()
	var events []Event
	for _, conn := range m.store.SimpleConnections() {
		rec, _ := m.store.Simple(conn)
		if rec.call.State != StateCallWaiting {
			continue
		}
		rec.call.State = StateDisconnected
		rec.call.Cause = CauseIncomingRejected
		events = append(events, Event{Kind: EventDisconnected, Call: rec.call.Clone()})
		m.store.RemoveSimple(conn)
		break
	}
	if events == nil {
		m.log.Warn("cdma call waiting reject with no waiting call")
	}
	m.metrics.stored(m.store.Counts())
	m.mu.Unlock()

	m.dispatch(events...)
}

// FullUpdate emits an update carrying a snapshot of every live record,
// for late-binding consumers that missed earlier deltas.
func (m *Modeler) FullUpdate() {
	m.mu.Lock()
	var all []*Call
	for _, rec := range m.store.Records() {
		all = append(all, rec.call.Clone())
	}
	m.mu.Unlock()

	if len(all) > 0 {
		m.dispatch(Event{Kind: EventUpdated, Calls: all})
	}
}

// Calls returns a snapshot of every live simple and conference record.
func (m *Modeler) Calls() []*Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]*Call, 0, len(m.store.simple)+len(m.store.conf))
	for _, rec := range m.store.Records() {
		calls = append(calls, rec.call.Clone())
	}
	return calls
}

// CallByID returns a snapshot of the record holding id and its backing
// connection reference.
func (m *Modeler) CallByID(id int) (*Call, telephony.Connection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.store.ByID(id)
	if !ok {
		return nil, nil, false
	}
	return rec.call.Clone(), rec.conn, true
}

// HasLiveCall reports whether any record is in an in-progress state.
func (m *Modeler) HasLiveCall() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.store.Records() {
		if rec.call.State.Live() {
			return true
		}
	}
	return false
}

// HasOutstandingActiveOrDialingCall reports whether any record is active,
// conferenced, or placing an outgoing call.
func (m *Modeler) HasOutstandingActiveOrDialingCall() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.store.Records() {
		st := rec.call.State
		if st == StateActive || st == StateConferenced || st.Dialing() {
			return true
		}
	}
	return false
}

// dispatch fans events out to listeners in registration order. A
// panicking listener is isolated and logged; it must never corrupt
// in-call state.
func (m *Modeler) dispatch(events ...Event) {
	m.mu.Lock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, ev := range events {
		m.metrics.event(ev.Kind)
		for _, l := range listeners {
			m.deliver(l, ev)
		}
	}
}

func (m *Modeler) deliver(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			m.metrics.listenerPanic()
			m.log.Error("listener panicked",
				zap.Stringer("kind", ev.Kind),
				zap.Any("panic", r))
		}
	}()
	l.OnCallEvent(ev)
}

package callmodel

import (
	"go.uber.org/zap"

	"github.com/mfinn/callmodel/internal/telephony"
)

// sweepLocked runs one full reconciliation pass and returns snapshots of
// every record that changed. Callers hold m.mu.
//
// Order matters: orphans are retired first (a record must never vanish
// without a terminal notification), then simple records are translated
// (pass 1), and only then conference records are derived (pass 2), so
// child call IDs are final before any parent's child list is computed.
func (m *Modeler) sweepLocked() []*Call {
	ordered, groups := m.currentConnections()

	current := make(map[telephony.Connection]bool, len(ordered))
	for _, conn := range ordered {
		current[conn] = true
	}

	var changed []*Call
	changed = m.sweepOrphans(current, changed)
	changed = m.updateSimpleRecords(ordered, groups, changed)
	changed = m.updateConferenceRecords(ordered, groups, changed)
	return changed
}

// currentConnections walks the three containers and returns the union of
// their members in container order, plus each connection's owning group.
func (m *Modeler) currentConnections() ([]telephony.Connection, map[telephony.Connection]telephony.Group) {
	var ordered []telephony.Connection
	groups := make(map[telephony.Connection]telephony.Group)
	for _, grp := range []telephony.Group{m.layer.Ringing(), m.layer.Foreground(), m.layer.Background()} {
		for _, conn := range grp.Connections() {
			if _, seen := groups[conn]; seen {
				continue
			}
			groups[conn] = grp
			ordered = append(ordered, conn)
		}
	}
	return ordered, groups
}

// sweepOrphans retires every record whose connection the layer no longer
// reports anywhere, emitting an idle terminal update for each.
func (m *Modeler) sweepOrphans(current map[telephony.Connection]bool, changed []*Call) []*Call {
	for _, conn := range m.store.SimpleConnections() {
		if current[conn] {
			continue
		}
		rec, _ := m.store.Simple(conn)
		rec.call.State = StateIdle
		changed = append(changed, rec.call.Clone())
		m.store.RemoveSimple(conn)
		if m.cdmaOutgoing == conn {
			m.cdmaOutgoing = nil
		}
		m.metrics.orphan()
		m.log.Debug("orphaned connection swept",
			zap.Int("call_id", rec.call.ID),
			zap.String("handle", rec.handle))
	}
	for _, conn := range m.store.ConferenceConnections() {
		if current[conn] {
			continue
		}
		rec, _ := m.store.Conference(conn)
		rec.call.State = StateIdle
		changed = append(changed, rec.call.Clone())
		m.store.RemoveConference(conn)
		m.metrics.orphan()
	}
	return changed
}

// updateSimpleRecords is pass 1: per-connection state translation and
// field population for simple records.
func (m *Modeler) updateSimpleRecords(ordered []telephony.Connection, groups map[telephony.Connection]telephony.Group, changed []*Call) []*Call {
	for _, conn := range ordered {
		raw := conn.State()

		// Ringing transients and dead states belong to the dedicated
		// incoming/disconnect paths, not the sweep.
		shouldUpdate := raw.Alive() && !raw.Ringing()
		// A disconnecting leg may update an existing record but must
		// never originate a brand-new one.
		shouldCreate := shouldUpdate && raw != telephony.StateDisconnecting

		rec, ok := m.store.Simple(conn)
		if !ok {
			if !shouldCreate {
				continue
			}
			rec = m.store.CreateSimple(conn)
		}
		if !shouldUpdate {
			continue
		}
		if m.updateCallFromConnection(rec.call, conn, groups[conn]) {
			changed = append(changed, rec.call.Clone())
		}
	}
	return changed
}

// updateConferenceRecords is pass 2: conference derivation. It reads the
// simple records finalized by pass 1 and never mutates them.
func (m *Modeler) updateConferenceRecords(ordered []telephony.Connection, groups map[telephony.Connection]telephony.Group, changed []*Call) []*Call {
	for _, conn := range ordered {
		grp := groups[conn]
		if m.isConferenceParent(conn, grp) {
			rec, ok := m.store.Conference(conn)
			if !ok {
				rec = m.store.CreateConference(conn)
			}
			prev := rec.call.Clone()
			rec.call.State = StateConferenced
			rec.call.ConnectTime = conn.ConnectTime()
			rec.call.ChildIDs = m.liveChildIDs(grp, conn)
			rec.call.Capabilities = ComputeCapabilities(m.layer, rec.call)
			if !rec.call.equal(prev) {
				changed = append(changed, rec.call.Clone())
			}
			continue
		}
		// The connection no longer anchors a conference; retire the
		// parent record if one existed.
		if rec, ok := m.store.Conference(conn); ok {
			rec.call.State = StateIdle
			rec.call.ChildIDs = nil
			changed = append(changed, rec.call.Clone())
			m.store.RemoveConference(conn)
		}
	}
	return changed
}

// updateCallFromConnection populates call from conn and reports whether
// any field changed. grp may be nil on the dedicated paths, where
// conference overrides cannot apply.
func (m *Modeler) updateCallFromConnection(call *Call, conn telephony.Connection, grp telephony.Group) bool {
	prev := call.Clone()

	call.State = m.translateState(conn, grp)
	call.Cause = TranslateDisconnectCause(conn.DisconnectCause())
	call.ConnectTime = conn.ConnectTime()
	call.Number = conn.Number()
	call.NumberPresentation = conn.NumberPresentation()
	call.CnapName = conn.CnapName()
	call.CnapNamePresentation = conn.CnapNamePresentation()
	m.updateGatewayInfo(call, conn)
	call.Capabilities = ComputeCapabilities(m.layer, call)

	return !call.equal(prev)
}

// translateState maps a raw connection state to the normalized record
// state, applying the synthetic CDMA dialing override and the conference
// override.
func (m *Modeler) translateState(conn telephony.Connection, grp telephony.Group) State {
	if m.isSyntheticDialing(conn) {
		return StateDialing
	}

	var st State
	switch conn.State() {
	case telephony.StateActive:
		st = StateActive
	case telephony.StateIncoming:
		st = StateIncoming
	case telephony.StateWaiting:
		st = StateCallWaiting
	case telephony.StateHolding:
		st = StateOnHold
	case telephony.StateDialing, telephony.StateAlerting:
		if m.layer.Redialing() {
			st = StateRedialing
		} else {
			st = StateDialing
		}
	case telephony.StateDisconnecting:
		st = StateDisconnecting
	case telephony.StateDisconnected:
		st = StateDisconnected
	default:
		st = StateIdle
	}

	if m.isConferenced(conn, grp) {
		st = StateConferenced
	}
	return st
}

// isSyntheticDialing is the single authoritative check for the CDMA
// 3-way synthetic outgoing leg: forced to a dialing display state and
// excluded from conference membership for exactly as long as it is
// registered.
func (m *Modeler) isSyntheticDialing(conn telephony.Connection) bool {
	return m.cdmaOutgoing != nil && m.cdmaOutgoing == conn
}

// conferenceable reports whether a leg counts toward conference
// membership: live, not ringing, and not the synthetic dialing leg.
func (m *Modeler) conferenceable(conn telephony.Connection) bool {
	if m.isSyntheticDialing(conn) {
		return false
	}
	raw := conn.State()
	return raw.Alive() && !raw.Ringing()
}

// subgroupKey returns conn's grouping key within grp. A container that
// does not partition its members forms one implicit grouping covering
// all of them; in a partitioned container an empty key means conn
// belongs to no grouping at all.
func subgroupKey(grp telephony.Group, conn telephony.Connection) (string, bool) {
	g, ok := grp.(telephony.Grouper)
	if !ok {
		return "", true
	}
	key := g.GroupingKey(conn)
	return key, key != ""
}

func (m *Modeler) conferenceableCount(grp telephony.Group, key string) int {
	n := 0
	for _, conn := range grp.Connections() {
		if !m.conferenceable(conn) {
			continue
		}
		if k, ok := subgroupKey(grp, conn); !ok || k != key {
			continue
		}
		n++
	}
	return n
}

// isConferenced reports whether conn is currently a member of a
// multi-party grouping with at least two qualifying legs. Only legs of
// the same sub-grouping count: a plain call sharing the container with a
// conference must never be pulled into it.
func (m *Modeler) isConferenced(conn telephony.Connection, grp telephony.Group) bool {
	if grp == nil || !grp.Multiparty() || !m.conferenceable(conn) {
		return false
	}
	key, ok := subgroupKey(grp, conn)
	if !ok {
		return false
	}
	return m.conferenceableCount(grp, key) >= 2
}

// isConferenceParent reports whether conn anchors its grouping's
// conference record: the earliest-created qualifying leg of a grouping
// with at least two of them. Create-time ties break on container order,
// so exactly one leg per grouping is elected.
func (m *Modeler) isConferenceParent(conn telephony.Connection, grp telephony.Group) bool {
	if grp == nil || !grp.Multiparty() {
		return false
	}
	key, ok := subgroupKey(grp, conn)
	if !ok {
		return false
	}
	return m.conferenceParent(grp, key) == conn
}

func (m *Modeler) conferenceParent(grp telephony.Group, key string) telephony.Connection {
	var parent telephony.Connection
	legs := 0
	for _, conn := range grp.Connections() {
		if !m.conferenceable(conn) {
			continue
		}
		if k, ok := subgroupKey(grp, conn); !ok || k != key {
			continue
		}
		legs++
		if parent == nil || conn.CreateTime().Before(parent.CreateTime()) {
			parent = conn
		}
	}
	if legs < 2 {
		return nil
	}
	return parent
}

// liveChildIDs collects the call IDs of the parent's grouping's
// qualifying legs, ordered by leg creation time.
func (m *Modeler) liveChildIDs(grp telephony.Group, parent telephony.Connection) []int {
	key, _ := subgroupKey(grp, parent)
	var legs []telephony.Connection
	for _, conn := range grp.Connections() {
		if !m.conferenceable(conn) {
			continue
		}
		if k, ok := subgroupKey(grp, conn); !ok || k != key {
			continue
		}
		if _, ok := m.store.Simple(conn); ok {
			legs = append(legs, conn)
		}
	}
	for i := 1; i < len(legs); i++ {
		for j := i; j > 0 && legs[j].CreateTime().Before(legs[j-1].CreateTime()); j-- {
			legs[j], legs[j-1] = legs[j-1], legs[j]
		}
	}
	ids := make([]int, 0, len(legs))
	for _, conn := range legs {
		rec, _ := m.store.Simple(conn)
		ids = append(ids, rec.call.ID)
	}
	return ids
}

// updateGatewayInfo records gateway details while the call is dialing and
// clears them once it leaves a dialing state.
func (m *Modeler) updateGatewayInfo(call *Call, conn telephony.Connection) {
	if m.gateway != nil && call.State.Dialing() {
		if number, pkg, ok := m.gateway.GatewayInfo(conn); ok {
			call.GatewayNumber = number
			call.GatewayPackage = pkg
			return
		}
	}
	call.GatewayNumber = ""
	call.GatewayPackage = ""
}

package callmodel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinn/callmodel/internal/callmodel"
	"github.com/mfinn/callmodel/internal/telephony"
)

// recorder captures every event fanned out by the engine.
type recorder struct {
	events []callmodel.Event
}

func (r *recorder) OnCallEvent(ev callmodel.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) reset() { r.events = nil }

func (r *recorder) kinds() []callmodel.EventKind {
	var ks []callmodel.EventKind
	for _, ev := range r.events {
		ks = append(ks, ev.Kind)
	}
	return ks
}

func newFixture(opts ...callmodel.Option) (*telephony.MockLayer, *callmodel.Modeler, *recorder) {
	layer := telephony.NewMockLayer()
	m := callmodel.New(layer, opts...)
	rec := &recorder{}
	m.AddListener(rec)
	return layer, m, rec
}

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func incomingConn(number string, created time.Time) *telephony.MockConnection {
	return &telephony.MockConnection{
		Num:       number,
		ConnState: telephony.StateIncoming,
		Created:   created,
	}
}

func TestIncomingCallEmitsDedicatedEvent(t *testing.T) {
	layer, m, rec := newFixture()
	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)

	m.OnNewRingingConnection(conn)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventIncoming, ev.Kind)
	require.NotNil(t, ev.Call)
	assert.Equal(t, callmodel.StateIncoming, ev.Call.State)
	assert.Equal(t, "15550001111", ev.Call.Number)
	assert.NotZero(t, ev.Call.ID)
	assert.True(t, ev.Call.Capabilities.Has(callmodel.CapRespondViaText))
	assert.True(t, m.HasLiveCall())
}

func TestRepeatedRingingNotificationReusesRecord(t *testing.T) {
	layer, m, rec := newFixture()
	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)

	m.OnNewRingingConnection(conn)
	m.OnNewRingingConnection(conn)

	require.Len(t, rec.events, 2)
	assert.Equal(t, rec.events[0].Call.ID, rec.events[1].Call.ID)
	assert.Len(t, m.Calls(), 1)
}

func TestAnswerSurfacesAsSingleUpdate(t *testing.T) {
	layer, m, rec := newFixture()
	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)
	rec.reset()

	layer.RingingGroup.Remove(conn)
	conn.ConnState = telephony.StateActive
	conn.Connected = baseTime.Add(5 * time.Second)
	layer.ForegroundGroup.Add(conn)

	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventUpdated, ev.Kind)
	require.Len(t, ev.Calls, 1)
	assert.Equal(t, callmodel.StateActive, ev.Calls[0].State)
	assert.True(t, ev.Calls[0].ConnectTime.Equal(conn.Connected))
	assert.True(t, ev.Calls[0].Capabilities.Has(callmodel.CapMute))
}

func TestSweepWithoutChangesEmitsNothing(t *testing.T) {
	layer, m, rec := newFixture()
	conn := &telephony.MockConnection{
		Num:       "15550001111",
		ConnState: telephony.StateActive,
		Created:   baseTime,
	}
	layer.ForegroundGroup.Add(conn)

	m.OnPhoneStateChanged()
	require.Len(t, rec.events, 1)
	rec.reset()

	m.OnPhoneStateChanged()
	assert.Empty(t, rec.events)
}

func TestDisconnectRemovesRecordAndReportsCause(t *testing.T) {
	layer, m, rec := newFixture()
	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)
	id := rec.events[0].Call.ID
	rec.reset()

	layer.RingingGroup.Remove(conn)
	conn.ConnState = telephony.StateDisconnected
	conn.Cause = telephony.CauseNormal

	m.OnDisconnect(conn)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventDisconnected, ev.Kind)
	assert.Equal(t, id, ev.Call.ID)
	assert.Equal(t, callmodel.StateDisconnected, ev.Call.State)
	assert.Equal(t, callmodel.CauseNormal, ev.Call.Cause)

	assert.False(t, m.HasLiveCall())
	_, _, ok := m.CallByID(id)
	assert.False(t, ok)
}

func TestDisconnectForUnknownConnectionIsDropped(t *testing.T) {
	_, m, rec := newFixture()
	m.OnDisconnect(&telephony.MockConnection{ConnState: telephony.StateDisconnected})
	assert.Empty(t, rec.events)
}

func TestOrphanedRecordRetiredOnSweep(t *testing.T) {
	layer, m, rec := newFixture()
	conn := &telephony.MockConnection{
		Num:       "15550001111",
		ConnState: telephony.StateActive,
		Created:   baseTime,
	}
	layer.ForegroundGroup.Add(conn)
	m.OnPhoneStateChanged()
	id := rec.events[0].Calls[0].ID
	rec.reset()

	// The layer dropped the connection without a disconnect notification.
	layer.ForegroundGroup.Clear()
	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventUpdated, ev.Kind)
	require.Len(t, ev.Calls, 1)
	assert.Equal(t, id, ev.Calls[0].ID)
	assert.Equal(t, callmodel.StateIdle, ev.Calls[0].State)
	assert.False(t, m.HasLiveCall())
}

func TestDisconnectingLegNeverCreatesRecord(t *testing.T) {
	layer, m, rec := newFixture()
	layer.ForegroundGroup.Add(&telephony.MockConnection{
		ConnState: telephony.StateDisconnecting,
		Created:   baseTime,
	})

	m.OnPhoneStateChanged()
	assert.Empty(t, rec.events)
	assert.Empty(t, m.Calls())
}

func TestConferenceDerivation(t *testing.T) {
	layer, m, rec := newFixture()
	legA := &telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateActive,
		Created: baseTime,
	}
	legB := &telephony.MockConnection{
		Num: "15550002222", ConnState: telephony.StateActive,
		Created: baseTime.Add(time.Minute),
	}
	layer.ForegroundGroup.Add(legA, legB)
	layer.ForegroundGroup.Multi = true

	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	require.Equal(t, callmodel.EventUpdated, ev.Kind)
	require.Len(t, ev.Calls, 3)

	// Pass 1 translates the legs, pass 2 appends the parent.
	idA, idB := ev.Calls[0].ID, ev.Calls[1].ID
	assert.Equal(t, callmodel.StateConferenced, ev.Calls[0].State)
	assert.Equal(t, callmodel.StateConferenced, ev.Calls[1].State)

	parent := ev.Calls[2]
	assert.Equal(t, callmodel.StateConferenced, parent.State)
	assert.Equal(t, []int{idA, idB}, parent.ChildIDs)
	assert.NotEqual(t, idA, parent.ID)
	assert.NotEqual(t, idB, parent.ID)
	assert.True(t, parent.Conference())

	// A second sweep with nothing changed is silent.
	rec.reset()
	m.OnPhoneStateChanged()
	assert.Empty(t, rec.events)
}

func TestConferenceChildOrderFollowsCreateTime(t *testing.T) {
	layer, m, rec := newFixture()
	// Container order is newest-first; child IDs must still sort by
	// creation time.
	newer := &telephony.MockConnection{
		Num: "15550002222", ConnState: telephony.StateActive,
		Created: baseTime.Add(time.Minute),
	}
	older := &telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateActive,
		Created: baseTime,
	}
	layer.ForegroundGroup.Add(newer, older)
	layer.ForegroundGroup.Multi = true

	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	calls := rec.events[0].Calls
	require.Len(t, calls, 3)
	idNewer, idOlder := calls[0].ID, calls[1].ID
	assert.Equal(t, []int{idOlder, idNewer}, calls[2].ChildIDs)
}

func TestConferenceRetiredWhenMemberDisconnects(t *testing.T) {
	layer, m, rec := newFixture()
	legA := &telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateActive,
		Created: baseTime,
	}
	legB := &telephony.MockConnection{
		Num: "15550002222", ConnState: telephony.StateActive,
		Created: baseTime.Add(time.Minute),
	}
	layer.ForegroundGroup.Add(legA, legB)
	layer.ForegroundGroup.Multi = true
	m.OnPhoneStateChanged()
	require.Len(t, rec.events, 1)
	parentID := rec.events[0].Calls[2].ID
	idA := rec.events[0].Calls[0].ID
	rec.reset()

	// One leg drops; the layer collapses back to a plain two-party group.
	layer.ForegroundGroup.Remove(legB)
	layer.ForegroundGroup.Multi = false
	legB.ConnState = telephony.StateDisconnected
	legB.Cause = telephony.CauseNormal

	m.OnDisconnect(legB)

	// Disconnect and the follow-up reconciliation land in one transaction.
	require.Equal(t,
		[]callmodel.EventKind{callmodel.EventDisconnected, callmodel.EventUpdated},
		rec.kinds())

	updated := rec.events[1].Calls
	byID := make(map[int]*callmodel.Call, len(updated))
	for _, c := range updated {
		byID[c.ID] = c
	}
	require.Contains(t, byID, idA)
	assert.Equal(t, callmodel.StateActive, byID[idA].State)
	require.Contains(t, byID, parentID)
	assert.Equal(t, callmodel.StateIdle, byID[parentID].State)
	assert.Empty(t, byID[parentID].ChildIDs)

	_, _, ok := m.CallByID(parentID)
	assert.False(t, ok)
}

func TestSyntheticDialingLegForcedAndExcluded(t *testing.T) {
	layer, m, rec := newFixture()
	layer.CallModel = telephony.ModelCDMA

	held := &telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateActive,
		Created: baseTime,
	}
	synthetic := &telephony.MockConnection{
		Num: "15550002222", ConnState: telephony.StateActive,
		Created: baseTime.Add(time.Minute),
	}
	layer.ForegroundGroup.Add(held, synthetic)
	// CDMA reports the pair as multiparty even while the third party is
	// still being dialed.
	layer.ForegroundGroup.Multi = true

	m.SetCdmaOutgoing3WayCall(synthetic)

	require.Len(t, rec.events, 1)
	calls := rec.events[0].Calls
	require.Len(t, calls, 2)

	states := map[string]callmodel.State{}
	for _, c := range calls {
		states[c.Number] = c.State
	}
	// The synthetic leg reports dialing despite its raw active state, and
	// with it excluded the group has only one qualifying leg, so no
	// conference forms.
	assert.Equal(t, callmodel.StateDialing, states["15550002222"])
	assert.Equal(t, callmodel.StateActive, states["15550001111"])
	for _, c := range calls {
		assert.False(t, c.Conference())
	}

	// Clearing the registration restores translated states; now both legs
	// qualify and the conference appears.
	rec.reset()
	m.SetCdmaOutgoing3WayCall(nil)

	require.Len(t, rec.events, 1)
	calls = rec.events[0].Calls
	require.Len(t, calls, 3)
	assert.Equal(t, callmodel.StateConferenced, calls[0].State)
	assert.Equal(t, callmodel.StateConferenced, calls[1].State)
	assert.Len(t, calls[2].ChildIDs, 2)
	assert.True(t, calls[2].Capabilities.Has(callmodel.CapGenericConference))
}

func TestCdmaCallWaitingLocatedByNumber(t *testing.T) {
	layer, m, rec := newFixture()
	layer.CallModel = telephony.ModelCDMA

	waiting := &telephony.MockConnection{
		Num: "15550003333", ConnState: telephony.StateWaiting,
		NumPresentation: telephony.PresentationAllowed,
		Created:         baseTime,
	}
	layer.RingingGroup.Add(waiting)

	m.OnCdmaCallWaiting("15550003333")

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventIncoming, ev.Kind)
	assert.Equal(t, callmodel.StateCallWaiting, ev.Call.State)
	assert.Equal(t, "15550003333", ev.Call.Number)
}

func TestCdmaCallWaitingNoMatchIsDropped(t *testing.T) {
	_, m, rec := newFixture()
	m.OnCdmaCallWaiting("15550009999")
	assert.Empty(t, rec.events)
}

func TestCdmaCallWaitingReject(t *testing.T) {
	layer, m, rec := newFixture()
	layer.CallModel = telephony.ModelCDMA

	waiting := &telephony.MockConnection{
		Num: "15550003333", ConnState: telephony.StateWaiting,
		Created: baseTime,
	}
	layer.RingingGroup.Add(waiting)
	m.OnCdmaCallWaiting("15550003333")
	id := rec.events[0].Call.ID
	rec.reset()

	m.OnCdmaCallWaitingReject()

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventDisconnected, ev.Kind)
	assert.Equal(t, id, ev.Call.ID)
	assert.Equal(t, callmodel.CauseIncomingRejected, ev.Call.Cause)
	_, _, ok := m.CallByID(id)
	assert.False(t, ok)
}

func TestCdmaCallWaitingRejectWithoutWaitingCall(t *testing.T) {
	_, m, rec := newFixture()
	m.OnCdmaCallWaitingReject()
	assert.Empty(t, rec.events)
}

func TestPostDialProgress(t *testing.T) {
	layer, m, rec := newFixture()
	conn := &telephony.MockConnection{
		Num: "15550001111;", ConnState: telephony.StateDialing,
		Created: baseTime,
	}
	layer.ForegroundGroup.Add(conn)
	m.OnPhoneStateChanged()
	id := rec.events[0].Calls[0].ID
	rec.reset()

	m.OnPostDialChars(conn, callmodel.PostDialWait, "123;456", ';')

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	require.Equal(t, callmodel.EventPostDial, ev.Kind)
	assert.Equal(t, id, ev.PostDial.CallID)
	assert.Equal(t, callmodel.PostDialWait, ev.PostDial.State)
	assert.Equal(t, "123;456", ev.PostDial.Remaining)
	assert.Equal(t, ';', ev.PostDial.Char)
}

func TestPostDialForUnknownConnectionIsDropped(t *testing.T) {
	_, m, rec := newFixture()
	m.OnPostDialChars(&telephony.MockConnection{}, callmodel.PostDialStarted, "", 0)
	assert.Empty(t, rec.events)
}

func TestGatewayInfoSetWhileDialingClearedAfter(t *testing.T) {
	conn := &telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateDialing,
		Created: baseTime,
	}
	gp := callmodel.GatewayProviderFunc(func(c telephony.Connection) (string, string, bool) {
		if c == conn {
			return "18005550100", "com.example.gateway", true
		}
		return "", "", false
	})
	layer, m, rec := newFixture(callmodel.WithGatewayProvider(gp))
	layer.ForegroundGroup.Add(conn)

	m.OnPhoneStateChanged()
	require.Len(t, rec.events, 1)
	call := rec.events[0].Calls[0]
	assert.Equal(t, "18005550100", call.GatewayNumber)
	assert.Equal(t, "com.example.gateway", call.GatewayPackage)
	rec.reset()

	conn.ConnState = telephony.StateActive
	conn.Connected = baseTime.Add(10 * time.Second)
	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	call = rec.events[0].Calls[0]
	assert.Equal(t, callmodel.StateActive, call.State)
	assert.Empty(t, call.GatewayNumber)
	assert.Empty(t, call.GatewayPackage)
}

func TestRedialFlagSurfacesDialingAsRedialing(t *testing.T) {
	layer, m, rec := newFixture()
	layer.Redial = true
	layer.ForegroundGroup.Add(&telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateAlerting,
		Created: baseTime,
	})

	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	assert.Equal(t, callmodel.StateRedialing, rec.events[0].Calls[0].State)
	assert.True(t, m.HasOutstandingActiveOrDialingCall())
}

func TestFullUpdateSnapshotsEveryRecord(t *testing.T) {
	layer, m, rec := newFixture()
	layer.ForegroundGroup.Add(&telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateActive, Created: baseTime,
	})
	layer.BackgroundGroup.Add(&telephony.MockConnection{
		Num: "15550002222", ConnState: telephony.StateHolding,
		Created: baseTime.Add(time.Minute),
	})
	m.OnPhoneStateChanged()
	rec.reset()

	m.FullUpdate()

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, callmodel.EventUpdated, ev.Kind)
	assert.Len(t, ev.Calls, 2)
}

func TestFullUpdateWithNoRecordsEmitsNothing(t *testing.T) {
	_, m, rec := newFixture()
	m.FullUpdate()
	assert.Empty(t, rec.events)
}

func TestHasOutstandingActiveOrDialingCall(t *testing.T) {
	layer, m, _ := newFixture()
	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)

	// Ringing counts as live but not as active-or-dialing.
	assert.True(t, m.HasLiveCall())
	assert.False(t, m.HasOutstandingActiveOrDialingCall())

	layer.RingingGroup.Remove(conn)
	conn.ConnState = telephony.StateActive
	layer.ForegroundGroup.Add(conn)
	m.OnPhoneStateChanged()

	assert.True(t, m.HasOutstandingActiveOrDialingCall())
}

func TestListenerPanicIsIsolated(t *testing.T) {
	layer, m, _ := newFixture()

	var after []callmodel.EventKind
	m.AddListener(callmodel.ListenerFunc(func(callmodel.Event) {
		panic("listener bug")
	}))
	m.AddListener(callmodel.ListenerFunc(func(ev callmodel.Event) {
		after = append(after, ev.Kind)
	}))

	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)

	// The panicking listener must not starve the ones after it, and the
	// record must survive intact.
	assert.Equal(t, []callmodel.EventKind{callmodel.EventIncoming}, after)
	assert.Len(t, m.Calls(), 1)
}

func TestRemoveListener(t *testing.T) {
	layer, m, rec := newFixture()
	m.RemoveListener(rec)

	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)

	assert.Empty(t, rec.events)
}

func TestListenerCanQueryModelDuringFanOut(t *testing.T) {
	layer, m, _ := newFixture()

	var seenLive bool
	m.AddListener(callmodel.ListenerFunc(func(ev callmodel.Event) {
		// Fan-out happens outside the engine lock, so queries from a
		// listener must not deadlock.
		seenLive = m.HasLiveCall()
	}))

	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)

	assert.True(t, seenLive)
}

// partitionedGroup splits its members into named sub-groupings the way
// a driver tracking several conference rooms at once would.
type partitionedGroup struct {
	telephony.MockGroup
	keys map[telephony.Connection]string
}

func (g *partitionedGroup) GroupingKey(conn telephony.Connection) string {
	return g.keys[conn]
}

type partitionedLayer struct {
	*telephony.MockLayer
	fg *partitionedGroup
}

func (l *partitionedLayer) Foreground() telephony.Group { return l.fg }

func newPartitionedFixture() (*partitionedGroup, *callmodel.Modeler, *recorder) {
	fg := &partitionedGroup{keys: make(map[telephony.Connection]string)}
	layer := &partitionedLayer{MockLayer: telephony.NewMockLayer(), fg: fg}
	m := callmodel.New(layer)
	rec := &recorder{}
	m.AddListener(rec)
	return fg, m, rec
}

func TestCallOutsideGroupingNotPulledIntoConference(t *testing.T) {
	fg, m, rec := newPartitionedFixture()

	legA := &telephony.MockConnection{
		Num: "15550001111", ConnState: telephony.StateActive,
		Created: baseTime,
	}
	legB := &telephony.MockConnection{
		Num: "15550002222", ConnState: telephony.StateActive,
		Created: baseTime.Add(time.Minute),
	}
	solo := &telephony.MockConnection{
		Num: "15550003333", ConnState: telephony.StateActive,
		Created: baseTime.Add(2 * time.Minute),
	}
	fg.Add(legA, legB, solo)
	fg.Multi = true
	fg.keys[legA] = "room-1"
	fg.keys[legB] = "room-1"

	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	calls := rec.events[0].Calls
	require.Len(t, calls, 4)

	byNumber := make(map[string]*callmodel.Call)
	var parent *callmodel.Call
	for _, c := range calls {
		if c.Conference() {
			parent = c
			continue
		}
		byNumber[c.Number] = c
	}
	require.NotNil(t, parent)
	assert.Equal(t, callmodel.StateConferenced, byNumber["15550001111"].State)
	assert.Equal(t, callmodel.StateConferenced, byNumber["15550002222"].State)
	assert.Equal(t, callmodel.StateActive, byNumber["15550003333"].State)

	assert.Len(t, parent.ChildIDs, 2)
	assert.NotContains(t, parent.ChildIDs, byNumber["15550003333"].ID)
}

func TestSimultaneousGroupingsStayDistinct(t *testing.T) {
	fg, m, rec := newPartitionedFixture()

	var conns []*telephony.MockConnection
	for i, number := range []string{"15550001111", "15550002222", "15550003333", "15550004444"} {
		conn := &telephony.MockConnection{
			Num: number, ConnState: telephony.StateActive,
			Created: baseTime.Add(time.Duration(i) * time.Minute),
		}
		conns = append(conns, conn)
		fg.Add(conn)
	}
	fg.Multi = true
	fg.keys[conns[0]] = "room-1"
	fg.keys[conns[1]] = "room-1"
	fg.keys[conns[2]] = "room-2"
	fg.keys[conns[3]] = "room-2"

	m.OnPhoneStateChanged()

	require.Len(t, rec.events, 1)
	calls := rec.events[0].Calls
	require.Len(t, calls, 6)

	byNumber := make(map[string]*callmodel.Call)
	var parents []*callmodel.Call
	for _, c := range calls {
		if c.Conference() {
			parents = append(parents, c)
			continue
		}
		assert.Equal(t, callmodel.StateConferenced, c.State)
		byNumber[c.Number] = c
	}
	require.Len(t, parents, 2)

	want := [][]int{
		{byNumber["15550001111"].ID, byNumber["15550002222"].ID},
		{byNumber["15550003333"].ID, byNumber["15550004444"].ID},
	}
	got := [][]int{parents[0].ChildIDs, parents[1].ChildIDs}
	assert.ElementsMatch(t, want, got)
}

func TestCallByIDReturnsSnapshot(t *testing.T) {
	layer, m, rec := newFixture()
	conn := incomingConn("15550001111", baseTime)
	layer.RingingGroup.Add(conn)
	m.OnNewRingingConnection(conn)
	id := rec.events[0].Call.ID

	call, got, ok := m.CallByID(id)
	require.True(t, ok)
	assert.Equal(t, conn, got)

	// Mutating the snapshot must not leak into the engine's record.
	call.Number = "tampered"
	fresh, _, _ := m.CallByID(id)
	assert.Equal(t, "15550001111", fresh.Number)
}

package telephony

import "time"

// MockConnection is a settable Connection for tests. Compare by pointer.
type MockConnection struct {
	Num              string
	NumPresentation  Presentation
	Name             string
	NamePresentation Presentation
	ConnState        State
	Created          time.Time
	Connected        time.Time
	Cause            Cause
}

func (c *MockConnection) State() State                       { return c.ConnState }
func (c *MockConnection) Number() string                     { return c.Num }
func (c *MockConnection) NumberPresentation() Presentation   { return c.NumPresentation }
func (c *MockConnection) CnapName() string                   { return c.Name }
func (c *MockConnection) CnapNamePresentation() Presentation { return c.NamePresentation }
func (c *MockConnection) CreateTime() time.Time              { return c.Created }
func (c *MockConnection) ConnectTime() time.Time             { return c.Connected }
func (c *MockConnection) DisconnectCause() Cause             { return c.Cause }

// MockGroup is a settable Group for tests.
type MockGroup struct {
	Conns []Connection
	Multi bool
}

func (g *MockGroup) Connections() []Connection { return g.Conns }
func (g *MockGroup) Multiparty() bool          { return g.Multi }

// Add appends connections to the group.
func (g *MockGroup) Add(conns ...Connection) {
	g.Conns = append(g.Conns, conns...)
}

// Remove drops a connection from the group if present.
func (g *MockGroup) Remove(conn Connection) {
	for i, c := range g.Conns {
		if c == conn {
			g.Conns = append(g.Conns[:i], g.Conns[i+1:]...)
			return
		}
	}
}

// Clear empties the group and resets the multiparty flag.
func (g *MockGroup) Clear() {
	g.Conns = nil
	g.Multi = false
}

// MockLayer is a settable Layer for tests.
type MockLayer struct {
	RingingGroup    MockGroup
	ForegroundGroup MockGroup
	BackgroundGroup MockGroup

	CallModel Model

	AddOK         bool
	MergeOK       bool
	SwapOK        bool
	HoldOK        bool
	HoldSupported bool
	TextOK        bool

	EmergencyNumbers map[string]bool
	ECM              bool
	Redial           bool
}

// NewMockLayer returns a layer with permissive call-control predicates.
func NewMockLayer() *MockLayer {
	return &MockLayer{
		AddOK:         true,
		MergeOK:       true,
		SwapOK:        true,
		HoldOK:        true,
		HoldSupported: true,
		TextOK:        true,
	}
}

func (l *MockLayer) Ringing() Group    { return &l.RingingGroup }
func (l *MockLayer) Foreground() Group { return &l.ForegroundGroup }
func (l *MockLayer) Background() Group { return &l.BackgroundGroup }

func (l *MockLayer) Model() Model        { return l.CallModel }
func (l *MockLayer) CanAddCall() bool    { return l.AddOK }
func (l *MockLayer) CanMergeCalls() bool { return l.MergeOK }
func (l *MockLayer) CanSwapCalls() bool  { return l.SwapOK }
func (l *MockLayer) CanHoldCall() bool   { return l.HoldOK }
func (l *MockLayer) SupportsHold() bool  { return l.HoldSupported }

func (l *MockLayer) IsEmergencyNumber(number string) bool { return l.EmergencyNumbers[number] }
func (l *MockLayer) InEmergencyCallbackMode() bool        { return l.ECM }
func (l *MockLayer) CanRespondViaText() bool              { return l.TextOK }
func (l *MockLayer) Redialing() bool                      { return l.Redial }

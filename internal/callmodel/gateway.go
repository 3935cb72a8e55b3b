package callmodel

import "github.com/mfinn/callmodel/internal/telephony"

// GatewayProvider resolves third-party provider gateway details for an
// outgoing connection. The engine records gateway info while the call is
// in a dialing state and clears it once the call leaves it.
type GatewayProvider interface {
	// GatewayInfo returns the gateway number and providing package for
	// conn, or ok=false when the call was not placed through a gateway.
	GatewayInfo(conn telephony.Connection) (number, pkg string, ok bool)
}

// GatewayProviderFunc adapts a function to the GatewayProvider interface.
type GatewayProviderFunc func(telephony.Connection) (string, string, bool)

func (f GatewayProviderFunc) GatewayInfo(conn telephony.Connection) (string, string, bool) {
	return f(conn)
}

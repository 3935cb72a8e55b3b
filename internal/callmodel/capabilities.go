package callmodel

import (
	"strings"

	"github.com/mfinn/callmodel/internal/telephony"
)

// ComputeCapabilities derives the capability bitmask for a record from its
// current state and the layer's aggregate predicates. Pure: no side
// effects, safe to call redundantly, identical inputs yield identical
// output.
func ComputeCapabilities(layer telephony.Layer, call *Call) Capabilities {
	var caps Capabilities
	cdma := layer.Model() == telephony.ModelCDMA

	if layer.SupportsHold() {
		caps |= CapSupportHold
	}
	if layer.CanHoldCall() {
		caps |= CapHold
	}

	// CDMA networks manage the extra leg themselves, so adding is always
	// offered there.
	if cdma || layer.CanAddCall() {
		caps |= CapAddCall
	}

	if call.State == StateActive {
		if layer.CanMergeCalls() {
			caps |= CapMergeCalls
		}
		if layer.CanSwapCalls() {
			caps |= CapSwapCalls
		}
		if !layer.IsEmergencyNumber(call.Number) && !layer.InEmergencyCallbackMode() {
			caps |= CapMute
		}
	}

	if cdma && call.Conference() {
		caps |= CapGenericConference
	}

	if canRespondViaText(layer, call) {
		caps |= CapRespondViaText
	}

	return caps
}

func canRespondViaText(layer telephony.Layer, call *Call) bool {
	if !call.State.Ringing() {
		return false
	}
	if call.Number == "" || isURINumber(call.Number) {
		return false
	}
	if call.NumberPresentation != telephony.PresentationAllowed {
		return false
	}
	return layer.CanRespondViaText()
}

// isURINumber reports whether the number is a SIP-style address rather
// than a dialable number ("%40" is an escaped "@").
func isURINumber(number string) bool {
	return strings.Contains(number, "@") || strings.Contains(number, "%40")
}

package callmodel

import "github.com/mfinn/callmodel/internal/telephony"

// DisconnectCause is the normalized disconnect cause surfaced on a record.
type DisconnectCause int

const (
	CauseUnknown DisconnectCause = iota
	CauseNotDisconnected
	CauseIncomingMissed
	CauseNormal
	CauseLocal
	CauseBusy
	CauseCongestion
	CauseInvalidNumber
	CauseNumberUnreachable
	CauseServerUnreachable
	CauseInvalidCredentials
	CauseOutOfNetwork
	CauseServerError
	CauseTimedOut
	CauseLostSignal
	CauseLimitExceeded
	CauseIncomingRejected
	CausePowerOff
	CauseOutOfService
	CauseICCError
	CauseCallBarred
	CauseFDNBlocked
	CauseRestricted
	CauseUnobtainableNumber
	CauseCDMALockedUntilPowerCycle
	CauseCDMADrop
	CauseCDMAIntercept
	CauseCDMAReorder
	CauseCDMASORejected
	CauseCDMARetryOrder
	CauseCDMAAccessFailure
	CauseCDMAPreempted
	CauseCDMANotEmergency
	CauseCDMAAccessBlocked
)

func (c DisconnectCause) String() string {
	if c >= 0 && int(c) < len(causeNames) {
		return causeNames[c]
	}
	return "unknown"
}

var causeNames = []string{
	"unknown",
	"not_disconnected",
	"incoming_missed",
	"normal",
	"local",
	"busy",
	"congestion",
	"invalid_number",
	"number_unreachable",
	"server_unreachable",
	"invalid_credentials",
	"out_of_network",
	"server_error",
	"timed_out",
	"lost_signal",
	"limit_exceeded",
	"incoming_rejected",
	"power_off",
	"out_of_service",
	"icc_error",
	"call_barred",
	"fdn_blocked",
	"restricted",
	"unobtainable_number",
	"cdma_locked_until_power_cycle",
	"cdma_drop",
	"cdma_intercept",
	"cdma_reorder",
	"cdma_so_rejected",
	"cdma_retry_order",
	"cdma_access_failure",
	"cdma_preempted",
	"cdma_not_emergency",
	"cdma_access_blocked",
}

// TranslateDisconnectCause maps a raw telephony cause to its normalized
// value. Any raw cause without an explicit arm resolves to CauseUnknown;
// that is the defined behavior for causes intentionally not distinguished.
func TranslateDisconnectCause(raw telephony.Cause) DisconnectCause {
	switch raw {
	case telephony.CauseNotDisconnected:
		return CauseNotDisconnected
	case telephony.CauseIncomingMissed:
		return CauseIncomingMissed
	case telephony.CauseNormal:
		return CauseNormal
	case telephony.CauseLocal:
		return CauseLocal
	case telephony.CauseBusy:
		return CauseBusy
	case telephony.CauseCongestion:
		return CauseCongestion
	case telephony.CauseInvalidNumber:
		return CauseInvalidNumber
	case telephony.CauseNumberUnreachable:
		return CauseNumberUnreachable
	case telephony.CauseServerUnreachable:
		return CauseServerUnreachable
	case telephony.CauseInvalidCredentials:
		return CauseInvalidCredentials
	case telephony.CauseOutOfNetwork:
		return CauseOutOfNetwork
	case telephony.CauseServerError:
		return CauseServerError
	case telephony.CauseTimedOut:
		return CauseTimedOut
	case telephony.CauseLostSignal:
		return CauseLostSignal
	case telephony.CauseLimitExceeded:
		return CauseLimitExceeded
	case telephony.CauseIncomingRejected:
		return CauseIncomingRejected
	case telephony.CausePowerOff:
		return CausePowerOff
	case telephony.CauseOutOfService:
		return CauseOutOfService
	case telephony.CauseICCError:
		return CauseICCError
	case telephony.CauseCallBarred:
		return CauseCallBarred
	case telephony.CauseFDNBlocked:
		return CauseFDNBlocked
	case telephony.CauseCSRestricted,
		telephony.CauseCSRestrictedNormal,
		telephony.CauseCSRestrictedEmergency:
		// The three CS restriction flavors are not distinguished upstream.
		return CauseRestricted
	case telephony.CauseUnobtainableNumber:
		return CauseUnobtainableNumber
	case telephony.CauseCDMALockedUntilPowerCycle:
		return CauseCDMALockedUntilPowerCycle
	case telephony.CauseCDMADrop:
		return CauseCDMADrop
	case telephony.CauseCDMAIntercept:
		return CauseCDMAIntercept
	case telephony.CauseCDMAReorder:
		return CauseCDMAReorder
	case telephony.CauseCDMASORejected:
		return CauseCDMASORejected
	case telephony.CauseCDMARetryOrder:
		return CauseCDMARetryOrder
	case telephony.CauseCDMAAccessFailure:
		return CauseCDMAAccessFailure
	case telephony.CauseCDMAPreempted:
		return CauseCDMAPreempted
	case telephony.CauseCDMANotEmergency:
		return CauseCDMANotEmergency
	case telephony.CauseCDMAAccessBlocked:
		return CauseCDMAAccessBlocked
	default:
		return CauseUnknown
	}
}

package telephony

// Cause is the raw disconnect cause reported by the telephony layer for a
// disconnected connection.
type Cause int

const (
	CauseNotDisconnected Cause = iota
	CauseIncomingMissed
	CauseNormal
	CauseLocal
	CauseBusy
	CauseCongestion
	CauseMMI
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
	CauseCSRestricted
	CauseCSRestrictedNormal
	CauseCSRestrictedEmergency
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
	CauseErrorUnspecified
)

package ndn

// NackReason is the reason code carried by a Network Nack.
// Values and ordering match NDNLPv2: a higher value is a more severe
// Nack, and PIT aggregation keeps the least severe one.
type NackReason uint64

const (
	NackReasonNone       NackReason = 0
	NackReasonCongestion NackReason = 50
	NackReasonDuplicate  NackReason = 100
	NackReasonNoRoute    NackReason = 150
)

func (r NackReason) String() string {
	switch r {
	case NackReasonNone:
		return "None"
	case NackReasonCongestion:
		return "Congestion"
	case NackReasonDuplicate:
		return "Duplicate"
	case NackReasonNoRoute:
		return "NoRoute"
	default:
		return "Unknown"
	}
}

// Less returns true if r is a less severe Nack reason than other.
// Used by PIT aggregation to keep the least severe Nack seen so far.
func (r NackReason) Less(other NackReason) bool {
	return r < other
}

// Nack is a received Network Nack: the original Interest plus a reason.
type Nack struct {
	Interest Interest
	Reason   NackReason
}

package ndn

import (
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/types/optional"
)

// ExpressCallbackFunc is called at most once per expressed Interest, with
// the final outcome of that Interest (Data, Nack, timeout, or error). It
// is not called once the Interest's handle is cancelled or the Interest
// is removed by RemoveAllPendingInterests.
type ExpressCallbackFunc func(args ExpressCallbackArgs)

// ExpressCallbackArgs carries the outcome of an expressed Interest.
type ExpressCallbackArgs struct {
	// Result of the Interest expression.
	Result InterestResult
	// Data fetched, valid only if Result is InterestResultData.
	Data Data
	// Raw Data wire, valid only if Result is InterestResultData.
	RawData enc.Wire
	// Signature covered part of the Data.
	SigCovered enc.Wire
	// NackReason, valid only if Result is InterestResultNack.
	NackReason NackReason
	// Error, valid only if Result is InterestResultError.
	Error error
}

// InterestHandler is the callback registered via SetInterestFilter.
// It must not block the Face's event loop; long-running work should be
// handed off to another goroutine, with the reply posted back later.
type InterestHandler func(args InterestHandlerArgs)

// InterestHandlerArgs carries a matched Interest and the means to reply.
type InterestHandlerArgs struct {
	// Interest that matched the filter.
	Interest Interest
	// Reply sends a Data or Nack in response to this Interest.
	Reply WireReplyFunc
	// RawInterest is the raw wire of the received Interest.
	RawInterest enc.Wire
	// SigCovered is the signed portion of the Interest, if signed.
	SigCovered enc.Wire
	// Deadline is the point in time the Interest will stop being routable.
	Deadline time.Time
	// IncomingFaceId is the forwarder-assigned id of the face the Interest
	// arrived on, if the forwarder attached the tag.
	IncomingFaceId optional.Optional[uint64]
}

// WireReplyFunc sends an encoded Data or Nack wire in reply to an Interest.
type WireReplyFunc func(wire enc.Wire) error

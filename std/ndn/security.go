package ndn

import (
	"time"

	enc "github.com/ndn-go/face/std/encoding"
)

// Signature is the abstract of the signature of a packet.
// Some of the fields are invalid for Data or Interest.
type Signature interface {
	SigType() SigType
	KeyName() enc.Name
	SigNonce() []byte
	SigTime() *time.Time
	SigSeqNum() *uint64
	Validity() (notBefore, notAfter *time.Time)
	SigValue() []byte
}

// Signer is the interface of a NDN packet signer.
//
// The Face treats signing as a black box: it never inspects key material
// and never validates an incoming signature against it. A Signer is
// passed to Express for an outgoing Interest and set with SetSigner for
// management commands and announcements; the Face forwards it to the
// packet encoder unchanged.
type Signer interface {
	// Type returns the signature type.
	Type() SigType
	// KeyName returns the key name of the signer.
	KeyName() enc.Name
	// EstimateSize gives the approximate size of the signature in bytes.
	EstimateSize() uint
	// Sign computes the signature value of a wire.
	Sign(enc.Wire) ([]byte, error)
	// Public returns the public key of the signer or nil.
	Public() ([]byte, error)
}

package ndn

import (
	"bytes"
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/types/optional"
)

// Small hand-written TLV encoding helpers. These stand in for the
// code-generated marshalling this repo's corpus normally relies on: the
// generator's output was not available in committed form, so encoding is
// written directly against the primitives in the encoding package.

func appendTL(buf *bytes.Buffer, typ enc.TLNum, length int) {
	tmp := make(enc.Buffer, typ.EncodingLength())
	typ.EncodeInto(tmp)
	buf.Write(tmp)
	l := enc.TLNum(length)
	tmp = make(enc.Buffer, l.EncodingLength())
	l.EncodeInto(tmp)
	buf.Write(tmp)
}

func appendNat(buf *bytes.Buffer, typ enc.TLNum, v uint64) {
	n := enc.Nat(v)
	appendTL(buf, typ, n.EncodingLength())
	buf.Write(n.Bytes())
}

func appendEmpty(buf *bytes.Buffer, typ enc.TLNum) {
	appendTL(buf, typ, 0)
}

func appendBytes(buf *bytes.Buffer, typ enc.TLNum, v []byte) {
	appendTL(buf, typ, len(v))
	buf.Write(v)
}

func appendWire(buf *bytes.Buffer, typ enc.TLNum, w enc.Wire) {
	appendTL(buf, typ, int(w.Length()))
	for _, seg := range w {
		buf.Write(seg)
	}
}

func appendName(buf *bytes.Buffer, n enc.Name) {
	l := n.EncodingLength()
	appendTL(buf, TypeNameComponent, l)
	tmp := make(enc.Buffer, l)
	n.EncodeInto(tmp)
	buf.Write(tmp)
}

// TypeNameComponent is the Name TLV type (0x07), named distinctly from
// encoding.TypeGenericNameComponent to avoid confusion with a component.
const TypeNameComponent enc.TLNum = 0x07

// sigInfoExtra carries the SignatureInfo fields that do not come from
// the Signer itself: signed-Interest freshness fields on one side,
// certificate validity on the other. A packet only ever populates one
// of the two groups.
type sigInfoExtra struct {
	nonce     []byte
	sigTime   optional.Optional[time.Duration]
	seqNum    optional.Optional[uint64]
	notBefore optional.Optional[time.Time]
	notAfter  optional.Optional[time.Time]
}

// encodeSigInfo appends a SignatureInfo/InterestSignatureInfo element
// (infoTyp) followed, on return, by nothing: the caller appends the
// matching SignatureValue/InterestSignatureValue element itself once the
// signature bytes are computed, since that requires the sigCovered wire.
func encodeSigInfo(infoTyp enc.TLNum, sig Signer, extra sigInfoExtra) []byte {
	if sig == nil || sig.Type() == SignatureNone {
		return nil
	}
	inner := new(bytes.Buffer)
	appendNat(inner, TypeSignatureType, uint64(sig.Type()))
	if name := sig.KeyName(); name != nil {
		klInner := new(bytes.Buffer)
		appendName(klInner, name)
		klOuter := new(bytes.Buffer)
		appendTL(klOuter, TypeKeyLocator, klInner.Len())
		klOuter.Write(klInner.Bytes())
		inner.Write(klOuter.Bytes())
	}
	if len(extra.nonce) > 0 {
		appendBytes(inner, TypeSignatureNonce, extra.nonce)
	}
	if t, ok := extra.sigTime.Get(); ok {
		appendNat(inner, TypeSignatureTime, uint64(t/time.Millisecond))
	}
	if n, ok := extra.seqNum.Get(); ok {
		appendNat(inner, TypeSignatureSeqNum, n)
	}
	if nb, ok := extra.notBefore.Get(); ok {
		if na, ok2 := extra.notAfter.Get(); ok2 {
			vpInner := new(bytes.Buffer)
			appendBytes(vpInner, TypeNotBefore, []byte(formatValidityTime(nb)))
			appendBytes(vpInner, TypeNotAfter, []byte(formatValidityTime(na)))
			appendTL(inner, TypeValidityPeriod, vpInner.Len())
			inner.Write(vpInner.Bytes())
		}
	}
	outer := new(bytes.Buffer)
	appendTL(outer, infoTyp, inner.Len())
	outer.Write(inner.Bytes())
	return outer.Bytes()
}

// formatValidityTime renders t in the ISO 8601 basic format ndn-cxx
// uses for ValidityPeriod bounds ("20231001T000000").
func formatValidityTime(t time.Time) string {
	return t.UTC().Format("20060102T150405")
}

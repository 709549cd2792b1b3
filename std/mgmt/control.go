// Package mgmt implements the client side of NFD's management
// protocol: encoding ControlParameters Interests for the rib module
// and parsing the ControlResponse that comes back. The struct-tagged,
// code-generated ControlArgs/ControlResponse types this repo's corpus
// normally relies on were not available in committed form, so both
// are hand-encoded here directly against the same TLV primitives the
// packet codec uses.
package mgmt

import (
	"bytes"

	enc "github.com/ndn-go/face/std/encoding"
)

// RouteFlag values for ControlArgs.Flags.
type RouteFlag uint64

const (
	RouteFlagNoFlag       RouteFlag = 0
	RouteFlagChildInherit RouteFlag = 1
	RouteFlagCapture      RouteFlag = 2
)

// RouteOrigin values for ControlArgs.Origin.
type RouteOrigin uint64

const (
	RouteOriginApp       RouteOrigin = 0
	RouteOriginAutoreg   RouteOrigin = 64
	RouteOriginClient    RouteOrigin = 65
	RouteOriginAutoconf  RouteOrigin = 66
	RouteOriginNLSR      RouteOrigin = 128
	RouteOriginPrefixAnn RouteOrigin = 129
	RouteOriginStatic    RouteOrigin = 255
)

// ControlArgs is the parameter set carried inside a rib/register,
// rib/unregister, or rib/announce command Interest, and echoed back
// (possibly completed with server-assigned defaults) in the
// ControlResponse body. Fields are pointers so a field can be omitted
// from the wire entirely rather than sent as a zero value, matching
// ControlParameters' optional-field TLV semantics.
type ControlArgs struct {
	Name             enc.Name
	FaceId           *uint64
	Origin           *uint64
	Cost             *uint64
	Flags            *uint64
	ExpirationPeriod *uint64 // milliseconds
}

// TLV type numbers for ControlParameters, per the NFD management
// protocol's parameters.t file.
const (
	typeControlParameters enc.TLNum = 0x68
	typeFaceId             enc.TLNum = 0x69
	typeOrigin             enc.TLNum = 0x6f
	typeCost               enc.TLNum = 0x6a
	typeFlags              enc.TLNum = 0x6c
	typeExpirationPeriod   enc.TLNum = 0x6d
	typeControlResponse    enc.TLNum = 0x65
	typeStatusCode         enc.TLNum = 0x66
	typeStatusText         enc.TLNum = 0x67
)

// nameComponentType mirrors the Name TLV type used elsewhere in this
// module so ControlParameters can carry a nested Name element.
const nameComponentType enc.TLNum = 0x07

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

func appendBytes(buf *bytes.Buffer, typ enc.TLNum, v []byte) {
	appendTL(buf, typ, len(v))
	buf.Write(v)
}

// Encode renders a as a ControlParameters TLV block.
func (a *ControlArgs) Encode() []byte {
	inner := new(bytes.Buffer)
	if a.Name != nil {
		l := a.Name.EncodingLength()
		appendTL(inner, nameComponentType, l)
		tmp := make(enc.Buffer, l)
		a.Name.EncodeInto(tmp)
		inner.Write(tmp)
	}
	if a.FaceId != nil {
		appendNat(inner, typeFaceId, *a.FaceId)
	}
	if a.Origin != nil {
		appendNat(inner, typeOrigin, *a.Origin)
	}
	if a.Cost != nil {
		appendNat(inner, typeCost, *a.Cost)
	}
	if a.Flags != nil {
		appendNat(inner, typeFlags, *a.Flags)
	}
	if a.ExpirationPeriod != nil {
		appendNat(inner, typeExpirationPeriod, *a.ExpirationPeriod)
	}
	outer := new(bytes.Buffer)
	appendTL(outer, typeControlParameters, inner.Len())
	outer.Write(inner.Bytes())
	return outer.Bytes()
}

// ControlResponse is the body of a management command's reply Data.
type ControlResponse struct {
	StatusCode uint64
	StatusText string
	Body       *ControlArgs
}

// Success reports whether the response denotes success; per the
// management protocol's convention, every code below 400 is a success
// (200 is the common case, but some modules use 2xx variants).
func (r *ControlResponse) Success() bool {
	return r.StatusCode < 400
}

// ParseControlResponse decodes content as a ControlResponse TLV.
func ParseControlResponse(content enc.Wire) (*ControlResponse, error) {
	view := enc.NewWireView(content)
	typ, err := view.ReadTLNum()
	if err != nil {
		return nil, err
	}
	if typ != typeControlResponse {
		return nil, errNotControlResponse
	}
	length, err := view.ReadTLNum()
	if err != nil {
		return nil, err
	}
	body := view.Delegate(int(length))

	ret := &ControlResponse{}
	for !body.IsEOF() {
		eTyp, err := body.ReadTLNum()
		if err != nil {
			return nil, err
		}
		eLen, err := body.ReadTLNum()
		if err != nil {
			return nil, err
		}
		sub := body.Delegate(int(eLen))
		switch eTyp {
		case typeStatusCode:
			buf, err := sub.ReadBuf(sub.Length())
			if err != nil {
				return nil, err
			}
			n, _, err := enc.ParseNat(buf)
			if err != nil {
				return nil, err
			}
			ret.StatusCode = uint64(n)
		case typeStatusText:
			buf, err := sub.ReadBuf(sub.Length())
			if err != nil {
				return nil, err
			}
			ret.StatusText = string(buf)
		case typeControlParameters:
			args, err := parseControlArgs(sub)
			if err != nil {
				return nil, err
			}
			ret.Body = args
		}
	}
	return ret, nil
}

func parseControlArgs(body enc.WireView) (*ControlArgs, error) {
	ret := &ControlArgs{}
	for !body.IsEOF() {
		typ, err := body.ReadTLNum()
		if err != nil {
			return nil, err
		}
		length, err := body.ReadTLNum()
		if err != nil {
			return nil, err
		}
		sub := body.Delegate(int(length))
		switch typ {
		case nameComponentType:
			name, err := sub.ReadName()
			if err != nil {
				return nil, err
			}
			ret.Name = name
		case typeFaceId:
			v, err := readNat(&sub)
			if err != nil {
				return nil, err
			}
			ret.FaceId = &v
		case typeOrigin:
			v, err := readNat(&sub)
			if err != nil {
				return nil, err
			}
			ret.Origin = &v
		case typeCost:
			v, err := readNat(&sub)
			if err != nil {
				return nil, err
			}
			ret.Cost = &v
		case typeFlags:
			v, err := readNat(&sub)
			if err != nil {
				return nil, err
			}
			ret.Flags = &v
		case typeExpirationPeriod:
			v, err := readNat(&sub)
			if err != nil {
				return nil, err
			}
			ret.ExpirationPeriod = &v
		}
	}
	return ret, nil
}

func readNat(v *enc.WireView) (uint64, error) {
	buf, err := v.ReadBuf(v.Length())
	if err != nil {
		return 0, err
	}
	n, _, err := enc.ParseNat(buf)
	return uint64(n), err
}

var errNotControlResponse = controlResponseTypeError{}

type controlResponseTypeError struct{}

func (controlResponseTypeError) Error() string {
	return "content is not a ControlResponse TLV"
}

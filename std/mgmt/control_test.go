package mgmt

import (
	"bytes"
	"testing"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/stretchr/testify/require"
)

func TestControlArgsEncodeParseRoundTrip(t *testing.T) {
	name, err := enc.NameFromStr("/Hello/World")
	require.NoError(t, err)

	origin := uint64(65)
	cost := uint64(10)
	flags := uint64(1)
	expiration := uint64(60000)
	args := &ControlArgs{
		Name:             name,
		Origin:           &origin,
		Cost:             &cost,
		Flags:            &flags,
		ExpirationPeriod: &expiration,
	}

	view := enc.NewWireView(enc.Wire{args.Encode()})
	typ, err := view.ReadTLNum()
	require.NoError(t, err)
	require.Equal(t, typeControlParameters, typ)
	length, err := view.ReadTLNum()
	require.NoError(t, err)
	body := view.Delegate(int(length))

	parsed, err := parseControlArgs(body)
	require.NoError(t, err)
	require.Equal(t, 0, name.Compare(parsed.Name))
	require.Equal(t, origin, *parsed.Origin)
	require.Equal(t, cost, *parsed.Cost)
	require.Equal(t, flags, *parsed.Flags)
	require.Equal(t, expiration, *parsed.ExpirationPeriod)
}

func TestControlArgsEncodeOmitsUnsetFields(t *testing.T) {
	name, err := enc.NameFromStr("/A")
	require.NoError(t, err)
	args := &ControlArgs{Name: name}

	view := enc.NewWireView(enc.Wire{args.Encode()})
	_, _ = view.ReadTLNum()
	length, _ := view.ReadTLNum()
	body := view.Delegate(int(length))
	parsed, err := parseControlArgs(body)
	require.NoError(t, err)
	require.Nil(t, parsed.FaceId)
	require.Nil(t, parsed.Origin)
	require.Nil(t, parsed.Cost)
	require.Nil(t, parsed.Flags)
	require.Nil(t, parsed.ExpirationPeriod)
}

// encodeControlResponse builds a ControlResponse TLV by hand, the same
// way NFD's rib manager would, so ParseControlResponse can be exercised
// without round-tripping through the Controller/Face.
func encodeControlResponse(t *testing.T, code uint64, text string, body *ControlArgs) enc.Wire {
	t.Helper()
	inner := new(bytes.Buffer)
	appendNat(inner, typeStatusCode, code)
	appendBytes(inner, typeStatusText, []byte(text))
	if body != nil {
		appendBytes(inner, typeControlParameters, bodyInnerBytes(body))
	}
	outer := new(bytes.Buffer)
	appendTL(outer, typeControlResponse, inner.Len())
	outer.Write(inner.Bytes())
	return enc.Wire{outer.Bytes()}
}

// bodyInnerBytes strips args.Encode()'s outer ControlParameters TL so it
// can be re-wrapped under the ControlResponse's own ControlParameters
// element by encodeControlResponse.
func bodyInnerBytes(args *ControlArgs) []byte {
	full := args.Encode()
	view := enc.NewWireView(enc.Wire{full})
	_, _ = view.ReadTLNum()
	length, _ := view.ReadTLNum()
	buf, _ := view.ReadBuf(int(length))
	return buf
}

func TestParseControlResponseSuccess(t *testing.T) {
	name, err := enc.NameFromStr("/Hello/World")
	require.NoError(t, err)
	body := &ControlArgs{Name: name}
	wire := encodeControlResponse(t, 200, "OK", body)

	resp, err := ParseControlResponse(wire)
	require.NoError(t, err)
	require.True(t, resp.Success())
	require.Equal(t, uint64(200), resp.StatusCode)
	require.Equal(t, "OK", resp.StatusText)
	require.NotNil(t, resp.Body)
	require.Equal(t, 0, name.Compare(resp.Body.Name))
}

func TestParseControlResponseFailureCode(t *testing.T) {
	wire := encodeControlResponse(t, 403, "Not authorized", nil)
	resp, err := ParseControlResponse(wire)
	require.NoError(t, err)
	require.False(t, resp.Success(), "codes >= 400 must report failure")
}

func TestParseControlResponseRejectsWrongType(t *testing.T) {
	args := &ControlArgs{}
	_, err := ParseControlResponse(enc.Wire{args.Encode()})
	require.ErrorIs(t, err, errNotControlResponse)
}

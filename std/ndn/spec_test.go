package ndn

import (
	"testing"
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/types/optional"
	"github.com/stretchr/testify/require"
)

// fakeSigner is a minimal Signer for round-trip tests, local to this
// package to avoid importing the security/signer package (which itself
// imports ndn).
type fakeSigner struct {
	keyName enc.Name
}

func (fakeSigner) Type() SigType            { return SignatureEmptyTest }
func (s fakeSigner) KeyName() enc.Name      { return s.keyName }
func (fakeSigner) EstimateSize() uint       { return 8 }
func (fakeSigner) Sign(enc.Wire) ([]byte, error) { return []byte{1, 2, 3, 4, 5, 6, 7, 8}, nil }
func (fakeSigner) Public() ([]byte, error)  { return nil, ErrNoPubKey }

func TestSpec2022InterestRoundTripUnsigned(t *testing.T) {
	spec := Spec2022{}
	name, err := enc.NameFromStr("/Hello/World")
	require.NoError(t, err)

	cfg := &InterestConfig{
		CanBePrefix: true,
		MustBeFresh: true,
		Nonce:       optional.Some[uint32](42),
		Lifetime:    optional.Some(4000 * time.Millisecond),
	}
	encoded, err := spec.MakeInterest(name, cfg, nil, nil)
	require.NoError(t, err)
	require.True(t, name.Compare(encoded.FinalName) == 0, "no ApplicationParameters means FinalName == Name")

	parsed, _, err := spec.ReadInterest(enc.NewWireView(encoded.Wire))
	require.NoError(t, err)
	require.Equal(t, 0, name.Compare(parsed.Name()))
	require.True(t, parsed.CanBePrefix())
	require.True(t, parsed.MustBeFresh())
	n, ok := parsed.Nonce().Get()
	require.True(t, ok)
	require.Equal(t, uint32(42), n)
	lt, ok := parsed.Lifetime().Get()
	require.True(t, ok)
	require.Equal(t, 4000*time.Millisecond, lt)
	require.Nil(t, parsed.Signature())
}

func TestSpec2022InterestWithParamsDigestAndSignature(t *testing.T) {
	spec := Spec2022{}
	name, err := enc.NameFromStr("/Hello/World")
	require.NoError(t, err)

	signer := fakeSigner{keyName: mustNameT(t, "/Hello/KEY/1")}
	encoded, err := spec.MakeInterest(name, &InterestConfig{}, enc.Wire{[]byte("params")}, signer)
	require.NoError(t, err)

	require.Equal(t, len(name)+1, len(encoded.FinalName), "a params digest component must be appended")
	require.Equal(t, enc.TypeParametersSha256DigestComponent, encoded.FinalName[len(encoded.FinalName)-1].Typ)

	parsed, sigCovered, err := spec.ReadInterest(enc.NewWireView(encoded.Wire))
	require.NoError(t, err)
	require.NotNil(t, parsed.Signature())
	require.Equal(t, SignatureEmptyTest, parsed.Signature().SigType())
	require.NotEmpty(t, sigCovered)
	require.Equal(t, []byte("params"), parsed.AppParam().Join())
}

func TestSpec2022InterestRejectsWrongType(t *testing.T) {
	spec := Spec2022{}
	data, err := spec.MakeData(mustNameT(t, "/A"), nil, nil, nil)
	require.NoError(t, err)

	_, _, err = spec.ReadInterest(enc.NewWireView(data.Wire))
	require.ErrorIs(t, err, ErrWrongType)
}

func TestSpec2022DataRoundTrip(t *testing.T) {
	spec := Spec2022{}
	name, err := enc.NameFromStr("/Hello/World/v1")
	require.NoError(t, err)

	cfg := &DataConfig{
		ContentType: optional.Some(ContentTypeBlob),
		Freshness:   optional.Some(10 * time.Second),
	}
	content := enc.Wire{[]byte("payload")}
	signer := fakeSigner{keyName: mustNameT(t, "/Hello/KEY/1")}
	encoded, err := spec.MakeData(name, cfg, content, signer)
	require.NoError(t, err)

	parsed, sigCovered, err := spec.ReadData(enc.NewWireView(encoded.Wire))
	require.NoError(t, err)
	require.Equal(t, 0, name.Compare(parsed.Name()))
	ct, ok := parsed.ContentType().Get()
	require.True(t, ok)
	require.Equal(t, ContentTypeBlob, ct)
	fr, ok := parsed.Freshness().Get()
	require.True(t, ok)
	require.Equal(t, 10*time.Second, fr)
	require.Equal(t, []byte("payload"), parsed.Content().Join())
	require.NotEmpty(t, sigCovered)
	require.Equal(t, SignatureEmptyTest, parsed.Signature().SigType())
}

func TestEncodeDecodeLpPacketRoundTrip(t *testing.T) {
	frag := enc.Wire{[]byte("fragment")}
	tags := PacketTags{}
	tags.IncomingFaceId.Set(7)
	tags.CongestionMark.Set(3)

	wire := EncodeLpPacket(frag, tags, nil)
	lp, err := ReadLpPacket(enc.NewWireView(wire))
	require.NoError(t, err)
	require.Equal(t, []byte("fragment"), lp.Fragment.Join())
	id, ok := lp.Tags.IncomingFaceId.Get()
	require.True(t, ok)
	require.Equal(t, uint64(7), id)
	cm, ok := lp.Tags.CongestionMark.Get()
	require.True(t, ok)
	require.Equal(t, uint64(3), cm)
	require.Nil(t, lp.Nack)
}

func TestEncodeLpPacketWithNoTagsReturnsBareFragment(t *testing.T) {
	frag := enc.Wire{[]byte("fragment")}
	wire := EncodeLpPacket(frag, PacketTags{}, nil)
	require.Equal(t, frag.Join(), wire.Join(), "a frame with no tags/nack must be the bare fragment, not LP-wrapped")
}

func TestEncodeLpPacketWithNack(t *testing.T) {
	frag := enc.Wire{[]byte("interest-bytes")}
	reason := NackReasonCongestion
	wire := EncodeLpPacket(frag, PacketTags{}, &reason)

	lp, err := ReadLpPacket(enc.NewWireView(wire))
	require.NoError(t, err)
	require.NotNil(t, lp.Nack)
	require.Equal(t, NackReasonCongestion, *lp.Nack)
	require.Equal(t, []byte("interest-bytes"), lp.Fragment.Join())
}

func TestReadNetworkOrLpPacketAcceptsBareFragment(t *testing.T) {
	spec := Spec2022{}
	data, err := spec.MakeData(mustNameT(t, "/A"), nil, nil, nil)
	require.NoError(t, err)

	lp, err := ReadNetworkOrLpPacket(enc.NewWireView(data.Wire))
	require.NoError(t, err)
	require.Nil(t, lp.Nack)
	require.Equal(t, data.Wire.Join(), lp.Fragment.Join())
}

func mustNameT(t *testing.T, s string) enc.Name {
	n, err := enc.NameFromStr(s)
	require.NoError(t, err)
	return n
}

func TestNackReasonSeverityOrdering(t *testing.T) {
	require.True(t, NackReasonNone.Less(NackReasonCongestion))
	require.True(t, NackReasonCongestion.Less(NackReasonDuplicate))
	require.True(t, NackReasonDuplicate.Less(NackReasonNoRoute))
	require.False(t, NackReasonNoRoute.Less(NackReasonCongestion))
}

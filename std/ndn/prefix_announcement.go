package ndn

import (
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/types/optional"
)

// typeAnnExpirationPeriod is the ExpirationPeriod TLV type as carried
// inside a PrefixAnnouncement's Content, per the NDN-TLV registry.
const typeAnnExpirationPeriod enc.TLNum = 0x6d

// PrefixAnnouncement is a signed Data packet an application publishes
// to assert it is willing to produce under Prefix until Expiration
// elapses, structured per the keyword/version/segment naming
// convention: <prefix>/32=PA/<version>/seg=0.
type PrefixAnnouncement struct {
	Prefix     enc.Name
	Expiration time.Duration
}

// MakePrefixAnnouncement builds and signs the announcement Data.
// Version distinguishes successive announcements of the same prefix
// (callers typically use a Unix-time-derived value); it is not
// interpreted further here.
func MakePrefixAnnouncement(spec Spec, prefix enc.Name, version uint64, expiration time.Duration, signer Signer) (*EncodedData, error) {
	name := make(enc.Name, 0, len(prefix)+3)
	name = append(name, prefix...)
	name = append(name,
		enc.NewBytesComponent(enc.TypeKeywordNameComponent, []byte("PA")),
		enc.NewVersionComponent(version),
		enc.NewSegmentComponent(0),
	)

	content := encodeAnnContent(expiration)
	cfg := &DataConfig{ContentType: optional.Some(ContentTypePrefixAnnouncement)}
	return spec.MakeData(name, cfg, content, signer)
}

func encodeAnnContent(expiration time.Duration) enc.Wire {
	n := enc.Nat(expiration.Milliseconds())
	buf := make(enc.Buffer, n.EncodingLength())
	n.EncodeInto(buf)

	typ := typeAnnExpirationPeriod
	length := enc.TLNum(len(buf))
	tlBuf := make(enc.Buffer, typ.EncodingLength()+length.EncodingLength())
	off := typ.EncodeInto(tlBuf)
	length.EncodeInto(tlBuf[off:])

	return enc.Wire{tlBuf, buf}
}

// ErrNotPrefixAnnouncement is returned by ParsePrefixAnnouncement when
// data's name or content type do not match the announcement
// convention.
type ErrNotPrefixAnnouncement struct {
	Reason string
}

func (e ErrNotPrefixAnnouncement) Error() string {
	return "not a prefix announcement: " + e.Reason
}

// ParsePrefixAnnouncement extracts the announced prefix (from data's
// name, trimming the keyword/version/segment suffix) and expiration
// period (from its content) from a received announcement Data.
func ParsePrefixAnnouncement(data Data) (*PrefixAnnouncement, error) {
	name := data.Name()
	if len(name) < 3 {
		return nil, ErrNotPrefixAnnouncement{Reason: "name too short"}
	}
	keyword := name[len(name)-3]
	if keyword.Typ != enc.TypeKeywordNameComponent || string(keyword.Val) != "PA" {
		return nil, ErrNotPrefixAnnouncement{Reason: "missing PA keyword component"}
	}
	if name[len(name)-2].Typ != enc.TypeVersionNameComponent {
		return nil, ErrNotPrefixAnnouncement{Reason: "missing version component"}
	}
	if name[len(name)-1].Typ != enc.TypeSegmentNameComponent {
		return nil, ErrNotPrefixAnnouncement{Reason: "missing segment component"}
	}

	ct, ok := data.ContentType().Get()
	if !ok || ct != ContentTypePrefixAnnouncement {
		return nil, ErrNotPrefixAnnouncement{Reason: "wrong content type"}
	}

	view := enc.NewWireView(data.Content())
	var expiration time.Duration
	found := false
	for !view.IsEOF() {
		typ, err := view.ReadTLNum()
		if err != nil {
			return nil, err
		}
		length, err := view.ReadTLNum()
		if err != nil {
			return nil, err
		}
		if typ == typeAnnExpirationPeriod {
			buf, err := view.ReadBuf(int(length))
			if err != nil {
				return nil, err
			}
			n, _, err := enc.ParseNat(buf)
			if err != nil {
				return nil, err
			}
			expiration = time.Duration(n) * time.Millisecond
			found = true
			continue
		}
		if err := view.Skip(int(length)); err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, ErrNotPrefixAnnouncement{Reason: "missing expiration period"}
	}

	return &PrefixAnnouncement{
		Prefix:     name[:len(name)-3],
		Expiration: expiration,
	}, nil
}

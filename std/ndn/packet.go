package ndn

import (
	"bytes"
	"crypto/sha256"
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/types/optional"
)

// Spec2022 implements the ndn.Spec contract by hand, against the TLV
// primitives in the encoding package. The code-generated codec this
// repo's corpus normally relies on (struct tags consumed by a
// `go generate` step) was not available in committed form, so packet
// encoding and decoding here is written directly. The name follows the
// corpus's own spec_2022 convention for the NDN packet format version.
type Spec2022 struct{}

// interestPkt is the concrete Interest implementation produced by Spec2022.
type interestPkt struct {
	nameV           enc.Name
	canBePrefixV    bool
	mustBeFreshV    bool
	forwardingHintV []enc.Name
	nonceV          optional.Optional[uint32]
	lifetimeV       optional.Optional[time.Duration]
	hopLimitV       *uint
	appParamV       enc.Wire
	sig             *sigFields
}

func (p *interestPkt) Name() enc.Name                              { return p.nameV }
func (p *interestPkt) CanBePrefix() bool                           { return p.canBePrefixV }
func (p *interestPkt) MustBeFresh() bool                           { return p.mustBeFreshV }
func (p *interestPkt) ForwardingHint() []enc.Name                  { return p.forwardingHintV }
func (p *interestPkt) Nonce() optional.Optional[uint32]            { return p.nonceV }
func (p *interestPkt) Lifetime() optional.Optional[time.Duration]  { return p.lifetimeV }
func (p *interestPkt) HopLimit() *uint                             { return p.hopLimitV }
func (p *interestPkt) AppParam() enc.Wire                          { return p.appParamV }
func (p *interestPkt) Signature() Signature {
	if p.sig == nil {
		return nil
	}
	return p.sig
}

// dataPkt is the concrete Data implementation produced by Spec2022.
type dataPkt struct {
	nameV         enc.Name
	contentTypeV  optional.Optional[ContentType]
	freshnessV    optional.Optional[time.Duration]
	finalBlockIDV optional.Optional[enc.Component]
	contentV      enc.Wire
	crossSchemaV  enc.Wire
	sig           *sigFields
}

func (d *dataPkt) Name() enc.Name                                 { return d.nameV }
func (d *dataPkt) ContentType() optional.Optional[ContentType]    { return d.contentTypeV }
func (d *dataPkt) Freshness() optional.Optional[time.Duration]    { return d.freshnessV }
func (d *dataPkt) FinalBlockID() optional.Optional[enc.Component] { return d.finalBlockIDV }
func (d *dataPkt) Content() enc.Wire                              { return d.contentV }
func (d *dataPkt) CrossSchema() enc.Wire                           { return d.crossSchemaV }
func (d *dataPkt) Signature() Signature {
	if d.sig == nil {
		return nil
	}
	return d.sig
}

// sigFields implements ndn.Signature for both Interest and Data.
type sigFields struct {
	sigType   SigType
	keyName   enc.Name
	nonce     []byte
	sigTime   *time.Time
	sigSeqNum *uint64
	notBefore *time.Time
	notAfter  *time.Time
	sigValue  []byte
}

func (s *sigFields) SigType() SigType    { return s.sigType }
func (s *sigFields) KeyName() enc.Name   { return s.keyName }
func (s *sigFields) SigNonce() []byte    { return s.nonce }
func (s *sigFields) SigTime() *time.Time { return s.sigTime }
func (s *sigFields) SigSeqNum() *uint64  { return s.sigSeqNum }
func (s *sigFields) SigValue() []byte    { return s.sigValue }
func (s *sigFields) Validity() (notBefore, notAfter *time.Time) {
	return s.notBefore, s.notAfter
}

// MakeInterest encodes an Interest, signing it with signer if non-nil.
func (Spec2022) MakeInterest(name enc.Name, config *InterestConfig, appParam enc.Wire, signer Signer) (*EncodedInterest, error) {
	if name == nil {
		return nil, ErrInvalidValue{Item: "Interest.Name", Value: nil}
	}
	if config == nil {
		config = &InterestConfig{}
	}

	finalName := name
	if appParam != nil {
		finalName = name.Append(paramsDigestPlaceholder())
	}

	body := new(bytes.Buffer)
	appendName(body, finalName)
	digestOffset := body.Len() - 32 // valid only when appParam != nil
	if config.CanBePrefix {
		appendEmpty(body, TypeCanBePrefix)
	}
	if config.MustBeFresh {
		appendEmpty(body, TypeMustBeFresh)
	}
	if len(config.ForwardingHint) > 0 {
		inner := new(bytes.Buffer)
		for _, n := range config.ForwardingHint {
			appendName(inner, n)
		}
		appendTL(body, TypeForwardingHint, inner.Len())
		body.Write(inner.Bytes())
	}
	if nonce, ok := config.Nonce.Get(); ok {
		appendBytes(body, TypeNonce, uint32Bytes(nonce))
	}
	if lifetime, ok := config.Lifetime.Get(); ok {
		appendNat(body, TypeInterestLifetime, uint64(lifetime/time.Millisecond))
	}
	if config.HopLimit != nil {
		appendBytes(body, TypeHopLimit, []byte{*config.HopLimit})
	}

	paramsStart := body.Len()
	if appParam != nil {
		appendWire(body, TypeApplicationParameters, appParam)
	}

	var sigCovered enc.Wire
	extra := sigInfoExtra{nonce: config.SigNonce, sigTime: config.SigTime, seqNum: config.SigSeqNo}
	if info := encodeSigInfo(TypeInterestSignatureInfo, signer, extra); info != nil {
		body.Write(info)
		sigCovered = enc.Wire{append([]byte(nil), body.Bytes()[paramsStart:]...)}
		sigVal, err := signer.Sign(sigCovered)
		if err != nil {
			return nil, err
		}
		appendBytes(body, TypeInterestSignatureValue, sigVal)
	}

	// Splice the real ParametersSha256Digest into the name now that the
	// parameters it covers (ApplicationParameters through
	// InterestSignatureValue) are
	// fully encoded, mirroring ndn-cxx's two-pass Interest encoding. The
	// patch happens on a single snapshot of body's backing array, taken
	// only after every other write to body has finished, so it can't be
	// invalidated by a buffer reallocation triggered by those writes.
	var digest [32]byte
	if appParam != nil {
		digest = sha256.Sum256(body.Bytes()[paramsStart:])
		finalBytes := body.Bytes()
		copy(finalBytes[digestOffset:digestOffset+32], digest[:])
		finalName = name.Append(enc.NewBytesComponent(enc.TypeParametersSha256DigestComponent, digest[:]))
	}

	final := new(bytes.Buffer)
	appendTL(final, TypeInterest, body.Len())
	final.Write(body.Bytes())

	return &EncodedInterest{
		Wire:       enc.Wire{final.Bytes()},
		SigCovered: sigCovered,
		FinalName:  finalName,
		Config:     config,
	}, nil
}

// ReadInterest parses an Interest. Precondition: reader contains one TLV.
func (Spec2022) ReadInterest(reader enc.WireView) (Interest, enc.Wire, error) {
	typ, err := reader.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	if typ != TypeInterest {
		return nil, nil, ErrWrongType
	}
	length, err := reader.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	body := reader.Delegate(int(length))
	elems, err := readTLVElements(&body)
	if err != nil {
		return nil, nil, err
	}

	ret := &interestPkt{}
	var sigInfoStart = -1
	var paramsStart = -1
	for i, e := range elems {
		if paramsStart < 0 && (e.typ == TypeApplicationParameters || e.typ == TypeInterestSignatureInfo) {
			paramsStart = e.start
		}
		switch e.typ {
		case TypeNameComponent:
			ret.nameV, err = e.readName()
		case TypeCanBePrefix:
			ret.canBePrefixV = true
		case TypeMustBeFresh:
			ret.mustBeFreshV = true
		case TypeNonce:
			b, e2 := e.readBytes()
			err = e2
			if err == nil && len(b) == 4 {
				ret.nonceV.Set(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
			}
		case TypeInterestLifetime:
			n, e2 := e.readNat()
			err = e2
			if err == nil {
				ret.lifetimeV.Set(time.Duration(n) * time.Millisecond)
			}
		case TypeHopLimit:
			b, e2 := e.readBytes()
			err = e2
			if err == nil && len(b) == 1 {
				v := uint(b[0])
				ret.hopLimitV = &v
			}
		case TypeApplicationParameters:
			ret.appParamV, err = e.readWire()
		case TypeInterestSignatureInfo:
			sigInfoStart = i
			sf, e2 := parseSigInfo(e)
			err = e2
			ret.sig = sf
		case TypeInterestSignatureValue:
			b, e2 := e.readBytes()
			err = e2
			if err == nil && ret.sig != nil {
				ret.sig.sigValue = b
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if ret.nameV == nil {
		return nil, nil, ErrInvalidValue{Item: "Interest.Name", Value: nil}
	}

	var sigCovered enc.Wire
	if sigInfoStart >= 0 && paramsStart >= 0 {
		end := body.Length()
		if sigInfoStart+1 < len(elems) {
			end = elems[sigInfoStart+1].start
		}
		sigCovered = body.Range(paramsStart, end)
	}
	return ret, sigCovered, nil
}

// MakeData encodes a Data packet, signing it with signer if non-nil.
func (Spec2022) MakeData(name enc.Name, config *DataConfig, content enc.Wire, signer Signer) (*EncodedData, error) {
	if name == nil {
		return nil, ErrInvalidValue{Item: "Data.Name", Value: nil}
	}
	if config == nil {
		config = &DataConfig{}
	}

	body := new(bytes.Buffer)
	appendName(body, name)

	meta := new(bytes.Buffer)
	if ct, ok := config.ContentType.Get(); ok {
		appendNat(meta, TypeContentType, uint64(ct))
	}
	if fr, ok := config.Freshness.Get(); ok {
		appendNat(meta, TypeFreshnessPer, uint64(fr/time.Millisecond))
	}
	if fb, ok := config.FinalBlockID.Get(); ok {
		appendBytes(meta, TypeFinalBlockId, fb.Bytes())
	}
	if meta.Len() > 0 {
		appendTL(body, TypeMetaInfo, meta.Len())
		body.Write(meta.Bytes())
	}

	if content != nil {
		appendWire(body, TypeContent, content)
	}
	if len(config.CrossSchema) > 0 {
		appendWire(body, TypeCrossSchema, config.CrossSchema)
	}

	sigCovered := enc.Wire{}
	extra := sigInfoExtra{notBefore: config.SigNotBefore, notAfter: config.SigNotAfter}
	if info := encodeSigInfo(TypeSignatureInfo, signer, extra); info != nil {
		body.Write(info)
		sigCovered = enc.Wire{append([]byte(nil), body.Bytes()...)}
		sigVal, err := signer.Sign(sigCovered)
		if err != nil {
			return nil, err
		}
		appendBytes(body, TypeSignatureValue, sigVal)
	}

	final := new(bytes.Buffer)
	appendTL(final, TypeData, body.Len())
	final.Write(body.Bytes())

	return &EncodedData{
		Wire:       enc.Wire{final.Bytes()},
		SigCovered: sigCovered,
		Config:     config,
	}, nil
}

// ReadData parses a Data. Precondition: reader contains one TLV.
func (Spec2022) ReadData(reader enc.WireView) (Data, enc.Wire, error) {
	typ, err := reader.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	if typ != TypeData {
		return nil, nil, ErrWrongType
	}
	length, err := reader.ReadTLNum()
	if err != nil {
		return nil, nil, err
	}
	body := reader.Delegate(int(length))
	elems, err := readTLVElements(&body)
	if err != nil {
		return nil, nil, err
	}

	ret := &dataPkt{}
	sigInfoStart := -1
	for i, e := range elems {
		switch e.typ {
		case TypeNameComponent:
			ret.nameV, err = e.readName()
		case TypeMetaInfo:
			err = parseMetaInfo(e, ret)
		case TypeContent:
			ret.contentV, err = e.readWire()
		case TypeCrossSchema:
			ret.crossSchemaV, err = e.readWire()
		case TypeSignatureInfo:
			sigInfoStart = i
			var sf *sigFields
			sf, err = parseSigInfo(e)
			ret.sig = sf
		case TypeSignatureValue:
			var b []byte
			b, err = e.readBytes()
			if err == nil && ret.sig != nil {
				ret.sig.sigValue = b
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if ret.nameV == nil {
		return nil, nil, ErrInvalidValue{Item: "Data.Name", Value: nil}
	}

	var sigCovered enc.Wire
	if sigInfoStart >= 0 {
		end := body.Length()
		if sigInfoStart+1 < len(elems) {
			end = elems[sigInfoStart+1].start
		}
		sigCovered = body.Range(0, end)
	}
	return ret, sigCovered, nil
}

func parseMetaInfo(e tlvElement, d *dataPkt) error {
	inner, err := readTLVElements(&e.value)
	if err != nil {
		return err
	}
	for _, f := range inner {
		switch f.typ {
		case TypeContentType:
			n, err := f.readNat()
			if err != nil {
				return err
			}
			d.contentTypeV.Set(ContentType(n))
		case TypeFreshnessPer:
			n, err := f.readNat()
			if err != nil {
				return err
			}
			d.freshnessV.Set(time.Duration(n) * time.Millisecond)
		case TypeFinalBlockId:
			b, err := f.readBytes()
			if err != nil {
				return err
			}
			c, err := enc.ComponentFromBytes(b)
			if err != nil {
				return err
			}
			d.finalBlockIDV.Set(c)
		}
	}
	return nil
}

func parseSigInfo(e tlvElement) (*sigFields, error) {
	inner, err := readTLVElements(&e.value)
	if err != nil {
		return nil, err
	}
	sf := &sigFields{}
	for _, f := range inner {
		switch f.typ {
		case TypeSignatureType:
			n, err := f.readNat()
			if err != nil {
				return nil, err
			}
			sf.sigType = SigType(n)
		case TypeKeyLocator:
			klElems, err := readTLVElements(&f.value)
			if err != nil {
				return nil, err
			}
			for _, kl := range klElems {
				if kl.typ == TypeNameComponent {
					sf.keyName, err = kl.readName()
					if err != nil {
						return nil, err
					}
				}
			}
		case TypeSignatureNonce:
			sf.nonce, err = f.readBytes()
			if err != nil {
				return nil, err
			}
		case TypeSignatureTime:
			n, err := f.readNat()
			if err != nil {
				return nil, err
			}
			t := time.Unix(0, int64(n)*int64(time.Millisecond))
			sf.sigTime = &t
		case TypeSignatureSeqNum:
			n, err := f.readNat()
			if err != nil {
				return nil, err
			}
			sf.sigSeqNum = &n
		case TypeValidityPeriod:
			if err := parseValidityPeriod(f, sf); err != nil {
				return nil, err
			}
		}
	}
	return sf, nil
}

func parseValidityPeriod(e tlvElement, sf *sigFields) error {
	vpElems, err := readTLVElements(&e.value)
	if err != nil {
		return err
	}
	for _, f := range vpElems {
		b, err := f.readBytes()
		if err != nil {
			return err
		}
		t, err := time.Parse("20060102T150405", string(b))
		if err != nil {
			return err
		}
		switch f.typ {
		case TypeNotBefore:
			sf.notBefore = &t
		case TypeNotAfter:
			sf.notAfter = &t
		}
	}
	return nil
}

func uint32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// paramsDigestPlaceholder returns a zero-filled ParametersSha256Digest
// component sized to hold the real digest, which MakeInterest computes
// and patches in once ApplicationParameters through
// InterestSignatureValue are fully encoded.
func paramsDigestPlaceholder() enc.Component {
	return enc.NewBytesComponent(enc.TypeParametersSha256DigestComponent, make([]byte, 32))
}

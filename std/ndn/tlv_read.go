package ndn

import enc "github.com/ndn-go/face/std/encoding"

// tlvElement is one decoded Type-Length-Value element, with a WireView
// positioned at the start of its value for further parsing. start is the
// offset of the element's T field within the enclosing view, letting
// callers recover exact byte ranges that span several elements (signed
// covered regions, for instance).
type tlvElement struct {
	typ   enc.TLNum
	start int
	value enc.WireView
}

// readTLVElements decodes every top-level TLV element inside r until EOF.
// r is consumed entirely; the caller is expected to have already
// delegated a sub-view of the correct length for a nested structure.
func readTLVElements(r *enc.WireView) ([]tlvElement, error) {
	var ret []tlvElement
	for !r.IsEOF() {
		start := r.Pos()
		typ, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadTLNum()
		if err != nil {
			return nil, err
		}
		sub := r.Delegate(int(length))
		ret = append(ret, tlvElement{typ: typ, start: start, value: sub})
	}
	return ret, nil
}

func (e tlvElement) readNat() (uint64, error) {
	buf, err := e.value.ReadBuf(e.value.Length())
	if err != nil {
		return 0, err
	}
	n, _, err := enc.ParseNat(buf)
	return uint64(n), err
}

func (e tlvElement) readBytes() ([]byte, error) {
	return e.value.ReadBuf(e.value.Length())
}

func (e tlvElement) readWire() (enc.Wire, error) {
	return e.value.ReadWire(e.value.Length())
}

func (e tlvElement) readName() (enc.Name, error) {
	return e.value.ReadName()
}

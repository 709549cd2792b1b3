// Package security provides textual encodings for NDN keys and
// certificates built on top of std/ndn and std/security/signer.
package security

import (
	"encoding/pem"
	"fmt"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/log"
	"github.com/ndn-go/face/std/ndn"
)

const PemTypeCert = "NDN CERT"
const PemTypeSecret = "NDN KEY"

const pemHeaderName = "Name"
const pemHeaderValidity = "Validity"
const pemHeaderSigType = "SigType"
const pemHeaderKey = "SignerKey"

// PemEncode converts a wire-encoded NDN Data (a certificate or a raw
// signing key) to its RFC 7468 textual representation, with the
// packet's name, validity period, and signature type surfaced as
// human-readable headers above the block.
func PemEncode(spec ndn.Spec, raw []byte) ([]byte, error) {
	data, _, err := spec.ReadData(enc.NewWireView(enc.Wire{raw}))
	if err != nil {
		return nil, err
	}

	contentType, ok := data.ContentType().Get()
	if !ok {
		return nil, fmt.Errorf("data has no content type")
	}
	if data.Signature() == nil {
		return nil, fmt.Errorf("data has no signature")
	}

	headers := map[string]string{
		pemHeaderName: data.Name().String(),
	}

	if nb, na := data.Signature().Validity(); nb != nil && na != nil {
		headers[pemHeaderValidity] = fmt.Sprintf("%s - %s", nb, na)
	}
	headers[pemHeaderSigType] = data.Signature().SigType().String()

	if k := data.Signature().KeyName(); len(k) > 0 && contentType == ndn.ContentTypeKey {
		headers[pemHeaderKey] = k.String()
	}

	var pemType string
	switch contentType {
	case ndn.ContentTypeKey:
		pemType = PemTypeCert
	case ndn.ContentTypeSigningKey:
		pemType = PemTypeSecret
	default:
		return nil, fmt.Errorf("unsupported content type %v for PEM encoding", contentType)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:    pemType,
		Headers: headers,
		Bytes:   raw,
	}), nil
}

// PemDecode extracts every NDN CERT/KEY block from str, discarding any
// block of an unrecognized PEM type.
func PemDecode(str []byte) [][]byte {
	ret := make([][]byte, 0)
	for {
		block, rest := pem.Decode(str)
		if block == nil {
			break
		}
		str = rest

		if block.Type != PemTypeCert && block.Type != PemTypeSecret {
			log.Warn("unsupported PEM type", "type", block.Type)
			continue
		}
		ret = append(ret, block.Bytes)
	}
	return ret
}

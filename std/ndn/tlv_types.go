package ndn

import enc "github.com/ndn-go/face/std/encoding"

// TLV type numbers for the packet types this Face needs to read and
// write. Field names and numbers are grounded on NDN-TLV / NDNLPv2.
const (
	TypeInterest TLNum = 0x05
	TypeData     TLNum = 0x06

	TypeCanBePrefix            TLNum = 0x21
	TypeMustBeFresh            TLNum = 0x12
	TypeForwardingHint         TLNum = 0x1e
	TypeNonce                  TLNum = 0x0a
	TypeInterestLifetime       TLNum = 0x0c
	TypeHopLimit               TLNum = 0x22
	TypeApplicationParameters  TLNum = 0x24
	TypeInterestSignatureInfo  TLNum = 0x2c
	TypeInterestSignatureValue TLNum = 0x2e

	TypeMetaInfo       TLNum = 0x14
	TypeContentType    TLNum = 0x18
	TypeFreshnessPer   TLNum = 0x19
	TypeFinalBlockId   TLNum = 0x1a
	TypeContent        TLNum = 0x15
	TypeSignatureInfo    TLNum = 0x16
	TypeSignatureType    TLNum = 0x1b
	TypeKeyLocator       TLNum = 0x1c
	TypeKeyLocatorName   TLNum = 0x07
	TypeSignatureValue   TLNum = 0x17
	TypeSignatureNonce   TLNum = 0x26
	TypeSignatureTime    TLNum = 0x28
	TypeSignatureSeqNum  TLNum = 0x2a
	TypeValidityPeriod   TLNum = 0xfd
	TypeNotBefore        TLNum = 0xfe
	TypeNotAfter         TLNum = 0xff
	TypeCrossSchema      TLNum = 0x258

	TypeLpPacket         TLNum = 0x64
	TypeLpFragment       TLNum = 0x50
	TypeLpPitToken       TLNum = 0x62
	TypeLpNack           TLNum = 0x0320
	TypeLpNackReason     TLNum = 0x0321
	TypeLpIncomingFaceId TLNum = 0x032c
	TypeLpNextHopFaceId  TLNum = 0x0330
	TypeLpCachePolicy    TLNum = 0x0334
	TypeLpCachePolicyTyp TLNum = 0x0335
	TypeLpCongestionMark TLNum = 0x0340
)

// TLNum is a local alias so this package does not need to import the
// encoding package's name at every call site in this file.
type TLNum = enc.TLNum

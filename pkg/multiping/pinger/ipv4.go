package pinger

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"golang.org/x/net/ipv4"
)

// IPv4Header is a RFC 791 header. IHL is in 32-bit words, Flags holds the 3
// high bits of the flags/fragment word and FragOff the low 13.
type IPv4Header struct {
	Version  uint8
	IHL      uint8
	TOS      uint8
	TotalLen uint16
	ID       uint16
	Flags    uint8
	FragOff  uint16
	TTL      uint8
	Protocol uint8
	Checksum uint16
	Src      netip.Addr
	Dst      netip.Addr
	Options  []byte
}

// Byte offsets of the fixed IPv4 header
const (
	ipVersionIHL = 0
	ipTOS        = 1
	ipTotalLen   = 2
	ipID         = 4
	ipFlagsFrag  = 6
	ipTTL        = 8
	ipProtocol   = 9
	ipChecksum   = 10
	ipSrc        = 12
	ipDst        = 16
)

// Len returns header length in bytes (payload offset)
func (h *IPv4Header) Len() int {
	return int(h.IHL) * 4
}

func (h *IPv4Header) String() string {
	return fmt.Sprintf("ver=%d ihl=%d tos=%#x len=%d id=%#x flags=%#x off=%d ttl=%d proto=%d cksum=%#x %s > %s",
		h.Version, h.IHL, h.TOS, h.TotalLen, h.ID, h.Flags, h.FragOff, h.TTL, h.Protocol, h.Checksum, h.Src, h.Dst)
}

// Marshal serialises the header. Version defaults to 4 if unset, IHL is derived
// from options length and the checksum is recalculated and stored in h.
func (h *IPv4Header) Marshal() ([]byte, error) {
	if len(h.Options)%4 != 0 || len(h.Options) > maxOptionsLen {
		return nil, fmt.Errorf("%w: options length %d", ErrMalformedPacket, len(h.Options))
	}
	if h.Flags > 0x7 || h.FragOff > 0x1fff {
		return nil, fmt.Errorf("%w: flags %#x fragment offset %d", ErrMalformedPacket, h.Flags, h.FragOff)
	}
	if !h.Src.Is4() || !h.Dst.Is4() {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidAddr, h.Src, h.Dst)
	}
	if h.Version == 0 {
		h.Version = ipv4.Version
	}
	h.IHL = uint8(minIHL + len(h.Options)/4)

	b := make([]byte, h.Len())
	b[ipVersionIHL] = h.Version<<4 | h.IHL&0x0f
	b[ipTOS] = h.TOS
	binary.BigEndian.PutUint16(b[ipTotalLen:], h.TotalLen)
	binary.BigEndian.PutUint16(b[ipID:], h.ID)
	binary.BigEndian.PutUint16(b[ipFlagsFrag:], uint16(h.Flags)<<13|h.FragOff)
	b[ipTTL] = h.TTL
	b[ipProtocol] = h.Protocol
	src, dst := h.Src.As4(), h.Dst.As4()
	copy(b[ipSrc:], src[:])
	copy(b[ipDst:], dst[:])
	copy(b[IPv4HeaderLen:], h.Options)

	h.Checksum = Checksum(b)
	binary.BigEndian.PutUint16(b[ipChecksum:], h.Checksum)
	return b, nil
}

// ParseIPv4Header decodes an IPv4 header and returns it together with the
// payload offset. Checksum is not verified.
func ParseIPv4Header(b []byte) (*IPv4Header, int, error) {
	if len(b) < IPv4HeaderLen {
		return nil, 0, fmt.Errorf("%w: ipv4 header too short (%d bytes)", ErrMalformedPacket, len(b))
	}

	ihl := b[ipVersionIHL] & 0x0f
	if ihl < minIHL || ihl > maxIHL {
		return nil, 0, fmt.Errorf("%w: ipv4 header length %d words", ErrMalformedPacket, ihl)
	}
	hlen := int(ihl) * 4
	if len(b) < hlen {
		return nil, 0, fmt.Errorf("%w: ipv4 header truncated (%d < %d)", ErrMalformedPacket, len(b), hlen)
	}

	flagsFrag := binary.BigEndian.Uint16(b[ipFlagsFrag:])
	h := &IPv4Header{
		Version:  b[ipVersionIHL] >> 4,
		IHL:      ihl,
		TOS:      b[ipTOS],
		TotalLen: binary.BigEndian.Uint16(b[ipTotalLen:]),
		ID:       binary.BigEndian.Uint16(b[ipID:]),
		Flags:    uint8(flagsFrag >> 13),
		FragOff:  flagsFrag & 0x1fff,
		TTL:      b[ipTTL],
		Protocol: b[ipProtocol],
		Checksum: binary.BigEndian.Uint16(b[ipChecksum:]),
		Src:      netip.AddrFrom4([4]byte(b[ipSrc : ipSrc+4])),
		Dst:      netip.AddrFrom4([4]byte(b[ipDst : ipDst+4])),
	}
	if hlen > IPv4HeaderLen {
		h.Options = append([]byte(nil), b[IPv4HeaderLen:hlen]...)
	}

	return h, hlen, nil
}

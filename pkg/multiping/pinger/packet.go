package pinger

import (
	"net/netip"
)

// Packet is a received IPv4 datagram carrying an ICMP echo message
type Packet struct {
	Header *IPv4Header
	Echo   *Echo
	// ChecksumOK is the result of advisory ICMP checksum verification
	ChecksumOK bool
}

// Src returns the datagram source address
func (p *Packet) Src() netip.Addr {
	return p.Header.Src
}

// ParsePacket decodes an IPv4 header and the ICMP message found at its payload
// offset. Datagrams of other protocols and non-echo ICMP types are returned
// as is, filtering is up to the caller.
func ParsePacket(b []byte) (*Packet, error) {
	hdr, offset, err := ParseIPv4Header(b)
	if err != nil {
		return nil, err
	}

	payload := b[offset:]
	// Raw sockets deliver whole datagrams, but some stacks report TotalLen
	// differently (host byte order, header excluded). Only trim when it is sane.
	if tl := int(hdr.TotalLen); tl >= offset && tl <= len(b) {
		payload = b[offset:tl]
	}

	echo, err := ParseEcho(payload)
	if err != nil {
		return nil, err
	}

	return &Packet{
		Header:     hdr,
		Echo:       echo,
		ChecksumOK: VerifyChecksum(payload),
	}, nil
}

// MarshalPacket wraps an ICMP message into an IPv4 datagram from src to dst.
// Used to emulate raw socket input.
func MarshalPacket(src, dst netip.Addr, ttl uint8, icmp []byte) ([]byte, error) {
	hdr := IPv4Header{
		TotalLen: uint16(IPv4HeaderLen + len(icmp)),
		TTL:      ttl,
		Protocol: ProtocolICMP,
		Src:      src,
		Dst:      dst,
	}
	b, err := hdr.Marshal()
	if err != nil {
		return nil, err
	}
	return append(b, icmp...), nil
}

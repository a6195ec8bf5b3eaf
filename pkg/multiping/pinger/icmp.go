package pinger

import (
	"encoding/binary"
	"fmt"
)

// Echo is an ICMP Echo Request or Echo Reply message
type Echo struct {
	Type     uint8
	Code     uint8
	Checksum uint16
	ID       uint16
	Seq      uint16
	Data     []byte
}

// Byte offsets of ICMP echo header
const (
	icmpType     = 0
	icmpCode     = 1
	icmpChecksum = 2
	icmpID       = 4
	icmpSeq      = 6
)

// MarshalEcho encodes an ICMP echo message with a valid checksum
func MarshalEcho(typ, code uint8, id, seq uint16, payload []byte) []byte {
	return AppendEcho(nil, typ, code, id, seq, payload)
}

// AppendEcho appends encoded ICMP echo message to b. Pass b[:0] to reuse
// a buffer between messages.
func AppendEcho(b []byte, typ, code uint8, id, seq uint16, payload []byte) []byte {
	start := len(b)
	b = append(b, typ, code, 0, 0, 0, 0, 0, 0)
	b = append(b, payload...)

	m := b[start:]
	binary.BigEndian.PutUint16(m[icmpID:], id)
	binary.BigEndian.PutUint16(m[icmpSeq:], seq)
	binary.BigEndian.PutUint16(m[icmpChecksum:], Checksum(m))
	return b
}

// Marshal encodes the message and stores calculated checksum in e
func (e *Echo) Marshal() []byte {
	b := MarshalEcho(e.Type, e.Code, e.ID, e.Seq, e.Data)
	e.Checksum = binary.BigEndian.Uint16(b[icmpChecksum:])
	return b
}

// ParseEcho decodes ICMP echo message. Type is not checked here and checksum
// is not verified, callers may use VerifyChecksum on the same buffer.
func ParseEcho(b []byte) (*Echo, error) {
	if len(b) < EchoHeaderLen {
		return nil, fmt.Errorf("%w: icmp message too short (%d bytes)", ErrMalformedPacket, len(b))
	}

	e := &Echo{
		Type:     b[icmpType],
		Code:     b[icmpCode],
		Checksum: binary.BigEndian.Uint16(b[icmpChecksum:]),
		ID:       binary.BigEndian.Uint16(b[icmpID:]),
		Seq:      binary.BigEndian.Uint16(b[icmpSeq:]),
	}
	if len(b) > EchoHeaderLen {
		e.Data = append([]byte(nil), b[EchoHeaderLen:]...)
	}
	return e, nil
}

// IsReply returns true for Echo Reply messages
func (e *Echo) IsReply() bool {
	return e.Type == TypeEchoReply
}

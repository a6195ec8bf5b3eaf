package pinger

import (
	"errors"

	"golang.org/x/net/ipv4"
)

const (
	// ProtocolICMP is the IPv4 protocol number of ICMP
	ProtocolICMP = 1

	// IPv4 fixed header length and header length limits (in 32-bit words)
	IPv4HeaderLen = ipv4.HeaderLen
	minIHL        = IPv4HeaderLen / 4
	maxIHL        = 15
	maxOptionsLen = maxIHL*4 - IPv4HeaderLen

	// ICMP echo header: type, code, checksum, identifier, sequence
	EchoHeaderLen = 8
)

// ICMP echo message types
const (
	TypeEchoReply   = uint8(ipv4.ICMPTypeEchoReply)
	TypeEchoRequest = uint8(ipv4.ICMPTypeEcho)
)

var (
	ErrMalformedPacket = errors.New("malformed packet")
	ErrInvalidConn     = errors.New("invalid connection")
	ErrInvalidAddr     = errors.New("invalid address")
	ErrTimeout         = errors.New("receive timeout")
)

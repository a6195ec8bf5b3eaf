package pinger

// Checksum calculates the RFC 1071 Internet checksum of b.
// Buffer is summed as big-endian 16-bit words, a dangling odd byte is the high
// byte of a zero padded word. The checksum field inside b must be zeroed.
func Checksum(b []byte) uint16 {
	return ^fold(sum(b))
}

// VerifyChecksum reports whether b, including its checksum field, sums to zero.
func VerifyChecksum(b []byte) bool {
	return fold(sum(b)) == 0xffff
}

func sum(b []byte) uint32 {
	var s uint32
	n := len(b) &^ 1
	for i := 0; i < n; i += 2 {
		s += uint32(b[i])<<8 | uint32(b[i+1])
	}
	if len(b)&1 == 1 {
		s += uint32(b[len(b)-1]) << 8
	}
	return s
}

func fold(s uint32) uint16 {
	for s>>16 != 0 {
		s = (s & 0xffff) + (s >> 16)
	}
	return uint16(s)
}

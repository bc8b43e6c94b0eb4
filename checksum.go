package llt

// ~(b + len(data) + sum(data)) + 1, truncated to 16 bits. Requests
// checksum the command byte, responses the status byte.
func Checksum(b byte, data []byte) int16 {
	s := int(b) + len(data)
	for _, d := range data {
		s += int(d)
	}
	return int16(-s)
}

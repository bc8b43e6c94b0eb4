package llt

import "unsafe"

type BadFrameErr []byte

func (e BadFrameErr) Error() string {
	// 1234567890123456789
	// malformed frame: []
	h := hexs(e)
	l := 19 + h.Len()
	noteAlloc(l)
	b := make([]byte, 0, l)
	b = append(b, "malformed frame: ["...)
	b = h.Append(b)
	b = append(b, ']')
	return unsafe.String(&b[0], len(b))
}

type ChecksumErr []byte

func (e ChecksumErr) Error() string {
	// 1234567890123456
	// bad checksum: []
	h := hexs(e)
	l := 16 + h.Len()
	noteAlloc(l)
	b := make([]byte, 0, l)
	b = append(b, "bad checksum: ["...)
	b = h.Append(b)
	b = append(b, ']')
	return unsafe.String(&b[0], len(b))
}

type DeviceErr byte

func (e DeviceErr) Error() string {
	// 123456789012345678
	// device error: 0x00
	noteAlloc(18)
	b := make([]byte, 0, 18)
	b = append(b, "device error: 0x"...)
	b = hexs{byte(e)}.Append(b)
	return unsafe.String(&b[0], len(b))
}

type DecodeErr string

func (e DecodeErr) Error() string {
	return string(e)
}

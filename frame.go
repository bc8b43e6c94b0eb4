package llt

import "fmt"

const (
	START byte = 0xDD
	STOP  byte = 0x77
	READ  byte = 0xA5
	WRITE byte = 0x5A
)

type Request struct {
	Mode byte
	Cmd  byte
	Data []byte
}

func (r Request) Bytes() []byte {
	if len(r.Data) > 255 {
		panic(fmt.Sprintf("data too long: %d", len(r.Data)))
	}
	b := make([]byte, 0, len(r.Data)+7)
	b = append(b, START, r.Mode, r.Cmd, byte(len(r.Data)))
	b = append(b, r.Data...)
	s := uint16(Checksum(r.Cmd, r.Data))
	b = append(b, byte(s>>8), byte(s), STOP)
	return b
}

type Response struct {
	Cmd    byte
	Status byte
	Data   []byte
	Sum    int16
}

func ParseResponse(b []byte) (*Response, error) {
	if len(b) < 7 || b[0] != START || b[len(b)-1] != STOP ||
		len(b) != int(b[3])+7 {
		return nil, BadFrameErr(b)
	}
	n := int(b[3])
	return &Response{
		Cmd:    b[1],
		Status: b[2],
		Data:   b[4 : 4+n],
		Sum:    int16(uint16(b[4+n])<<8 | uint16(b[5+n])),
	}, nil
}

func (r *Response) Verify() bool {
	return r.Sum == Checksum(r.Status, r.Data)
}

package llt

import (
	"fmt"
	"math/bits"
	"strconv"
	"unsafe"
)

const (
	STATUS  byte = 0x03
	VOLTAGE byte = 0x04
	VERSION byte = 0x05
	MOSFET  byte = 0xE2
)

type Cmd interface {
	TxBytes() []byte
	Op() byte
	Tx() string

	RxBytes() *[]byte
	IsValidRx() bool
	VerifyRx() bool
	Rx() string
	Err() error

	String() string
}

type cmd struct {
	tx []byte
	rx []byte
}

func (c *cmd) TxBytes() []byte {
	return c.tx
}

func (c *cmd) Op() byte {
	return c.tx[2]
}

func (c *cmd) RxBytes() *[]byte {
	return &c.rx
}

func (c *cmd) IsValidRx() bool {
	return len(c.rx) >= 7 && c.rx[0] == START &&
		c.rx[len(c.rx)-1] == STOP &&
		len(c.rx) == int(c.rx[3])+7 &&
		c.rx[1] == c.tx[2]
}

func (c *cmd) VerifyRx() bool {
	return c.rxSum() == Checksum(c.rx[2], c.rxData())
}

func (c *cmd) Err() error {
	if len(c.rx) >= 7 && c.rx[2] != 0 {
		return DeviceErr(c.rx[2])
	}
	return nil
}

func (c *cmd) rxData() []byte {
	return c.rx[4 : len(c.rx)-3]
}

func (c *cmd) rxSum() int16 {
	i := len(c.rx) - 3
	return int16(uint16(c.rx[i])<<8 | uint16(c.rx[i+1]))
}

//----------------------------------------------------------------------

type StatusCmd struct {
	cmd
}

func NewStatusCmd() *StatusCmd {
	return &StatusCmd{cmd{
		tx: Request{Mode: READ, Cmd: STATUS}.Bytes(),
		rx: make([]byte, 0, 23+2*8+7),
	}}
}

func (c *StatusCmd) Info() (*Info, error) {
	return DecodeInfo(c.rxData())
}

func (c *StatusCmd) Tx() string {
	return "<-ST"
}

func (c *StatusCmd) Rx() string {
	l := c.rxLen()
	noteAlloc(l)
	b := c.aRx(make([]byte, 0, l))
	return unsafe.String(&b[0], len(b))
}

func (c *StatusCmd) rxLen() int {
	if c.Err() != nil {
		//  ->  2
		// ST   2
		// ' '  2
		// err 18
		// ------+
		//     24
		return 24
	} else if c.okData() {
		//  -> 2
		// ST  2
		// ' ' 2
		// 'V' 1
		// ' ' 1
		// 'A' 1
		// ' ' 1
		// '%' 1
		// -----+
		//    11
		l := 11 + fLen(c.volts()) + daLen(c.soc())
		if a := c.amps(); a < 0 {
			l += 1 + fLen(uint16(-a))
		} else {
			l += fLen(uint16(a))
		}
		if n := c.faults(); n > 0 {
			l += 2 + cLen(n)
		}
		return l
	} else {
		//  -> 2
		// ST  2
		// ' ' 2
		//  [] 2
		// -----+
		//     8
		return 8 + hexs(c.rxData()).Len()
	}
}

func (c *StatusCmd) aRx(b []byte) []byte {
	b = append(b, "->ST  "...)
	if err := c.Err(); err != nil {
		return append(b, err.Error()...)
	} else if !c.okData() {
		b = append(b, '[')
		b = hexs(c.rxData()).Append(b)
		return append(b, ']')
	}
	b = aCenti(b, c.volts())
	b = append(b, 'V', ' ')
	if a := c.amps(); a < 0 {
		b = append(b, '-')
		b = aCenti(b, uint16(-a))
	} else {
		b = aCenti(b, uint16(a))
	}
	b = append(b, 'A', ' ')
	b = strconv.AppendInt(b, int64(c.soc()), 10)
	b = append(b, '%')
	if n := c.faults(); n > 0 {
		b = append(b, ' ', '!')
		b = strconv.AppendInt(b, int64(n), 10)
	}
	return b
}

func (c *StatusCmd) String() string {
	if c.IsValidRx() {
		// <-ST 4
		// '\n' 1
		// ------+
		//      5
		l := 5 + c.rxLen()
		noteAlloc(l)
		b := make([]byte, 0, l)
		b = append(b, "<-ST\n"...)
		b = c.aRx(b)
		return unsafe.String(&b[0], len(b))
	} else {
		h := hexs(c.rx)
		// <-ST 4
		// '\n' 1
		//   [] 2
		// ------+
		//      7
		l := 7 + h.Len()
		noteAlloc(l)
		b := make([]byte, 0, l)
		b = append(b, "<-ST\n["...)
		b = h.Append(b)
		b = append(b, ']')
		return unsafe.String(&b[0], len(b))
	}
}

func (c *StatusCmd) okData() bool {
	n := len(c.rx) - 7
	return n >= 23 && n == 23+2*int(c.rx[26])
}

func (c *StatusCmd) volts() uint16 {
	return uint16(c.rx[4])<<8 | uint16(c.rx[5])
}

func (c *StatusCmd) amps() int16 {
	return int16(uint16(c.rx[6])<<8 | uint16(c.rx[7]))
}

func (c *StatusCmd) faults() int {
	return bits.OnesCount16(uint16(c.rx[20])<<8 | uint16(c.rx[21]))
}

func (c *StatusCmd) soc() byte {
	return c.rx[23]
}

//----------------------------------------------------------------------

type VoltagesCmd struct {
	cmd
}

func NewVoltagesCmd() *VoltagesCmd {
	return &VoltagesCmd{cmd{
		tx: Request{Mode: READ, Cmd: VOLTAGE}.Bytes(),
		rx: make([]byte, 0, 2*16+7),
	}}
}

func (c *VoltagesCmd) Volts() ([]float64, error) {
	return DecodeVolts(c.rxData())
}

func (c *VoltagesCmd) Count() int {
	if len(c.rx) < 7 {
		return 0
	}
	return (len(c.rx) - 7) / 2
}

func (c *VoltagesCmd) Cell(i int) uint16 {
	if i < 0 || i >= c.Count() {
		panic(fmt.Sprintf("invalid i: %d", i))
	}
	return uint16(c.rx[4+2*i])<<8 | uint16(c.rx[5+2*i])
}

func (c *VoltagesCmd) Tx() string {
	return "<-CV"
}

func (c *VoltagesCmd) Rx() string {
	l := c.rxLen()
	noteAlloc(l)
	b := c.aRx(make([]byte, 0, l))
	return unsafe.String(&b[0], len(b))
}

func (c *VoltagesCmd) rxLen() int {
	if c.Err() != nil {
		//  ->  2
		// CV   2
		// ' '  2
		// err 18
		// ------+
		//     24
		return 24
	} else if (len(c.rx)-7)%2 == 0 {
		//  -> 2
		// CV  2
		// ' ' 2
		//  [] 2
		// -----+
		//     8
		n := c.Count()
		l := 8 + cLen(n) + n*6
		if n > 5 {
			l += (n / 5) * 2
		}
		if n > 10 {
			l += 3
			l -= n / 10
		}
		return l
	} else {
		return 8 + hexs(c.rxData()).Len()
	}
}

func (c *VoltagesCmd) aRx(b []byte) []byte {
	b = append(b, "->CV  "...)
	if err := c.Err(); err != nil {
		return append(b, err.Error()...)
	} else if (len(c.rx)-7)%2 != 0 {
		b = append(b, '[')
		b = hexs(c.rxData()).Append(b)
		return append(b, ']')
	}
	var a [5]byte
	t := a[:0]
	n := c.Count()
	b = strconv.AppendInt(b, int64(n), 10)
	b = append(b, '[')
	for i := 0; i < n; i++ {
		if i == 0 && n > 10 {
			b = append(b, '\n')
			b = append(b, ' ')
		}
		if i > 0 {
			if i%10 == 0 {
				b = append(b, '\n')
				b = append(b, ' ')
			} else {
				b = append(b, ' ')
				if i%5 == 0 {
					b = append(b, ':')
					b = append(b, ' ')
				}
			}
		}
		t = strconv.AppendInt(t[:0], int64(c.Cell(i)), 10)
		for j := 0; j < cap(t)-len(t); j++ {
			b = append(b, ' ')
		}
		b = append(b, t...)
	}
	if n > 10 {
		b = append(b, '\n')
	}
	return append(b, ']')
}

func (c *VoltagesCmd) String() string {
	if c.IsValidRx() {
		// <-CV 4
		// '\n' 1
		// ------+
		//      5
		l := 5 + c.rxLen()
		noteAlloc(l)
		b := make([]byte, 0, l)
		b = append(b, "<-CV\n"...)
		b = c.aRx(b)
		return unsafe.String(&b[0], len(b))
	} else {
		h := hexs(c.rx)
		// <-CV 4
		// '\n' 1
		//   [] 2
		// ------+
		//      7
		l := 7 + h.Len()
		noteAlloc(l)
		b := make([]byte, 0, l)
		b = append(b, "<-CV\n["...)
		b = h.Append(b)
		b = append(b, ']')
		return unsafe.String(&b[0], len(b))
	}
}

//----------------------------------------------------------------------

type VersionCmd struct {
	cmd
}

func NewVersionCmd() *VersionCmd {
	return &VersionCmd{cmd{
		tx: Request{Mode: READ, Cmd: VERSION}.Bytes(),
		rx: make([]byte, 0, 32+7),
	}}
}

func (c *VersionCmd) Version() string {
	return DecodeVersion(c.rxData())
}

func (c *VersionCmd) Tx() string {
	return "<-VER"
}

func (c *VersionCmd) Rx() string {
	l := c.rxLen()
	noteAlloc(l)
	b := c.aRx(make([]byte, 0, l))
	return unsafe.String(&b[0], len(b))
}

func (c *VersionCmd) rxLen() int {
	if c.Err() != nil {
		//  ->  2
		// VER  3
		// ' '  1
		// err 18
		// ------+
		//     24
		return 24
	}
	//  -> 2
	// VER 3
	// ' ' 1
	// -----+
	//     6
	return 6 + len(c.rx) - 7
}

func (c *VersionCmd) aRx(b []byte) []byte {
	b = append(b, "->VER "...)
	if err := c.Err(); err != nil {
		return append(b, err.Error()...)
	}
	return append(b, c.rxData()...)
}

func (c *VersionCmd) String() string {
	if c.IsValidRx() {
		// <-VER 5
		//  '\n' 1
		// -------+
		//       6
		l := 6 + c.rxLen()
		noteAlloc(l)
		b := make([]byte, 0, l)
		b = append(b, "<-VER\n"...)
		b = c.aRx(b)
		return unsafe.String(&b[0], len(b))
	} else {
		h := hexs(c.rx)
		// <-VER 5
		//  '\n' 1
		//    [] 2
		// -------+
		//       8
		l := 8 + h.Len()
		noteAlloc(l)
		b := make([]byte, 0, l)
		b = append(b, "<-VER\n["...)
		b = h.Append(b)
		b = append(b, ']')
		return unsafe.String(&b[0], len(b))
	}
}

//----------------------------------------------------------------------

type MosfetMode byte

const (
	BlockCharge MosfetMode = iota + 1
	BlockDischarge
	BlockBoth
)

func (m MosfetMode) String() string {
	switch m {
	case BlockCharge:
		return "charge"
	case BlockDischarge:
		return "discharge"
	case BlockBoth:
		return "both"
	default:
		return fmt.Sprintf("mode %d", m)
	}
}

type MosfetCmd struct {
	cmd
}

func NewMosfetCmd(mode MosfetMode) *MosfetCmd {
	if mode < BlockCharge || mode > BlockBoth {
		panic(fmt.Sprintf("invalid mode: %d", mode))
	}
	return &MosfetCmd{cmd{
		tx: Request{
			Mode: WRITE,
			Cmd:  MOSFET,
			Data: []byte{0, byte(mode)},
		}.Bytes(),
		rx: make([]byte, 0, 7),
	}}
}

func (c *MosfetCmd) Mode() MosfetMode {
	return MosfetMode(c.tx[5])
}

func (c *MosfetCmd) Tx() string {
	//  <-  2
	// FET  3
	// ' '  1
	// ------+
	//      6
	l := 6 + len(c.Mode().String())
	noteAlloc(l)
	b := c.aTx(make([]byte, 0, l))
	return unsafe.String(&b[0], len(b))
}

func (c *MosfetCmd) aTx(b []byte) []byte {
	b = append(b, "<-FET "...)
	return append(b, c.Mode().String()...)
}

func (c *MosfetCmd) Rx() string {
	l := c.rxLen()
	noteAlloc(l)
	b := c.aRx(make([]byte, 0, l))
	return unsafe.String(&b[0], len(b))
}

func (c *MosfetCmd) rxLen() int {
	if c.Err() != nil {
		//  ->  2
		// FET  3
		// ' '  1
		// err 18
		// ------+
		//     24
		return 24
	}
	//  -> 2
	// FET 3
	// ' ' 1
	// ok  2
	// -----+
	//     8
	return 8
}

func (c *MosfetCmd) aRx(b []byte) []byte {
	b = append(b, "->FET "...)
	if err := c.Err(); err != nil {
		return append(b, err.Error()...)
	}
	return append(b, "ok"...)
}

func (c *MosfetCmd) String() string {
	l := 6 + len(c.Mode().String())
	if c.IsValidRx() {
		// '\n' 1
		l += 1 + c.rxLen()
		noteAlloc(l)
		b := c.aTx(make([]byte, 0, l))
		b = append(b, '\n')
		b = c.aRx(b)
		return unsafe.String(&b[0], len(b))
	} else {
		h := hexs(c.rx)
		// '\n' 1
		//   [] 2
		l += 3 + h.Len()
		noteAlloc(l)
		b := c.aTx(make([]byte, 0, l))
		b = append(b, '\n', '[')
		b = h.Append(b)
		b = append(b, ']')
		return unsafe.String(&b[0], len(b))
	}
}

//----------------------------------------------------------------------

func daLen(a byte) int {
	if a < 10 {
		return 1
	} else if a < 100 {
		return 2
	} else {
		return 3
	}
}

func aLen(a uint16) int {
	if a < 10 {
		return 1
	} else if a < 100 {
		return 2
	} else if a < 1000 {
		return 3
	} else if a < 10000 {
		return 4
	} else {
		return 5
	}
}

func cLen(c int) int {
	if c < 10 {
		return 1
	} else if c < 100 {
		return 2
	} else if c < 1000 {
		return 3
	} else {
		return 4
	}
}

func fLen(v uint16) int {
	return aLen(v/100) + 3
}

func aCenti(b []byte, v uint16) []byte {
	b = strconv.AppendInt(b, int64(v/100), 10)
	b = append(b, '.', '0'+byte(v%100/10), '0'+byte(v%10))
	return b
}

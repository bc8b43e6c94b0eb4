package llt

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strconv"
	"unsafe"
)

var FaultNames = [16]string{
	"Cell Block Over-volt",
	"Cell Block Under-volt",
	"Battery Over-volt",
	"Battery Under-volt",
	"Charging Temp High",
	"Charging Temp Low",
	"Discharging Temp High",
	"Discharging Temp Low",
	"Charging Over-current",
	"Discharging Over-current",
	"Short Circuit",
	"IC Error",
	"MOSFET Lock",
	"Reserved 1",
	"Reserved 2",
	"Reserved 3",
}

type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	// 1234567890
	// 2000-00-00
	noteAlloc(10)
	b := make([]byte, 0, 10)
	b = strconv.AppendInt(b, int64(d.Year), 10)
	b = append(b, '-')
	if d.Month < 10 {
		b = append(b, '0')
	}
	b = strconv.AppendInt(b, int64(d.Month), 10)
	b = append(b, '-')
	if d.Day < 10 {
		b = append(b, '0')
	}
	b = strconv.AppendInt(b, int64(d.Day), 10)
	return unsafe.String(&b[0], len(b))
}

type Info struct {
	Volts       float64 // pack voltage, V
	Amps        float64 // pack current, A; negative while discharging
	Residual    float64 // remaining capacity, Ah
	Nominal     float64 // design capacity, Ah
	Cycles      int
	Made        Date
	Balance     uint16 // balance bits, cells 1-16
	BalanceHigh uint16 // balance bits, cells 17-32
	Protection  uint16 // fault bits, see FaultNames
	Version     float64
	SOC         int  // relative state of charge, %
	FET         byte // bit 0 charge, bit 1 discharge
	Temps       []float64
}

func (i *Info) Faults() []string {
	if i.Protection == 0 {
		return nil
	}
	f := make([]string, 0, bits.OnesCount16(i.Protection))
	for j := 0; j < 16; j++ {
		if i.Protection&(1<<j) != 0 {
			f = append(f, FaultNames[j])
		}
	}
	return f
}

func (i *Info) ChargeFET() bool {
	return i.FET&1 != 0
}

func (i *Info) DischargeFET() bool {
	return i.FET&2 != 0
}

func (i *Info) Balancing(cell int) bool {
	if cell < 1 || cell > 32 {
		panic(fmt.Sprintf("invalid cell: %d", cell))
	}
	if cell <= 16 {
		return i.Balance&(1<<(cell-1)) != 0
	}
	return i.BalanceHigh&(1<<(cell-17)) != 0
}

func DecodeInfo(data []byte) (*Info, error) {
	if len(data) < 23 {
		return nil, DecodeErr(fmt.Sprintf("info too short: %d", len(data)))
	}
	n := int(data[22])
	if len(data) != 23+2*n {
		return nil, DecodeErr(fmt.Sprintf(
			"info length %d, want %d", len(data), 23+2*n))
	}

	u := binary.BigEndian.Uint16
	nfo := &Info{
		Volts:       float64(u(data[0:])) / 100,
		Amps:        float64(int16(u(data[2:]))) / 100,
		Residual:    float64(u(data[4:])) / 100,
		Nominal:     float64(u(data[6:])) / 100,
		Cycles:      int(u(data[8:])),
		Made:        decodeDate(u(data[10:])),
		Balance:     u(data[12:]),
		BalanceHigh: u(data[14:]),
		Protection:  u(data[16:]),
		Version:     float64(data[18]) / 10,
		SOC:         int(data[19]),
		FET:         data[20],
		Temps:       make([]float64, n),
	}
	for i := range nfo.Temps {
		nfo.Temps[i] = fahrenheit(u(data[23+2*i:]))
	}
	return nfo, nil
}

func DecodeVolts(data []byte) ([]float64, error) {
	if len(data)%2 != 0 {
		return nil, DecodeErr(fmt.Sprintf(
			"odd voltage payload: %d", len(data)))
	}
	v := make([]float64, len(data)/2)
	for i := range v {
		v[i] = float64(binary.BigEndian.Uint16(data[2*i:])) / 1000
	}
	return v, nil
}

func DecodeVersion(data []byte) string {
	return string(data)
}

// Year 2000 epoch: 7 bit year, 4 bit month, 5 bit day. Out of range
// months and days pass through undecoded.
func decodeDate(v uint16) Date {
	return Date{
		Year:  2000 + int(v>>9),
		Month: int(v>>5) & 0xF,
		Day:   int(v) & 0x1F,
	}
}

// Readings arrive in tenths of a Kelvin.
func fahrenheit(v uint16) float64 {
	return (float64(v)-2731)/10*9/5 + 32
}

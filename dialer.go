package llt

import (
	"bytes"
	"io"
	"os"
	"time"

	"go.bug.st/serial"
)

const (
	BAUD    = 9600
	TIMEOUT = 3 * time.Second
	WAIT    = 5 * time.Millisecond
)

type DialErr struct {
	Port string
	Err  error
}

func (e DialErr) Error() string {
	return e.Err.Error() + " while opening " + e.Port
}

func (e DialErr) Unwrap() error {
	return e.Err
}

type Dialer struct {
	Port    string
	Baud    int
	Timeout time.Duration
	Wait    time.Duration
}

func (p *Dialer) Dial(
	repeat bool,
) (Conn, time.Duration, time.Duration, error) {
	if p.Port == "" {
		panic("empty Dialer.Port")
	}
	if p.Baud <= 0 {
		p.Baud = BAUD
	}
	if p.Timeout <= 0 {
		p.Timeout = TIMEOUT
	}
	if p.Wait <= 0 {
		p.Wait = WAIT
	}

	if repeat {
		debugLog("Opening %s", p.Port)
	} else {
		log("Opening %s", p.Port)
	}
	port, err := serial.Open(p.Port, &serial.Mode{
		BaudRate: p.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, p.Timeout, p.Wait, DialErr{p.Port, err}
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, p.Timeout, p.Wait, DialErr{p.Port, err}
	}
	log("%s opened", p.Port)

	c := &serialConn{port: port, buf: make([]byte, 512)}
	return c, p.Timeout, p.Wait, nil
}

type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
}

type serialConn struct {
	port     serialPort
	deadline time.Time
	buf      []byte
	r, w     int
}

func (c *serialConn) Write(b []byte) (int, error) {
	return c.port.Write(b)
}

func (c *serialConn) Close() error {
	return c.port.Close()
}

// Serial writes land in the kernel buffer, only reads block.
func (c *serialConn) SetWriteDeadline(time.Time) error {
	return nil
}

func (c *serialConn) SetReadDeadline(t time.Time) error {
	c.deadline = t
	return nil
}

func (c *serialConn) ReadByte() (byte, error) {
	if c.r == c.w {
		if err := c.fill(); err != nil {
			return 0, err
		}
	}
	b := c.buf[c.r]
	c.r++
	return b, nil
}

func (c *serialConn) ReadBytes(delim byte) ([]byte, error) {
	var b []byte
	for {
		if i := bytes.IndexByte(c.buf[c.r:c.w], delim); i >= 0 {
			b = append(b, c.buf[c.r:c.r+i+1]...)
			c.r += i + 1
			return b, nil
		}
		b = append(b, c.buf[c.r:c.w]...)
		c.r = c.w
		if err := c.fill(); err != nil {
			return b, err
		}
	}
}

// The port has no absolute deadlines, so each refill gets the rest of
// the read budget as its timeout. An expired read comes back as n == 0
// with no error.
func (c *serialConn) fill() error {
	c.r = 0
	c.w = 0
	d := c.deadline.Sub(ctime.Now())
	if d <= 0 {
		return os.ErrDeadlineExceeded
	}
	if err := c.port.SetReadTimeout(d); err != nil {
		return err
	}
	n, err := c.port.Read(c.buf)
	if err != nil {
		return err
	}
	if n == 0 {
		return os.ErrDeadlineExceeded
	}
	c.w = n
	return nil
}

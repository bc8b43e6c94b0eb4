package llt

import (
	"io"
	"time"

	"github.com/bangzek/clock"
)

var (
	ctime = clock.New()
)

func SetClock(c clock.Clock) {
	ctime = c
}

type Conn interface {
	io.WriteCloser
	ReadByte() (byte, error)
	ReadBytes(delim byte) ([]byte, error)
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

type ConnDialer interface {
	Dial(bool) (Conn, time.Duration, time.Duration, error)
}

type Controller struct {
	Dialer ConnDialer

	conn    Conn
	timeout time.Duration
	wait    time.Duration
	repeat  bool
}

func (c *Controller) Close() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Controller) Send(cmd Cmd) error {
	if c.conn == nil {
		var err error
		c.conn, c.timeout, c.wait, err = c.Dialer.Dial(c.repeat)
		if err != nil {
			c.repeat = true
			return err
		}
		c.repeat = false
	}

	if err := c.conn.SetWriteDeadline(ctime.Now().Add(c.timeout)); err != nil {
		c.Close()
		return err
	}

	tx := cmd.TxBytes()
	debugLog("tx: % X", tx)
	debugLog("TX: %s", cmd.Tx())
	if n, err := c.conn.Write(tx); err != nil {
		c.Close()
		return err
	} else if n != len(tx) {
		c.Close()
		return io.ErrShortWrite
	}

	time.Sleep(c.wait)

	if err := c.conn.SetReadDeadline(ctime.Now().Add(c.timeout)); err != nil {
		c.Close()
		return err
	}

	rx := cmd.RxBytes()
	*rx = (*rx)[:0]
	if b, err := c.conn.ReadByte(); err != nil {
		c.Close()
		return err
	} else if b != START {
		c.Close()
		return BadFrameErr{b}
	} else {
		*rx = append(*rx, b)
	}
	if rest, err := c.conn.ReadBytes(STOP); err != nil {
		c.Close()
		return err
	} else {
		*rx = append(*rx, rest...)
	}
	debugLog("rx: % X", *rx)
	if !cmd.IsValidRx() {
		c.Close()
		return BadFrameErr(*rx)
	}
	// A checksum miss leaves the stream delimiter-synced, so the port
	// stays open for the next exchange.
	if !cmd.VerifyRx() {
		return ChecksumErr(*rx)
	}
	debugLog("RX: %s", cmd.Rx())
	return cmd.Err()
}

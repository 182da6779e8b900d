package display

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
)

// SimCommand is one recorded opcode with its parameter bytes.
type SimCommand struct {
	Opcode byte
	Params []byte
}

// SimConn is an in-memory Conn that records the command/data stream
// instead of driving hardware. Callers use it to run headless when
// opening the real bus fails; tests use it to inspect the wire format.
type SimConn struct {
	// Commands recorded in order.
	Commands []SimCommand

	// Payload holds all data-mode bytes sent outside command parameters.
	Payload []byte

	// Resets are the recorded reset line levels.
	Resets []gpio.Level

	// Err, when set, fails every subsequent write.
	Err error

	closed bool
}

// Sim returns a new simulated connection.
func Sim() *SimConn {
	return &SimConn{}
}

func (c *SimConn) String() string {
	return "simulated bus"
}

func (c *SimConn) Close() error {
	c.closed = true
	return nil
}

// Reset records the level. It keeps working after Close, the reset line
// is a GPIO pin and outlives the bus handle.
func (c *SimConn) Reset(level gpio.Level) error {
	c.Resets = append(c.Resets, level)
	return nil
}

func (c *SimConn) Command(cmnd byte, data ...byte) error {
	if err := c.check(); err != nil {
		return err
	}
	c.Commands = append(c.Commands, SimCommand{
		Opcode: cmnd,
		Params: append([]byte(nil), data...),
	})
	return nil
}

func (c *SimConn) Data(data ...byte) error {
	if err := c.check(); err != nil {
		return err
	}
	c.Payload = append(c.Payload, data...)
	return nil
}

func (c *SimConn) check() error {
	if c.closed {
		return &TransportError{Op: "write", Err: errors.New("bus is closed")}
	}
	if c.Err != nil {
		return &TransportError{Op: "write", Err: c.Err}
	}
	return nil
}

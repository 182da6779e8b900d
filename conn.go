package display

import (
	"errors"
	"fmt"
	"io"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/pocketcam/display/conn"
)

// Conn errors.
var (
	ErrResetPin = errors.New("display: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("display: data/command (DC) GPIO pin is invalid")
)

// Conn is the command/data channel to the panel controller.
//
// All writes are blocking and strictly ordered, both within and across
// calls. A failed write is fatal to the current call only; the Conn
// never retries.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends an opcode byte with optional parameter bytes.
	Command(byte, ...byte) error

	// Data sends payload bytes in data mode.
	Data(...byte) error
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	Bus       int
	Device    int
	Mode      conn.SPIMode
	SpeedHz   uint32
	BatchSize uint
	Reset     gpio.PinOut
	DC        gpio.PinOut
	CE        gpio.PinOut
}

// DefaultSPIConfig matches the pocketcam wiring: reset on GPIO25, D/C on
// GPIO24, chip enable on the bus's own CE0, mode 0 at 8 MHz.
var DefaultSPIConfig = SPIConfig{
	Bus:       0,
	Device:    0,
	Mode:      conn.SPIMode0,
	SpeedHz:   8_000_000,
	BatchSize: 4096,
	Reset:     gpioreg.ByName("GPIO25"),
	DC:        gpioreg.ByName("GPIO24"),
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
	24_000_000,
	32_000_000,
	40_000_000,
}

// spiBus is the write end of the serial bus; satisfied by [conn.SPI].
type spiBus interface {
	io.Writer
	io.Closer
	fmt.Stringer
}

type spiConn struct {
	bus       spiBus
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	cs        gpio.PinOut
	batchSize uint
}

// OpenSPI opens the spidev device and control pins. The controller is
// left untouched; initialization happens in [Device.Init].
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}

	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == config.SpeedHz; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("display: invalid SPI speed %dHz", config.SpeedHz)
	}

	if config.BatchSize == 0 {
		config.BatchSize = DefaultSPIConfig.BatchSize
	}
	// A batch boundary must never split the two bytes of one encoded
	// pixel, so batches are kept at an even byte count.
	if config.BatchSize%2 != 0 {
		return nil, fmt.Errorf("display: batch size %d is not a multiple of the pixel size", config.BatchSize)
	}

	// Drive the D/C line to a known level so the cached state matches
	// the hardware.
	if err := config.DC.Out(gpio.Low); err != nil {
		return nil, err
	}

	c, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}

	if err = c.SetMode(config.Mode); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err = c.SetMaxSpeed(int(config.SpeedHz)); err != nil {
		_ = c.Close()
		return nil, err
	}

	return &spiConn{
		bus:       c,
		batchSize: config.BatchSize,
		reset:     config.Reset,
		dc:        config.DC,
		cs:        config.CE,
	}, nil
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.bus)
}

func (c *spiConn) Close() error {
	return c.bus.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	if err := c.reset.Out(level); err != nil {
		return &TransportError{Op: "reset pin", Err: err}
	}
	return nil
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return &TransportError{Op: "data/command pin", Err: err}
		}
		c.dcLevel = level
	}
	return nil
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	if err := c.cs.Out(level); err != nil {
		return &TransportError{Op: "chip select pin", Err: err}
	}
	return nil
}

func (c *spiConn) Command(cmnd byte, data ...byte) (err error) {
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	if _, err = c.bus.Write([]byte{cmnd}); err != nil {
		return &TransportError{Op: "write command", Err: err}
	}
	if len(data) > 0 {
		if err = c.updateDC(gpio.High); err != nil {
			return
		}
		if err = c.writeBatched(data); err != nil {
			return
		}
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.writeBatched(data); err != nil {
		return
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) writeBatched(data []byte) error {
	if len(data) < int(c.batchSize) {
		if _, err := c.bus.Write(data); err != nil {
			return &TransportError{Op: "write data", Err: err}
		}
		return nil
	}

	if debug {
		log.Printf("write %d bytes of data in %d batches", len(data), (len(data)+int(c.batchSize)-1)/int(c.batchSize))
	}
	buffer := data
	for len(buffer) > 0 {
		n := int(c.batchSize)
		if n > len(buffer) {
			n = len(buffer)
		}
		if _, err := c.bus.Write(buffer[:n]); err != nil {
			return &TransportError{Op: "write data", Err: err}
		}
		buffer = buffer[n:]
	}
	return nil
}

package display

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type recordBus struct {
	writes [][]byte
	err    error
}

func (b *recordBus) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	b.writes = append(b.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (b *recordBus) Close() error { return nil }

func (b *recordBus) String() string { return "record" }

// seqPin records every level driven on the pin.
type seqPin struct {
	gpiotest.Pin
	levels []gpio.Level
}

func (p *seqPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return p.Pin.Out(l)
}

func newTestSPIConn(batchSize uint) (*spiConn, *recordBus, *seqPin) {
	bus := &recordBus{}
	dc := &seqPin{Pin: gpiotest.Pin{N: "DC"}}
	c := &spiConn{
		bus:       bus,
		reset:     &gpiotest.Pin{N: "RST"},
		dc:        dc,
		batchSize: batchSize,
	}
	return c, bus, dc
}

func TestSPIConnCommand(t *testing.T) {
	c, bus, dc := newTestSPIConn(4096)

	if err := c.Command(0x3A, 0x05); err != nil {
		t.Fatalf("Command: %v", err)
	}

	// Opcode and parameters go out as separate transfers, with the D/C
	// line switched to data mode in between.
	if len(bus.writes) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(bus.writes))
	}
	if len(bus.writes[0]) != 1 || bus.writes[0][0] != 0x3A {
		t.Errorf("first transfer is %#v, expected the opcode byte", bus.writes[0])
	}
	if len(bus.writes[1]) != 1 || bus.writes[1][0] != 0x05 {
		t.Errorf("second transfer is %#v, expected the parameter bytes", bus.writes[1])
	}
	if len(dc.levels) != 1 || dc.levels[0] != gpio.High {
		t.Errorf("expected one D/C transition to data mode, got %v", dc.levels)
	}

	// The next command switches back to command mode.
	if err := c.Command(0x29); err != nil {
		t.Fatalf("Command: %v", err)
	}
	if len(dc.levels) != 2 || dc.levels[1] != gpio.Low {
		t.Errorf("expected a D/C transition back to command mode, got %v", dc.levels)
	}
}

func TestSPIConnDataBatching(t *testing.T) {
	testCases := []struct {
		name  string
		batch uint
		size  int
		want  []int
	}{
		{"below batch size", 4096, 100, []int{100}},
		{"exact batch size", 4096, 4096, []int{4096}},
		{"full frame", 4096, 32768, []int{4096, 4096, 4096, 4096, 4096, 4096, 4096, 4096}},
		{"uneven tail", 4096, 5000, []int{4096, 904}},
		{"small batches", 8, 20, []int{8, 8, 4}},
	}
	for _, test := range testCases {
		t.Run(test.name, func(it *testing.T) {
			c, bus, _ := newTestSPIConn(test.batch)
			if err := c.Data(make([]byte, test.size)...); err != nil {
				it.Fatalf("Data: %v", err)
			}
			if len(bus.writes) != len(test.want) {
				it.Fatalf("expected %d transfers, got %d", len(test.want), len(bus.writes))
			}
			for i, want := range test.want {
				if len(bus.writes[i]) != want {
					it.Errorf("transfer %d has %d bytes, expected %d", i, len(bus.writes[i]), want)
				}
				// A batch boundary must never split an encoded pixel.
				if i < len(test.want)-1 && len(bus.writes[i])%2 != 0 {
					it.Errorf("transfer %d ends on an odd byte boundary", i)
				}
			}
		})
	}
}

func TestSPIConnWriteError(t *testing.T) {
	c, bus, _ := newTestSPIConn(8)
	bus.err = errors.New("input/output error")

	err := c.Data(make([]byte, 32)...)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected a TransportError, got %T: %v", err, err)
	}

	// The failed transfer is not retried.
	if len(bus.writes) != 0 {
		t.Errorf("expected no recorded transfers, got %d", len(bus.writes))
	}
}

func TestSPIConnReset(t *testing.T) {
	c, _, _ := newTestSPIConn(4096)
	if err := c.Reset(gpio.High); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if pin := c.reset.(*gpiotest.Pin); pin.L != gpio.High {
		t.Errorf("expected reset pin high, got %v", pin.L)
	}
}

func TestOpenSPIValidation(t *testing.T) {
	reset := &gpiotest.Pin{N: "RST"}
	dc := &gpiotest.Pin{N: "DC"}

	testCases := []struct {
		name   string
		config SPIConfig
		want   error
	}{
		{"missing reset pin", SPIConfig{DC: dc}, ErrResetPin},
		{"missing DC pin", SPIConfig{Reset: reset}, ErrDCPin},
		{"invalid speed", SPIConfig{Reset: reset, DC: dc, SpeedHz: 1234}, nil},
		{"odd batch size", SPIConfig{Reset: reset, DC: dc, BatchSize: 4095}, nil},
	}
	for _, test := range testCases {
		t.Run(test.name, func(it *testing.T) {
			_, err := OpenSPI(&test.config)
			if err == nil {
				it.Fatal("expected an error")
			}
			if test.want != nil && !errors.Is(err, test.want) {
				it.Errorf("expected %v, got %v", test.want, err)
			}
		})
	}
}

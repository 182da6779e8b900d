// Command display-test exercises an attached ST7735S panel with a short
// drawing demo. Pass -sim to run against the simulated bus on machines
// without the hardware.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/pocketcam/display"
	"github.com/pocketcam/display/pixel"
)

func main() {
	simFlag := flag.Bool("sim", false, "Use the simulated bus instead of hardware")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	speedFlag := flag.Uint("speed", 8_000_000, "SPI speed in Hz")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	flag.Parse()

	var (
		conn display.Conn
		err  error
	)
	if *simFlag {
		conn = display.Sim()
	} else {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		conn, err = display.OpenSPI(&display.SPIConfig{
			Bus:     *spiBusFlag,
			Device:  *spiDeviceFlag,
			SpeedHz: uint32(*speedFlag),
			Reset:   gpioreg.ByName(*resetPinFlag),
			DC:      gpioreg.ByName(*dcPinFlag),
		})
		if err != nil {
			fatal(err)
		}
	}

	d, err := display.New(conn, nil)
	if err != nil {
		fatal(err)
	}
	defer d.Close()

	fmt.Printf("initializing %s\n", d)
	if err = d.Init(); err != nil {
		fatal(err)
	}

	var (
		white = pixel.RGB{R: 255, G: 255, B: 255}
		red   = pixel.RGB{R: 255}
		green = pixel.RGB{G: 255}
		blue  = pixel.RGB{B: 255}
	)

	check(d.Clear(pixel.RGB{}))
	check(d.DrawText("display-test", 4, 2, white, 12))
	check(d.DrawRect(8, 24, 48, 32, red, white))
	check(d.DrawCircle(88, 40, 16, green, nil))
	check(d.DrawLine(8, 72, 120, 120, blue, 3))
	check(d.Refresh())

	time.Sleep(2 * time.Second)
	check(d.Flash(white, 200*time.Millisecond))
	time.Sleep(2 * time.Second)
}

func check(err error) {
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal error:", err)
	os.Exit(1)
}

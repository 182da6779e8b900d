package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio"

	shape "github.com/pocketcam/display/draw"
	"github.com/pocketcam/display/pixel"
)

// Panel dimensions of the 1.44" ST7735S module.
const (
	DefaultWidth  = 128
	DefaultHeight = 128
)

// Registers (from st7735s.pdf).
const (
	st7735NOP     = 0x00
	st7735SWRESET = 0x01
	st7735RDDID   = 0x04
	st7735RDDST   = 0x09
	st7735SLPIN   = 0x10
	st7735SLPOUT  = 0x11
	st7735PTLON   = 0x12
	st7735NORON   = 0x13
	st7735INVOFF  = 0x20
	st7735INVON   = 0x21
	st7735DISPOFF = 0x28
	st7735DISPON  = 0x29
	st7735CASET   = 0x2A
	st7735RASET   = 0x2B
	st7735RAMWR   = 0x2C
	st7735RAMRD   = 0x2E
	st7735PTLAR   = 0x30
	st7735MADCTL  = 0x36
	st7735COLMOD  = 0x3A
	st7735FRMCTR1 = 0xB1
	st7735FRMCTR2 = 0xB2
	st7735FRMCTR3 = 0xB3
	st7735INVCTR  = 0xB4
	st7735PWCTR1  = 0xC0
	st7735PWCTR2  = 0xC1
	st7735PWCTR3  = 0xC2
	st7735PWCTR4  = 0xC3
	st7735PWCTR5  = 0xC4
	st7735VMCTR1  = 0xC5
	st7735GMCTRP1 = 0xE0
	st7735GMCTRN1 = 0xE1
)

// Controller settling times. These are hardware minimums, not tunables;
// the controller's state after reset, sleep-out and display-on is not
// observable over the bus.
const (
	hardResetPulse  = 10 * time.Millisecond
	hardResetSettle = 120 * time.Millisecond
	softResetSettle = 150 * time.Millisecond
	sleepOutSettle  = 500 * time.Millisecond
	normalOnSettle  = 10 * time.Millisecond
	displayOnSettle = 120 * time.Millisecond
)

// Config is the display configuration.
type Config struct {
	// Width of the panel in pixels; defaults to 128.
	Width int

	// Height of the panel in pixels; defaults to 128.
	Height int

	// FontPaths overrides the TrueType candidate list; nil uses
	// DefaultFontPaths.
	FontPaths []string
}

// Device drives one ST7735S panel over a Conn. A Device owns its bus
// handle exclusively for the process lifetime and must be used from a
// single goroutine.
type Device struct {
	img    *pixel.RGBImage
	frame  []byte // encoded 5-6-5 frame, reused across Refresh calls
	c      Conn
	fonts  *fontCache
	state  State
	width  int
	height int
}

// New allocates the framebuffer and font cache over an opened
// connection. The controller itself is left untouched until Init.
func New(c Conn, config *Config) (*Device, error) {
	if config == nil {
		config = &Config{}
	}

	width := config.Width
	if width == 0 {
		width = DefaultWidth
	}
	height := config.Height
	if height == 0 {
		height = DefaultHeight
	}
	if width < 1 || width > DefaultWidth || height < 1 || height > DefaultHeight {
		return nil, fmt.Errorf("display: invalid size %dx%d, maximum size is %dx%d", width, height, DefaultWidth, DefaultHeight)
	}

	paths := config.FontPaths
	if paths == nil {
		paths = DefaultFontPaths
	}

	return &Device{
		img:    pixel.NewRGBImage(width, height),
		frame:  make([]byte, width*height*2),
		c:      c,
		fonts:  loadFonts(paths),
		width:  width,
		height: height,
	}, nil
}

func (d *Device) String() string {
	return fmt.Sprintf("ST7735S %dx%d (%s)", d.width, d.height, d.state)
}

// State reports the controller lifecycle state.
func (d *Device) State() State {
	return d.state
}

// Bounds is the panel bounding box (dimensions).
func (d *Device) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// ColorModel used by the framebuffer.
func (d *Device) ColorModel() color.Model {
	return pixel.RGBModel
}

// At returns the framebuffer color at (x, y).
func (d *Device) At(x, y int) color.Color {
	return d.img.At(x, y)
}

// Set the framebuffer pixel at (x, y). Together with At and Bounds this
// makes the Device a [draw.Image] for external rasterizers.
func (d *Device) Set(x, y int, c color.Color) {
	d.img.Set(x, y, c)
}

func (d *Device) ready() error {
	switch d.state {
	case Active:
		return nil
	case Closed:
		return ErrClosed
	default:
		return ErrNotReady
	}
}

func (d *Device) command(cmnd byte, data ...byte) error {
	return d.c.Command(cmnd, data...)
}

func (d *Device) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

// Init brings the unconfigured controller into the defined display
// mode. The sequence is strict, non-reorderable and runs exactly once;
// every opcode and parameter byte is fixed by the controller's command
// set. Until Init returns nil, drawing and refresh calls fail with
// ErrNotReady. A failed Init may be called again; the sequence restarts
// from the hard reset.
func (d *Device) Init() (err error) {
	switch d.state {
	case Closed:
		return ErrClosed
	case Active:
		return fmt.Errorf("display: already initialized")
	}

	// Hard reset: pulse the reset line low, then hold high while the
	// controller settles.
	d.state = HardReset
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	time.Sleep(hardResetPulse)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	time.Sleep(hardResetPulse)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	time.Sleep(hardResetSettle)

	d.state = SoftwareReset
	if err = d.command(st7735SWRESET); err != nil {
		return
	}
	time.Sleep(softResetSettle)

	d.state = SleepOut
	if err = d.command(st7735SLPOUT); err != nil {
		return
	}
	time.Sleep(sleepOutSettle)

	d.state = Configuring
	if err = d.commands([][]byte{
		{st7735FRMCTR1, 0x01, 0x2C, 0x2D}, // frame rate, normal mode
		{st7735FRMCTR2, 0x01, 0x2C, 0x2D},
		{st7735FRMCTR3, 0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D},
		{st7735INVCTR, 0x07},
		{st7735PWCTR1, 0xA2, 0x02, 0x84},
		{st7735PWCTR2, 0xC5},
		{st7735PWCTR3, 0x0A, 0x00},
		{st7735PWCTR4, 0x8A, 0x2A},
		{st7735PWCTR5, 0x8A, 0xEE},
		{st7735VMCTR1, 0x0E},
		{st7735INVOFF},
		{st7735MADCTL, 0x00},
		{st7735COLMOD, 0x05}, // 16 bits per pixel
		// Addressing window; must always equal the framebuffer extent
		// or pixel data wraps on the physical panel.
		{st7735CASET, 0x00, 0x00, 0x00, byte(d.width - 1)},
		{st7735RASET, 0x00, 0x00, 0x00, byte(d.height - 1)},
		{st7735GMCTRP1, 0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10},
		{st7735GMCTRN1, 0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10},
		{st7735NORON},
	}); err != nil {
		return
	}
	time.Sleep(normalOnSettle)

	if err = d.command(st7735DISPON); err != nil {
		return
	}
	time.Sleep(displayOnSettle)

	d.state = Active
	if debug {
		log.Printf("display: %s ready", d)
	}

	d.img.Clear()
	return d.Refresh()
}

// Clear fills the framebuffer with a single color.
func (d *Device) Clear(c color.Color) error {
	if err := d.ready(); err != nil {
		return err
	}
	d.img.Fill(c)
	return nil
}

// DrawText rasterizes text with (x, y) as the top-left corner. The size
// snaps to the nearest supported entry in FontSizes.
func (d *Device) DrawText(text string, x, y float64, c color.Color, size int) error {
	if err := d.ready(); err != nil {
		return err
	}

	face := d.fonts.face(size)
	drawer := font.Drawer{
		Dst:  d.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(int(x), int(y)),
	}
	drawer.Dot.Y += face.Metrics().Ascent
	drawer.DrawString(text)
	return nil
}

// DrawRect fills the half-open rectangle [x,x+w)×[y,y+h). A non-nil
// outline color traces the border inside the same region.
func (d *Device) DrawRect(x, y, w, h float64, fill, outline color.Color) error {
	if err := d.ready(); err != nil {
		return err
	}

	rect := image.Rect(int(x), int(y), int(x+w), int(y+h))
	if fill != nil {
		shape.Box(d.img, rect, fill)
	}
	if outline != nil {
		shape.Rectangle(d.img, rect, outline)
	}
	return nil
}

// DrawCircle fills the ellipse inscribed in the bounding box of a
// circle with the given center and radius.
func (d *Device) DrawCircle(x, y, radius float64, fill, outline color.Color) error {
	if err := d.ready(); err != nil {
		return err
	}

	rect := image.Rect(int(x-radius), int(y-radius), int(x+radius)+1, int(y+radius)+1)
	shape.Ellipse(d.img, rect, fill, outline)
	return nil
}

// DrawLine draws a line between (x1, y1) and (x2, y2).
func (d *Device) DrawLine(x1, y1, x2, y2 float64, c color.Color, width int) error {
	if err := d.ready(); err != nil {
		return err
	}

	shape.Line(d.img, image.Pt(int(x1), int(y1)), image.Pt(int(x2), int(y2)), width, c)
	return nil
}

// PasteImage composites src into the framebuffer with its top-left
// corner at (x, y). Portions outside the framebuffer are silently
// clipped.
func (d *Device) PasteImage(src image.Image, x, y float64) error {
	if err := d.ready(); err != nil {
		return err
	}

	sb := src.Bounds()
	rect := image.Rect(int(x), int(y), int(x)+sb.Dx(), int(y)+sb.Dy())
	draw.Draw(d.img, rect, src, sb.Min, draw.Src)
	return nil
}

// Refresh converts the whole framebuffer to the panel's 5-6-5 format
// and streams it: one RAMWR command, then width*height*2 data bytes.
// There is no partial update path. A failed Refresh leaves the panel
// showing a torn frame; the buffer stays consistent and the next
// successful Refresh repaints everything.
func (d *Device) Refresh() error {
	if err := d.ready(); err != nil {
		return err
	}

	pixel.EncodeRGB565(d.frame, d.img)
	if err := d.command(st7735RAMWR); err != nil {
		return err
	}
	return d.c.Data(d.frame...)
}

// Flash fills the panel with a color for the given duration, then
// restores the previous frame. The framebuffer is byte-identical after
// the call. Flash blocks the calling goroutine for the full duration.
func (d *Device) Flash(c color.Color, duration time.Duration) error {
	if err := d.ready(); err != nil {
		return err
	}

	saved := make([]byte, len(d.img.Pix))
	copy(saved, d.img.Pix)

	d.img.Fill(c)
	if err := d.Refresh(); err != nil {
		copy(d.img.Pix, saved)
		return err
	}
	time.Sleep(duration)

	copy(d.img.Pix, saved)
	return d.Refresh()
}

// Close blanks the panel, releases the bus handle and holds the reset
// line low. Close is idempotent and never propagates internal errors,
// so shutdown cannot be blocked; failures are logged instead. Every
// operation after Close fails with ErrClosed.
func (d *Device) Close() error {
	if d.state == Closed {
		return nil
	}

	if d.state == Active {
		d.img.Clear()
		if err := d.Refresh(); err != nil {
			log.Printf("display: close: blank panel: %v", err)
		}
	}
	if err := d.c.Close(); err != nil {
		log.Printf("display: close: release bus: %v", err)
	}
	if err := d.c.Reset(gpio.Low); err != nil {
		log.Printf("display: close: reset pin: %v", err)
	}

	d.state = Closed
	return nil
}

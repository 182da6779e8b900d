// Package display drives the ST7735S SPI TFT panel used as the only
// output surface of the pocketcam handheld.
//
// The driver owns an in-memory RGB framebuffer. Drawing calls mutate the
// buffer only; Refresh converts it to the panel's native 16-bit 5-6-5
// format and streams it over the bus in one pass. The driver is not safe
// for concurrent use, a single goroutine must own it.
package display

import (
	"errors"
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	// ErrNotReady is returned for draw and refresh calls issued before
	// Init has completed.
	ErrNotReady = errors.New("display: not initialized")

	// ErrClosed is returned for any call issued after Close.
	ErrClosed = errors.New("display: closed")
)

// TransportError wraps a bus I/O failure. The transfer it interrupted is
// never retried: a retry mid pixel-stream would compose a second torn
// frame on top of the first. The next successful Refresh repaints the
// whole panel.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "display: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// State is the controller lifecycle state.
//
// Startup is one strict, non-reorderable sequence; each transition up to
// Active happens exactly once, inside Init. Closed is terminal.
type State uint8

// Lifecycle states.
const (
	Unpowered State = iota
	HardReset
	SoftwareReset
	SleepOut
	Configuring
	Active
	Closed
)

func (s State) String() string {
	switch s {
	case Unpowered:
		return "unpowered"
	case HardReset:
		return "hard reset"
	case SoftwareReset:
		return "software reset"
	case SleepOut:
		return "sleep out"
	case Configuring:
		return "configuring"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

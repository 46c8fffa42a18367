// Package danmaku parses bilibili-style comment feeds into typed records.
package danmaku

import (
	"fmt"
	"time"
)

// Mode is the style code carried in the second field of a comment's
// attribute string.
type Mode int

const (
	ModeScroll   Mode = 1
	ModeScroll2  Mode = 2
	ModeScroll3  Mode = 3
	ModeBottom   Mode = 4
	ModeTop      Mode = 5
	ModeReverse  Mode = 6
	ModeAdvanced Mode = 7
	ModeCode     Mode = 8
)

func (m Mode) String() string {
	switch m {
	case ModeScroll, ModeScroll2, ModeScroll3:
		return "scroll"
	case ModeBottom:
		return "bottom"
	case ModeTop:
		return "top"
	case ModeReverse:
		return "reverse"
	case ModeAdvanced:
		return "advanced"
	case ModeCode:
		return "code"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Color is a packed 24-bit RGB value (0xRRGGBB).
type Color uint32

const (
	White    Color = 0xFFFFFF
	maxColor       = 0xFFFFFF
)

// Hex returns the color as six uppercase hex digits.
func (c Color) Hex() string {
	return fmt.Sprintf("%06X", uint32(c))
}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Record is one parsed comment. Records are never modified after Parse
// returns them.
type Record struct {
	Index    int // position in the source document, 0-based
	Start    time.Duration
	Mode     Mode
	FontSize int // as authored, before normalisation
	Color    Color
	Text     string
	Raw      string // the attribute string the record was parsed from
}

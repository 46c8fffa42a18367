package layout

import "fmt"

// LongTextPolicy selects how long scrolling comments (12 glyphs or more)
// are timed.
type LongTextPolicy string

const (
	// LongTextScaled keeps growing with length: 4 + length/2.5 seconds.
	LongTextScaled LongTextPolicy = "scaled"
	// LongTextFlat shows every long comment for 10 seconds.
	LongTextFlat LongTextPolicy = "flat"
)

// Config holds the track geometry every stage reads. It is never modified
// once the conversion starts.
type Config struct {
	Width      int
	Height     int
	FontSize   int // base font size of the output track
	LaneCount  int
	LongText   LongTextPolicy
	MaxEntries int // 0 means unlimited
}

func DefaultConfig() Config {
	return Config{
		Width:     1280,
		Height:    768,
		FontSize:  36,
		LaneCount: 8,
		LongText:  LongTextScaled,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("invalid font size %d", c.FontSize)
	}
	if c.LaneCount <= 0 {
		return fmt.Errorf("invalid lane count %d", c.LaneCount)
	}
	switch c.LongText {
	case LongTextScaled, LongTextFlat:
	default:
		return fmt.Errorf("unknown long text policy %q", c.LongText)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("invalid max entries %d", c.MaxEntries)
	}
	return nil
}

package subtitle

import (
	"time"
)

const (
	DefaultStyleName = "NicoDefault"
	DefaultFontName  = "WenQuanYi Micro Hei"

	// layer every comment event is placed on
	EventLayer = 3
)

// represents one Dialogue line of the output track
type StyledEvent struct {
	Layer int
	Style string
	Start time.Duration
	End   time.Duration
	Text  string // override block followed by the escaped comment text
}

// represents complete subtitle track
type Track struct {
	Events []StyledEvent
}

// interface for writing tracks to files
type Writer interface {
	Write(track *Track, path string) error
}

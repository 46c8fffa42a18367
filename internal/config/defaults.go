package config

import "github.com/mgpai22/danmaku2ass/internal/layout"

const (
	defaultWidth      = 1280
	defaultHeight     = 768
	defaultFontName   = "WenQuanYi Micro Hei"
	defaultFontSize   = 36
	defaultLanes      = 8
	defaultLongText   = string(layout.LongTextScaled)
	defaultMaxEntries = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Video: Video{
			Width:  defaultWidth,
			Height: defaultHeight,
		},
		Font: Font{
			Name: defaultFontName,
			Size: defaultFontSize,
		},
		Layout: Layout{
			Lanes:      defaultLanes,
			LongText:   defaultLongText,
			MaxEntries: defaultMaxEntries,
		},
	}
}

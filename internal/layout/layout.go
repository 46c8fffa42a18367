// Package layout derives timing, lane and motion path for each comment.
package layout

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/mgpai22/danmaku2ass/internal/danmaku"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// FlashBaseFontSize is the size the original flash player treats as normal.
const FlashBaseFontSize = 25

const (
	staticDuration = 4 * time.Second
	flatLongText   = 10 * time.Second
	staticMargin   = 20

	shortTextLimit = 5
	longTextLimit  = 12
)

// Class is how a comment moves on screen.
type Class int

const (
	ClassScroll Class = iota
	ClassReverseScroll
	ClassStaticTop
	ClassStaticBottom
)

func (c Class) String() string {
	switch c {
	case ClassScroll:
		return "scroll"
	case ClassReverseScroll:
		return "reverse"
	case ClassStaticTop:
		return "top"
	case ClassStaticBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

func (c Class) Static() bool {
	return c == ClassStaticTop || c == ClassStaticBottom
}

// ClassOf maps a style code to its layout class. Positioned and scripted
// comments have no layout of their own and drift like plain scroll.
func ClassOf(mode danmaku.Mode) Class {
	switch mode {
	case danmaku.ModeTop:
		return ClassStaticTop
	case danmaku.ModeBottom:
		return ClassStaticBottom
	case danmaku.ModeReverse:
		return ClassReverseScroll
	default:
		return ClassScroll
	}
}

// Path is the motion of an entry in script pixels. Static entries start
// and end at the same point.
type Path struct {
	X1, Y1 int
	X2, Y2 int
}

// Entry is a record with its derived on-screen layout.
type Entry struct {
	Record   danmaku.Record
	Seq      int
	End      time.Duration
	FontSize int
	Class    Class
	Lane     int
	Glyphs   int
	Path     Path
}

func (e Entry) Start() time.Duration {
	return e.Record.Start
}

// Sort returns a copy of records ordered by start time. Records that start
// together keep their document order.
func Sort(records []danmaku.Record) []danmaku.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b danmaku.Record) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return sorted
}

// Layout sorts records and builds an entry for each one.
func Layout(cfg Config, records []danmaku.Record) ([]Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxEntries > 0 && len(records) > cfg.MaxEntries {
		return nil, &CapacityError{Count: len(records), Max: cfg.MaxEntries}
	}

	sorted := Sort(records)
	entries := make([]Entry, 0, len(sorted))
	for seq, rec := range sorted {
		entry, err := Build(cfg, seq, rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Build lays out a single record at sorted position seq.
func Build(cfg Config, seq int, rec danmaku.Record) (Entry, error) {
	size := ResolveFontSize(cfg, rec.FontSize)
	if size <= 0 {
		return Entry{}, &LayoutError{
			Seq:    seq,
			Index:  rec.Index,
			Reason: "resolved font size is not positive",
		}
	}
	if cfg.LaneCount <= 0 {
		return Entry{}, &LayoutError{
			Seq:    seq,
			Index:  rec.Index,
			Reason: "lane count is not positive",
		}
	}

	entry := Entry{
		Record:   rec,
		Seq:      seq,
		FontSize: size,
		Class:    ClassOf(rec.Mode),
		Glyphs:   GlyphCount(rec.Text),
	}

	duration := staticDuration
	if !entry.Class.Static() {
		duration = scrollDuration(entry.Glyphs, cfg.LongText)
	}
	if rec.Start > math.MaxInt64-duration {
		return Entry{}, &LayoutError{
			Seq:    seq,
			Index:  rec.Index,
			Reason: "end time does not fit in a duration",
		}
	}
	entry.End = rec.Start + duration

	if entry.Class.Static() {
		entry.Path = staticPath(cfg, entry.Class)
		return entry, nil
	}

	entry.Lane = seq % cfg.LaneCount
	entry.Path = scrollPath(cfg, size, entry.Glyphs, entry.Lane)
	if entry.Class == ClassReverseScroll {
		entry.Path.X1, entry.Path.X2 = entry.Path.X2, entry.Path.X1
	}
	return entry, nil
}

// ResolveFontSize rescales a size authored against the flash player's base
// size onto the track's base size.
func ResolveFontSize(cfg Config, raw int) int {
	return raw - FlashBaseFontSize + cfg.FontSize
}

// GlyphCount counts user-perceived characters of text.
func GlyphCount(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(norm.NFC.String(text))
}

func scrollDuration(glyphs int, policy LongTextPolicy) time.Duration {
	n := float64(glyphs)
	switch {
	case glyphs < shortTextLimit:
		return seconds(4 + n/1.5)
	case glyphs < longTextLimit:
		return seconds(4 + n/2)
	case policy == LongTextFlat:
		return flatLongText
	default:
		return seconds(4 + n/2.5)
	}
}

func scrollPath(cfg Config, size, glyphs, lane int) Path {
	half := float64(size*glyphs) / 2
	// the style anchors text at its bottom edge, so lane 0 ends one line down
	y := (lane + 1) * size
	return Path{
		X1: truncate(float64(cfg.Width) + half),
		Y1: y,
		X2: truncate(-half),
		Y2: y,
	}
}

func staticPath(cfg Config, class Class) Path {
	x := cfg.Width / 2
	y := staticMargin
	if class == ClassStaticBottom {
		y = cfg.Height - staticMargin
	}
	return Path{X1: x, Y1: y, X2: x, Y2: y}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func truncate(v float64) int {
	return int(math.Trunc(v))
}

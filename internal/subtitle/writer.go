package subtitle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mgpai22/danmaku2ass/internal/layout"
)

var ErrOutputLocked = errors.New("output is being written by another process")

var _ Writer = (*ASSWriter)(nil)

// IOError reports a failure to write the output track.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Advanced SubStation Alpha format with a single comment style
type ASSWriter struct {
	FontName  string
	FontSize  int
	StyleName string
	Width     int
	Height    int
}

func NewASSWriter(cfg layout.Config, fontName string) *ASSWriter {
	if fontName == "" {
		fontName = DefaultFontName
	}
	return &ASSWriter{
		FontName:  fontName,
		FontSize:  cfg.FontSize,
		StyleName: DefaultStyleName,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}
}

// renders the complete document
func (w *ASSWriter) Encode(track *Track) []byte {
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", w.Width))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n\n", w.Height))

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, BackColour, OutlineColour, Bold, Italic, Alignment, BorderStyle, Outline, Shadow, MarginL, MarginR, MarginV\n")
	sb.WriteString(fmt.Sprintf("Style: %s,%s,%d,&H00FFFFFF,&H00000000,&H00000000,0,0,2,1,1,0,20,20,20\n\n",
		w.StyleName, w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, ev := range track.Events {
		style := ev.Style
		if style == "" {
			style = w.StyleName
		}
		sb.WriteString(fmt.Sprintf("Dialogue: %d,%s,%s,%s,,0,0,0,,%s\n",
			ev.Layer,
			FormatTimestamp(ev.Start),
			FormatTimestamp(ev.End),
			style,
			ev.Text))
	}

	return []byte(sb.String())
}

// writes the track to path. The document is rendered in memory and moved
// into place only once fully written.
func (w *ASSWriter) Write(track *Track, path string) error {
	return writeFileAtomic(path, w.Encode(track))
}

// FormatTimestamp renders d as HH:MM:SS.mmm. Negative values clamp to zero.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Round(time.Millisecond).Milliseconds()

	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	seconds := ms / 1000 % 60
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func writeFileAtomic(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return &IOError{Op: "create directory for", Path: path, Err: err}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return &IOError{Op: "lock", Path: path, Err: err}
	}
	if !locked {
		return &IOError{Op: "lock", Path: path, Err: ErrOutputLocked}
	}
	// the lock file is left in place so every writer locks the same inode
	defer func() {
		_ = lock.Unlock()
	}()

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return &IOError{Op: "create temp file for", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return &IOError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Chmod(0644); err != nil {
		return &IOError{Op: "chmod", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	committed = true

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

package subtitle

import (
	"fmt"
	"strings"

	"github.com/mgpai22/danmaku2ass/internal/danmaku"
	"github.com/mgpai22/danmaku2ass/internal/layout"
)

// Render turns a laid out entry into a Dialogue event. Color and font size
// overrides are emitted only when they differ from the track style.
func Render(cfg layout.Config, e layout.Entry) StyledEvent {
	var sb strings.Builder

	sb.WriteString("{")
	sb.WriteString(positionTag(e))
	if e.Record.Color != danmaku.White {
		sb.WriteString(`\c`)
		sb.WriteString(assColor(e.Record.Color))
	}
	if e.FontSize != cfg.FontSize {
		sb.WriteString(fmt.Sprintf(`\fs%d`, e.FontSize))
	}
	sb.WriteString("}")
	sb.WriteString(escapeASSText(e.Record.Text))

	return StyledEvent{
		Layer: EventLayer,
		Style: DefaultStyleName,
		Start: e.Start(),
		End:   e.End,
		Text:  sb.String(),
	}
}

// RenderAll renders entries in order.
func RenderAll(cfg layout.Config, entries []layout.Entry) []StyledEvent {
	events := make([]StyledEvent, len(entries))
	for i, e := range entries {
		events[i] = Render(cfg, e)
	}
	return events
}

func positionTag(e layout.Entry) string {
	p := e.Path
	switch e.Class {
	case layout.ClassStaticTop:
		return fmt.Sprintf(`\an8\pos(%d,%d)`, p.X1, p.Y1)
	case layout.ClassStaticBottom:
		return fmt.Sprintf(`\an2\pos(%d,%d)`, p.X1, p.Y1)
	default:
		return fmt.Sprintf(`\move(%d,%d,%d,%d)`, p.X1, p.Y1, p.X2, p.Y2)
	}
}

// ASS colors are written blue, green, red
func assColor(c danmaku.Color) string {
	r, g, b := c.RGB()
	return fmt.Sprintf("&H%02X%02X%02X&", b, g, r)
}

// every line break style becomes a hard \N so one comment stays one line
var lineBreaks = strings.NewReplacer("\r\n", `\N`, "\r", `\N`, "\n", `\N`)

func escapeASSText(text string) string {
	return lineBreaks.Replace(text)
}

package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// parsed ASS track: script info, style lines and dialogue events
type Document struct {
	ScriptInfo map[string]string
	Styles     []string
	Events     []StyledEvent
}

func ReadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Read(file)
}

func Read(r io.Reader) (*Document, error) {
	doc := &Document{ScriptInfo: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	var eventColumns []string
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.ToLower(trimmed[1 : len(trimmed)-1])
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch section {
		case "script info":
			doc.ScriptInfo[key] = value
		case "v4+ styles", "v4 styles":
			if key == "Style" {
				doc.Styles = append(doc.Styles, value)
			}
		case "events":
			switch key {
			case "Format":
				eventColumns = splitColumns(value)
			case "Dialogue":
				if eventColumns == nil {
					return nil, fmt.Errorf(
						"Dialogue before Format line at line %d",
						lineNum,
					)
				}
				ev, err := parseDialogue(value, eventColumns)
				if err != nil {
					return nil, fmt.Errorf(
						"failed to parse Dialogue at line %d: %w",
						lineNum,
						err,
					)
				}
				doc.Events = append(doc.Events, ev)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}

	return doc, nil
}

func splitColumns(format string) []string {
	columns := strings.Split(format, ",")
	for i, col := range columns {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return columns
}

func parseDialogue(content string, columns []string) (StyledEvent, error) {
	var ev StyledEvent

	// text is the last column and may itself contain commas
	parts := strings.SplitN(content, ",", len(columns))
	if len(parts) < len(columns) {
		return ev, fmt.Errorf(
			"expected %d fields, got %d",
			len(columns),
			len(parts),
		)
	}

	for i, col := range columns {
		field := parts[i]
		switch col {
		case "layer":
			layer, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return ev, fmt.Errorf("invalid layer %q", field)
			}
			ev.Layer = layer
		case "start":
			start, err := parseTimestamp(field)
			if err != nil {
				return ev, err
			}
			ev.Start = start
		case "end":
			end, err := parseTimestamp(field)
			if err != nil {
				return ev, err
			}
			ev.End = end
		case "style":
			ev.Style = strings.TrimSpace(field)
		case "text":
			ev.Text = field
		}
	}

	return ev, nil
}

// accepts both H:MM:SS.cc and HH:MM:SS.mmm
func parseTimestamp(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	secPart, fracPart, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	var frac time.Duration
	if fracPart != "" {
		n, err := strconv.Atoi(fracPart)
		if err != nil || len(fracPart) > 3 {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		for i := len(fracPart); i < 3; i++ {
			n *= 10
		}
		frac = time.Duration(n) * time.Millisecond
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		frac, nil
}

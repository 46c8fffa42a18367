package danmaku

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const minFields = 4

// comments are <d p="start,mode,size,color,..."> elements anywhere in the feed
var commentExpr = xpath.MustCompile("//d")

// 2^63, the first nanosecond count a time.Duration cannot hold
const durationLimit = float64(math.MaxInt64)

// ParseFile reads and parses the comment feed at path.
func ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read comment feed: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse returns one Record per comment node in document order. It stops at
// the first malformed comment.
func Parse(r io.Reader) ([]Record, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	nodes := xmlquery.QuerySelectorAll(doc, commentExpr)
	records := make([]Record, 0, len(nodes))

	for i, node := range nodes {
		raw, ok := attr(node, "p")
		if !ok {
			return nil, &ParseError{Index: i, Err: ErrMissingAttribute}
		}

		rec, err := ParseAttributes(i, raw)
		if err != nil {
			return nil, err
		}
		rec.Text = node.InnerText()
		records = append(records, rec)
	}

	return records, nil
}

// ParseAttributes decodes the comma separated attribute string of the
// comment at index. Fields past the fourth are ignored.
func ParseAttributes(index int, raw string) (Record, error) {
	fields := strings.Split(raw, ",")
	if len(fields) < minFields {
		return Record{}, &ParseError{Index: index, Raw: raw, Err: ErrTooFewFields}
	}

	fail := func(field string, err error) (Record, error) {
		return Record{}, &ParseError{Index: index, Raw: raw, Field: field, Err: err}
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return fail("start", err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fail("start", fmt.Errorf("%q is not a usable time", fields[0]))
	}
	if seconds < 0 {
		return fail("start", ErrNegativeStart)
	}
	nanos := math.Round(seconds * float64(time.Second))
	if nanos >= durationLimit {
		return fail("start", fmt.Errorf("%q is not a usable time", fields[0]))
	}

	mode, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return fail("style code", err)
	}

	size, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return fail("font size", err)
	}

	color, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return fail("color", err)
	}
	if color < 0 || color > maxColor {
		return fail("color", ErrColorRange)
	}

	return Record{
		Index:    index,
		Start:    time.Duration(nanos),
		Mode:     Mode(mode),
		FontSize: size,
		Color:    Color(color),
		Raw:      raw,
	}, nil
}

func attr(node *xmlquery.Node, name string) (string, bool) {
	for _, a := range node.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

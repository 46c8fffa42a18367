package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/danmaku2ass/internal/danmaku"
	"github.com/mgpai22/danmaku2ass/internal/layout"
	"github.com/mgpai22/danmaku2ass/internal/subtitle"
)

func writeFeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "av123.xml")
	content := `<?xml version="1.0" encoding="UTF-8"?><i>` + body + `</i>`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func run(t *testing.T, input string) (*Result, *subtitle.Document) {
	t.Helper()
	res, err := Run(context.Background(), nil, Options{
		InputPath: input,
		Layout:    layout.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	doc, err := subtitle.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return res, doc
}

func TestRunScrollComment(t *testing.T) {
	input := writeFeed(t, `<d p="10.0,1,25,16777215">hi</d>`)
	res, _ := run(t, input)

	if res.OutputPath != strings.TrimSuffix(input, ".xml")+".ass" {
		t.Errorf("unexpected output path %s", res.OutputPath)
	}
	if res.Comments != 1 {
		t.Errorf("expected 1 comment, got %d", res.Comments)
	}

	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "Dialogue: 3,00:00:10.000,00:00:15.333,NicoDefault,,0,0,0,,{\\move(1316,36,-36,36)}hi\n"
	if !strings.Contains(string(data), want) {
		t.Errorf("output missing %q\ngot:\n%s", want, data)
	}
	if strings.Contains(string(data), `\c&H`) || strings.Contains(string(data), `\fs`) {
		t.Error("white default-size comment should carry no color or size override")
	}
}

func TestRunStaticComment(t *testing.T) {
	input := writeFeed(t, `<d p="0.0,5,25,16711680">red</d>`)
	_, doc := run(t, input)

	if len(doc.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(doc.Events))
	}
	ev := doc.Events[0]
	if ev.Start != 0 || ev.End.Milliseconds() != 4000 {
		t.Errorf("got %v-%v, want 0s-4s", ev.Start, ev.End)
	}
	if !strings.Contains(ev.Text, `\c&H0000FF`) {
		t.Errorf("expected red override, got %q", ev.Text)
	}
	if !strings.Contains(ev.Text, `\pos(`) || strings.Contains(ev.Text, `\move(`) {
		t.Errorf("expected fixed position only, got %q", ev.Text)
	}
}

func TestRunOrdersByStartStably(t *testing.T) {
	input := writeFeed(t, `
<d p="5,1,25,16777215">third</d>
<d p="1,1,25,16777215">first</d>
<d p="5,1,25,16777215">fourth</d>
<d p="1,5,25,16777215">second</d>`)
	_, doc := run(t, input)

	var texts []string
	for _, ev := range doc.Events {
		texts = append(texts, ev.Text[strings.Index(ev.Text, "}")+1:])
	}
	if got := strings.Join(texts, ","); got != "first,second,third,fourth" {
		t.Errorf("event order: got %s", got)
	}
}

func TestRunKeepsCarriageReturnsInsideOneEvent(t *testing.T) {
	input := writeFeed(t,
		`<d p="1,1,25,16777215">a&#13;Dialogue: 0,0:00:00.00,9:00:00.00,NicoDefault,,0,0,0,,x</d>`)
	res, doc := run(t, input)

	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if strings.Contains(string(data), "\r") {
		t.Error("output contains a raw carriage return")
	}
	if len(doc.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(doc.Events))
	}
	if !strings.HasSuffix(doc.Events[0].Text, `}a\NDialogue: 0,0:00:00.00,9:00:00.00,NicoDefault,,0,0,0,,x`) {
		t.Errorf("unexpected text %q", doc.Events[0].Text)
	}
}

type recordingWriter struct {
	path  string
	track *subtitle.Track
}

func (w *recordingWriter) Write(track *subtitle.Track, path string) error {
	w.path = path
	w.track = track
	return nil
}

func TestRunUsesProvidedWriter(t *testing.T) {
	input := writeFeed(t, `<d p="2,1,25,0">b</d><d p="1,1,25,0">a</d>`)
	w := &recordingWriter{}

	res, err := Run(context.Background(), nil, Options{
		InputPath: input,
		Layout:    layout.DefaultConfig(),
		Writer:    w,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if w.path != OutputPath(input) {
		t.Errorf("writer path: got %s, want %s", w.path, OutputPath(input))
	}
	if w.track == nil || len(w.track.Events) != 2 {
		t.Fatalf("expected 2 events handed to the writer, got %+v", w.track)
	}
	if !strings.HasSuffix(w.track.Events[0].Text, "}a") {
		t.Errorf("first event: got %q", w.track.Events[0].Text)
	}
	if res.Comments != 2 || res.InputSize == 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRunMalformedFeedWritesNothing(t *testing.T) {
	input := writeFeed(t, `<d p="1,1,25,16777215">ok</d><d p="2,1,25">short</d>`)
	output := filepath.Join(filepath.Dir(input), "out.ass")

	_, err := Run(context.Background(), nil, Options{
		InputPath:  input,
		OutputPath: output,
		Layout:     layout.DefaultConfig(),
	})
	var perr *danmaku.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *danmaku.ParseError, got %v", err)
	}
	if perr.Index != 1 {
		t.Errorf("expected comment 1 to be reported, got %d", perr.Index)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output should not be written on parse failure")
	}
}

func TestRunLayoutFailureKeepsExistingOutput(t *testing.T) {
	input := writeFeed(t, `<d p="1,1,-20,16777215">tiny</d>`)
	output := filepath.Join(filepath.Dir(input), "out.ass")
	if err := os.WriteFile(output, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(context.Background(), nil, Options{
		InputPath:  input,
		OutputPath: output,
		Layout:     layout.DefaultConfig(),
	})
	var lerr *layout.LayoutError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.LayoutError, got %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil || string(data) != "previous" {
		t.Errorf("existing output was modified: %q, %v", data, err)
	}
}

func TestRunCapacity(t *testing.T) {
	input := writeFeed(t, `<d p="1,1,25,0">a</d><d p="2,1,25,0">b</d>`)
	cfg := layout.DefaultConfig()
	cfg.MaxEntries = 1

	_, err := Run(context.Background(), nil, Options{InputPath: input, Layout: cfg})
	var cerr *layout.CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *layout.CapacityError, got %v", err)
	}
}

func TestRunMissingInput(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{
		InputPath: filepath.Join(t.TempDir(), "missing.xml"),
		Layout:    layout.DefaultConfig(),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	input := writeFeed(t, `<d p="1,1,25,0">a</d>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, nil, Options{InputPath: input, Layout: layout.DefaultConfig()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(OutputPath(input)); !os.IsNotExist(err) {
		t.Error("canceled run should not write output")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	input := writeFeed(t, `<d p="1,1,25,0">a</d>`)
	cfg := layout.DefaultConfig()
	cfg.LaneCount = 0

	if _, err := Run(context.Background(), nil, Options{InputPath: input, Layout: cfg}); err == nil {
		t.Error("expected error for zero lanes")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"av123.xml", "av123.ass"},
		{"dir/feed.XML", "dir/feed.ass"},
		{"feed", "feed.ass"},
		{"feed.txt", "feed.txt.ass"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

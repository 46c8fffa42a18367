// Package convert runs a comment feed through parsing, layout, rendering
// and serialization.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mgpai22/danmaku2ass/internal/danmaku"
	"github.com/mgpai22/danmaku2ass/internal/layout"
	"github.com/mgpai22/danmaku2ass/internal/logging"
	"github.com/mgpai22/danmaku2ass/internal/subtitle"
)

type Options struct {
	InputPath  string
	OutputPath string // defaults to OutputPath(InputPath)
	Layout     layout.Config
	FontName   string
	Writer     subtitle.Writer // defaults to an ASSWriter for Layout and FontName
}

type Result struct {
	OutputPath string
	Comments   int
	InputSize  int64
	OutputSize int64
}

// OutputPath derives the track name from the feed name: foo.xml -> foo.ass.
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if strings.EqualFold(ext, ".xml") {
		return strings.TrimSuffix(inputPath, ext) + ".ass"
	}
	return inputPath + ".ass"
}

// Events lays out and renders records in presentation order.
func Events(cfg layout.Config, records []danmaku.Record) ([]subtitle.StyledEvent, error) {
	entries, err := layout.Layout(cfg, records)
	if err != nil {
		return nil, err
	}
	return subtitle.RenderAll(cfg, entries), nil
}

// Run converts the feed at opts.InputPath. Nothing is written unless every
// comment converts.
func Run(ctx context.Context, logger *logging.Logger, opts Options) (*Result, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = OutputPath(opts.InputPath)
	}

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read comment feed: %w", err)
	}
	logger.Debugw("Read comment feed",
		"input", opts.InputPath,
		"size", humanize.Bytes(uint64(len(data))),
	)

	records, err := danmaku.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	logger.Debugw("Parsed comments", "count", len(records))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, err := Events(opts.Layout, records)
	if err != nil {
		return nil, err
	}

	writer := opts.Writer
	if writer == nil {
		writer = subtitle.NewASSWriter(opts.Layout, opts.FontName)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writer.Write(&subtitle.Track{Events: events}, outputPath); err != nil {
		return nil, err
	}

	var outputSize int64
	if info, err := os.Stat(outputPath); err == nil {
		outputSize = info.Size()
	}
	logger.Debugw("Wrote subtitle track",
		"output", outputPath,
		"events", len(events),
		"size", humanize.Bytes(uint64(outputSize)),
	)

	return &Result{
		OutputPath: outputPath,
		Comments:   len(records),
		InputSize:  int64(len(data)),
		OutputSize: outputSize,
	}, nil
}

package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mgpai22/danmaku2ass/internal/danmaku"
	"github.com/mgpai22/danmaku2ass/internal/layout"
	"github.com/mgpai22/danmaku2ass/internal/subtitle"
	"github.com/spf13/cobra"
)

const inspectTextWidth = 40

var inspectCmd = &cobra.Command{
	Use:   "inspect [xml_or_ass_file]",
	Short: "Show how comments are laid out",
	Long: `Inspect a danmaku feed or a generated track.

For an XML feed every comment is laid out with the current settings and
listed with its timing, class, lane and overrides. For an .ass file the
Dialogue events are listed as written.

Examples:
  danmaku2ass inspect 123456.xml
  danmaku2ass inspect 123456.xml --lanes 6 --limit 20
  danmaku2ass inspect 123456.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addLayoutFlags(inspectCmd)
	inspectCmd.Flags().
		IntP("limit", "n", 0, "Show at most this many rows (0 = all)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	if strings.EqualFold(filepath.Ext(path), ".ass") {
		doc, err := subtitle.ReadFile(path)
		if err != nil {
			return err
		}
		printTrack(out, doc, limit)
		return nil
	}

	cfg, err := resolveSettings(cmd.Context(), cmd, "")
	if err != nil {
		return err
	}

	records, err := danmaku.ParseFile(path)
	if err != nil {
		return err
	}

	layoutCfg := cfg.LayoutConfig()
	entries, err := layout.Layout(layoutCfg, records)
	if err != nil {
		return err
	}

	printEntries(out, layoutCfg, entries, limit)
	return nil
}

func printEntries(out io.Writer, cfg layout.Config, entries []layout.Entry, limit int) {
	columns := []column{
		{header: "#", align: alignRight},
		{header: "Start"},
		{header: "End"},
		{header: "Class"},
		{header: "Lane", align: alignRight},
		{header: "Size", align: alignRight},
		{header: "Color"},
		{header: "Text", maxWidth: inspectTextWidth},
	}

	counts := make(map[layout.Class]int)
	var rows [][]string
	for i, e := range entries {
		counts[e.Class]++
		if limit > 0 && i >= limit {
			continue
		}

		lane := "-"
		if !e.Class.Static() {
			lane = strconv.Itoa(e.Lane)
		}
		size := strconv.Itoa(e.FontSize)
		if e.FontSize != cfg.FontSize {
			size += "*"
		}

		rows = append(rows, []string{
			strconv.Itoa(e.Record.Index),
			subtitle.FormatTimestamp(e.Start()),
			subtitle.FormatTimestamp(e.End),
			e.Class.String(),
			lane,
			size,
			e.Record.Color.Hex(),
			e.Record.Text,
		})
	}

	fmt.Fprintln(out, renderTable(columns, rows))
	fmt.Fprintf(out, "%s comments: %d scroll, %d reverse, %d top, %d bottom\n",
		humanize.Comma(int64(len(entries))),
		counts[layout.ClassScroll],
		counts[layout.ClassReverseScroll],
		counts[layout.ClassStaticTop],
		counts[layout.ClassStaticBottom],
	)
	if len(entries) > 0 {
		end := entries[0].End
		for _, e := range entries[1:] {
			end = max(end, e.End)
		}
		fmt.Fprintf(out, "span: %s - %s\n",
			subtitle.FormatTimestamp(entries[0].Start()),
			subtitle.FormatTimestamp(end),
		)
	}
}

func printTrack(out io.Writer, doc *subtitle.Document, limit int) {
	columns := []column{
		{header: "Layer", align: alignRight},
		{header: "Start"},
		{header: "End"},
		{header: "Style"},
		{header: "Text", maxWidth: inspectTextWidth * 2},
	}

	var rows [][]string
	for i, ev := range doc.Events {
		if limit > 0 && i >= limit {
			break
		}
		rows = append(rows, []string{
			strconv.Itoa(ev.Layer),
			subtitle.FormatTimestamp(ev.Start),
			subtitle.FormatTimestamp(ev.End),
			ev.Style,
			ev.Text,
		})
	}

	fmt.Fprintln(out, renderTable(columns, rows))
	fmt.Fprintf(out, "%s events, %d styles, resolution %sx%s\n",
		humanize.Comma(int64(len(doc.Events))),
		len(doc.Styles),
		doc.ScriptInfo["PlayResX"],
		doc.ScriptInfo["PlayResY"],
	)
}

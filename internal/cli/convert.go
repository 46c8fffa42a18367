package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mgpai22/danmaku2ass/internal/convert"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [xml_file] [ResX:ResY:FontSize:LineCount]",
	Short: "Convert a danmaku XML feed into an ASS subtitle track",
	Long: `Convert a danmaku comment feed into an ASS subtitle track.

The output is written next to the input with the .xml extension replaced by
.ass unless --output is given. The optional second argument sets the script
resolution, base font size and lane count in one go.

Examples:
  danmaku2ass convert 123456.xml
  danmaku2ass convert 123456.xml 1920:1080:48:10
  danmaku2ass convert 123456.xml --video episode.mp4 -o episode.ass
  danmaku2ass convert 123456.xml --long-text flat --lanes 6`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addLayoutFlags(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	geometry := ""
	if len(args) > 1 {
		geometry = args[1]
	}

	cfg, err := resolveSettings(ctx, cmd, geometry)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = convert.OutputPath(inputPath)
	}

	logger.Infow("Converting comment feed",
		"input", inputPath,
		"output", outputPath,
		"width", cfg.Video.Width,
		"height", cfg.Video.Height,
		"font_size", cfg.Font.Size,
		"lanes", cfg.Layout.Lanes,
	)

	result, err := convert.Run(ctx, logger, convert.Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Layout:     cfg.LayoutConfig(),
		FontName:   cfg.Font.Name,
	})
	if err != nil {
		logger.Errorw("Conversion failed", "input", inputPath, "error", err)
		return err
	}

	absOutput, _ := filepath.Abs(result.OutputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles written: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Comments: %s\n", humanize.Comma(int64(result.Comments)))
	fmt.Fprintf(cmd.OutOrStdout(), "  Size: %s (feed %s)\n",
		humanize.Bytes(uint64(result.OutputSize)),
		humanize.Bytes(uint64(result.InputSize)),
	)

	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/mgpai22/danmaku2ass/internal/config"
	"github.com/mgpai22/danmaku2ass/internal/video"
	"github.com/spf13/cobra"
)

// registers the flags shared by every command that lays out comments
func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", 0, "Script width in pixels (default 1280)")
	cmd.Flags().Int("height", 0, "Script height in pixels (default 768)")
	cmd.Flags().Int("font-size", 0, "Base font size (default 36)")
	cmd.Flags().Int("lanes", 0, "Number of lanes for scrolling comments (default 8)")
	cmd.Flags().String("font", "", "Font name for the comment style")
	cmd.Flags().String("long-text", "", "Timing for long scrolling comments (scaled, flat)")
	cmd.Flags().Int("max-entries", 0, "Refuse feeds with more comments than this (0 = unlimited)")
	cmd.Flags().String("video", "", "Read width and height from this video file (requires ffprobe)")
}

// resolveSettings merges, lowest first: defaults, config file, geometry
// argument, probed video resolution, explicit flags.
func resolveSettings(
	ctx context.Context,
	cmd *cobra.Command,
	geometry string,
) (*config.Config, error) {
	cfg, path, exists, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Debugw("Loaded config", "path", path)
	}

	if geometry != "" {
		g, err := config.ParseGeometry(geometry)
		if err != nil {
			return nil, err
		}
		cfg.ApplyGeometry(g)
	}

	videoPath, _ := cmd.Flags().GetString("video")
	if videoPath != "" {
		info, err := video.Probe(ctx, videoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to probe video: %w", err)
		}
		logger.Infow("Using video resolution",
			"video", videoPath,
			"width", info.Width,
			"height", info.Height,
			"codec", info.Codec,
			"duration", info.Duration,
		)
		cfg.Video.Width = info.Width
		cfg.Video.Height = info.Height
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Video.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Video.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("font-size") {
		cfg.Font.Size, _ = flags.GetInt("font-size")
	}
	if flags.Changed("lanes") {
		cfg.Layout.Lanes, _ = flags.GetInt("lanes")
	}
	if flags.Changed("font") {
		cfg.Font.Name, _ = flags.GetString("font")
	}
	if flags.Changed("long-text") {
		cfg.Layout.LongText, _ = flags.GetString("long-text")
	}
	if flags.Changed("max-entries") {
		cfg.Layout.MaxEntries, _ = flags.GetInt("max-entries")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

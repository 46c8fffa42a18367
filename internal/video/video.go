package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrFFprobeNotFound is returned when no ffprobe binary is on PATH.
var ErrFFprobeNotFound = errors.New("ffprobe not found in PATH")

// video file information
type Info struct {
	Path     string
	Duration time.Duration
	Width    int
	Height   int
	Codec    string
}

// reads the first video stream's geometry using ffprobe
func Probe(ctx context.Context, videoPath string) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, ErrFFprobeNotFound
	}

	out, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(videoPath, out)
}

func parseProbe(videoPath, out string) (*Info, error) {
	if !gjson.Valid(out) {
		return nil, fmt.Errorf("failed to parse ffprobe output for %s", videoPath)
	}

	stream := gjson.Get(out, `streams.#(codec_type=="video")`)
	if !stream.Exists() {
		return nil, fmt.Errorf("no video stream in %s", videoPath)
	}

	info := &Info{
		Path:   videoPath,
		Width:  int(stream.Get("width").Int()),
		Height: int(stream.Get("height").Int()),
		Codec:  stream.Get("codec_name").String(),
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf(
			"video stream in %s has no usable resolution (%dx%d)",
			videoPath,
			info.Width,
			info.Height,
		)
	}

	if d := gjson.Get(out, "format.duration"); d.Exists() {
		info.Duration = time.Duration(d.Float() * float64(time.Second))
	}

	return info, nil
}

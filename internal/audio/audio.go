// Package audio generates silence and joins WAV clips with ffmpeg.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/reportcast/internal/executor"
)

// Defaults match the WAV output of the speech API.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
)

// Toolkit wraps the ffmpeg invocations used to build the briefing.
type Toolkit struct {
	Exec       executor.Executor
	FFmpeg     string
	SampleRate int
	Channels   int
}

func (t Toolkit) bin() string {
	if strings.TrimSpace(t.FFmpeg) == "" {
		return "ffmpeg"
	}
	return t.FFmpeg
}

func (t Toolkit) exec() executor.Executor {
	if t.Exec == nil {
		return executor.New()
	}
	return t.Exec
}

func (t Toolkit) format() (rate, channels int) {
	rate, channels = t.SampleRate, t.Channels
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}
	return rate, channels
}

// Silence writes a PCM WAV of length d to path.
func (t Toolkit) Silence(ctx context.Context, d time.Duration, path string) error {
	if d <= 0 {
		return fmt.Errorf("silence duration must be positive, got %v", d)
	}
	rate, channels := t.format()
	layout := "mono"
	if channels == 2 {
		layout = "stereo"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=%s", rate, layout),
		"-t", strconv.FormatFloat(d.Seconds(), 'f', 3, 64),
		"-c:a", "pcm_s16le",
		"-y", path,
	}
	if _, err := t.exec().Execute(ctx, t.bin(), args...); err != nil {
		return fmt.Errorf("ffmpeg silence: %w", err)
	}
	return nil
}

// Concat joins clips in order into out, re-encoding to a single PCM format
// so clips with differing headers still line up.
func (t Toolkit) Concat(ctx context.Context, clips []string, out string) error {
	if len(clips) == 0 {
		return errors.New("no clips to concatenate")
	}
	list, err := os.CreateTemp(filepath.Dir(out), "concat-*.txt")
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(list.Name())
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			list.Close()
			return err
		}
		// The concat demuxer quotes with single quotes.
		fmt.Fprintf(list, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := list.Close(); err != nil {
		return err
	}

	rate, channels := t.format()
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", list.Name(),
		"-ar", strconv.Itoa(rate),
		"-ac", strconv.Itoa(channels),
		"-c:a", "pcm_s16le",
		"-y", out,
	}
	if _, err := t.exec().Execute(ctx, t.bin(), args...); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

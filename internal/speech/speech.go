// Package speech renders a narration sequence into ordered WAV clips.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/reportcast/internal/audio"
	"github.com/hyperifyio/reportcast/internal/cache"
	"github.com/hyperifyio/reportcast/internal/llm"
	"github.com/hyperifyio/reportcast/internal/narrate"
)

const (
	DefaultModel         = "tts-1-hd"
	DefaultVoice         = "onyx"
	DefaultMaxConcurrent = 4
	responseFormat       = "wav"
)

// Synthesizer turns cues into clips. Text cues go through the speech API
// (or the audio cache), pause cues become generated silence.
type Synthesizer struct {
	Client        llm.SpeechClient
	Model         string
	Voice         string
	Cache         *cache.AudioCache
	Audio         audio.Toolkit
	MaxConcurrent int
	// CacheOnly fails on a cache miss instead of calling the API.
	CacheOnly bool
}

// ErrCacheMiss is returned in cache-only mode when a clip is not cached.
var ErrCacheMiss = errors.New("speech clip not in cache")

func (s *Synthesizer) model() string {
	if s.Model == "" {
		return DefaultModel
	}
	return s.Model
}

func (s *Synthesizer) voice() string {
	if s.Voice == "" {
		return DefaultVoice
	}
	return s.Voice
}

// Render writes one clip per cue under dir and returns their paths in cue
// order. Identical pauses share a single silence file, and identical text
// cues share a single speech clip.
func (s *Synthesizer) Render(ctx context.Context, cues []narrate.Cue, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip dir: %w", err)
	}
	paths := make([]string, len(cues))

	// Silence first and serially; there are only a few distinct lengths.
	silences := map[int64]string{}
	for i, c := range cues {
		if !c.IsPause() {
			continue
		}
		p, ok := silences[int64(c.Pause)]
		if !ok {
			p = filepath.Join(dir, fmt.Sprintf("pause-%dms.wav", c.Pause.Milliseconds()))
			if err := s.Audio.Silence(ctx, c.Pause, p); err != nil {
				return nil, err
			}
			silences[int64(c.Pause)] = p
		}
		paths[i] = p
	}

	// Repeated lines are synthesized once and share a clip.
	first := map[string]int{}
	var todo []int
	for i, c := range cues {
		if c.IsPause() {
			continue
		}
		if _, ok := first[c.Text]; !ok {
			first[c.Text] = i
			todo = append(todo, i)
		}
	}

	limit := s.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, i := range todo {
		i := i
		g.Go(func() error {
			p, err := s.clip(gctx, cues[i].Text, filepath.Join(dir, fmt.Sprintf("%04d.wav", i)))
			if err != nil {
				return fmt.Errorf("cue %d: %w", i, err)
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, c := range cues {
		if !c.IsPause() {
			paths[i] = paths[first[c.Text]]
		}
	}
	return paths, nil
}

func (s *Synthesizer) clip(ctx context.Context, text, target string) (string, error) {
	key := cache.SpeechKey(s.model(), s.voice(), responseFormat, text)
	if p, ok := s.Cache.Lookup(ctx, key); ok {
		log.Debug().Str("key", key[:12]).Msg("speech cache hit")
		return p, nil
	}
	if s.CacheOnly {
		return "", ErrCacheMiss
	}
	if s.Client == nil {
		return "", errors.New("no speech client configured")
	}
	data, err := s.Client.Speech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model()),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice()),
		ResponseFormat: openai.SpeechResponseFormat(responseFormat),
	})
	if err != nil {
		return "", fmt.Errorf("speech: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("speech: empty audio")
	}
	if s.Cache != nil && s.Cache.Dir != "" {
		return s.Cache.Save(ctx, key, data)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write clip: %w", err)
	}
	return target, nil
}

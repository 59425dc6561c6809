package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/reportcast/internal/article"
	"github.com/hyperifyio/reportcast/internal/audio"
	"github.com/hyperifyio/reportcast/internal/cache"
	"github.com/hyperifyio/reportcast/internal/clean"
	"github.com/hyperifyio/reportcast/internal/executor"
	"github.com/hyperifyio/reportcast/internal/extract"
	"github.com/hyperifyio/reportcast/internal/fetch"
	"github.com/hyperifyio/reportcast/internal/filter"
	"github.com/hyperifyio/reportcast/internal/llm"
	"github.com/hyperifyio/reportcast/internal/narrate"
	"github.com/hyperifyio/reportcast/internal/script"
	"github.com/hyperifyio/reportcast/internal/segment"
	"github.com/hyperifyio/reportcast/internal/speech"
	"github.com/hyperifyio/reportcast/internal/summarize"
)

// App wires the pipeline stages from a Config.
type App struct {
	cfg       Config
	provider  *llm.OpenAIProvider
	fetcher   *fetch.Client
	llmCache  *cache.LLMCache
	extractor extract.Extractor
	cleaner   clean.Cleaner
	segmenter *segment.Segmenter
	speech    *speech.Synthesizer
	audio     audio.Toolkit
}

// IsFormatDrift reports whether err means the page no longer has the layout
// the segmenter expects, as opposed to a network or API failure.
func IsFormatDrift(err error) bool {
	return errors.Is(err, extract.ErrContainerNotFound) ||
		errors.Is(err, clean.ErrTooFewBlocks) ||
		errors.Is(err, segment.ErrEmptyStream) ||
		errors.Is(err, segment.ErrDelimiterNotFound)
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	flt, err := filter.New(cfg.ExtraFilters...)
	if err != nil {
		return nil, err
	}

	var httpCache *cache.HTTPCache
	var llmCache *cache.LLMCache
	var audioCache *cache.AudioCache
	if dir := strings.TrimSpace(cfg.CacheDir); dir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(dir); err != nil {
				return nil, fmt.Errorf("clear cache: %w", err)
			}
			log.Info().Str("dir", dir).Msg("cache cleared")
		}
		httpDir := filepath.Join(dir, "http")
		llmDir := filepath.Join(dir, "llm")
		audioDir := filepath.Join(dir, "audio")
		if cfg.CacheMaxAge > 0 {
			// Purge is best-effort; a stale entry is not worth failing startup.
			n1, _ := cache.PurgeHTTPCacheByAge(httpDir, cfg.CacheMaxAge)
			n2, _ := cache.PurgeLLMCacheByAge(llmDir, cfg.CacheMaxAge)
			n3, _ := cache.PurgeAudioCacheByAge(audioDir, cfg.CacheMaxAge)
			log.Debug().Int("http", n1).Int("llm", n2).Int("audio", n3).Msg("purged expired cache entries")
		}
		httpCache = &cache.HTTPCache{Dir: httpDir, StrictPerms: cfg.CacheStrictPerms}
		llmCache = &cache.LLMCache{Dir: llmDir, StrictPerms: cfg.CacheStrictPerms}
		audioCache = &cache.AudioCache{Dir: audioDir, StrictPerms: cfg.CacheStrictPerms}
	}

	a := &App{cfg: cfg, llmCache: llmCache}
	a.provider = llm.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL, newHTTPClient(3*time.Minute))
	a.fetcher = &fetch.Client{
		HTTPClient:        newHTTPClient(30 * time.Second),
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       3,
		PerRequestTimeout: 30 * time.Second,
		Cache:             httpCache,
		BypassCache:       cfg.CacheBypass,
		CacheOnly:         cfg.HTTPCacheOnly,
		RedirectMaxHops:   5,
		MaxConcurrent:     2,
	}
	a.extractor = extract.Extractor{Container: cfg.Container, Filter: flt}
	a.cleaner = clean.Cleaner{MetadataBlocks: cfg.MetadataBlocks}

	var summarizer segment.Summarizer = &summarize.Summarizer{
		Client:       a.provider,
		Model:        cfg.LLMModel,
		SystemPrompt: cfg.SystemPrompt,
		Cache:        llmCache,
		CacheOnly:    cfg.LLMCacheOnly,
		Timeout:      cfg.SummarizeTimeout,
	}
	if cfg.DryRun {
		summarizer = dryRunSummarizer{}
	}
	a.segmenter = &segment.Segmenter{Summarizer: summarizer, Captions: cfg.Captions}
	if d := strings.TrimSpace(cfg.Delimiter); d != "" {
		a.segmenter.Delimiter = segment.HeadingIs(d)
	}

	a.audio = audio.Toolkit{Exec: executor.New(), FFmpeg: cfg.FFmpegPath}
	a.speech = &speech.Synthesizer{
		Client:        a.provider,
		Model:         cfg.TTSModel,
		Voice:         cfg.TTSVoice,
		Cache:         audioCache,
		Audio:         a.audio,
		MaxConcurrent: cfg.MaxConcurrent,
		CacheOnly:     cfg.LLMCacheOnly,
	}

	if !cfg.DryRun && !cfg.LLMCacheOnly {
		a.preflight(ctx)
	}
	return a, nil
}

// preflight lists models to surface a misconfigured endpoint early. It never
// fails; the summarizer reports the real error if the endpoint is down.
func (a *App) preflight(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := a.provider.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Debug().Int("count", len(models.Models)).Msg("LLM models available")
}

func (a *App) Close() {
	if a == nil || a.fetcher == nil || a.fetcher.HTTPClient == nil {
		return
	}
	a.fetcher.HTTPClient.CloseIdleConnections()
}

// Blocks fetches url and returns the extracted block stream before cleaning.
func (a *App) Blocks(ctx context.Context, url string) ([]article.Block, error) {
	body, _, err := a.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	blocks, err := a.extractor.Extract(body)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", url).Int("blocks", len(blocks)).Msg("extracted")
	return blocks, nil
}

// Cleaned is Blocks followed by the cleaner.
func (a *App) Cleaned(ctx context.Context, url string) ([]article.Block, error) {
	blocks, err := a.Blocks(ctx, url)
	if err != nil {
		return nil, err
	}
	return a.cleaner.Clean(blocks)
}

// Convert runs the segmentation pipeline for url.
func (a *App) Convert(ctx context.Context, url string) (article.Output, error) {
	blocks, err := a.Cleaned(ctx, url)
	if err != nil {
		return article.Output{}, err
	}
	out, err := a.segmenter.Segment(ctx, blocks)
	if err != nil {
		return article.Output{}, err
	}
	log.Info().Str("url", url).Str("title", out.Title).Int("blocks", len(blocks)).Int("sections", len(out.Sections)).Msg("segmented")
	return out, nil
}

// Export writes every configured script export for out.
func (a *App) Export(out article.Output) error {
	exports := []struct {
		path  string
		write func(article.Output, string) error
	}{
		{a.cfg.ScriptMarkdownPath, script.WriteMarkdown},
		{a.cfg.ScriptPDFPath, script.WritePDF},
		{a.cfg.OutlineJSONPath, script.WriteJSON},
	}
	for _, e := range exports {
		if strings.TrimSpace(e.path) == "" {
			continue
		}
		if err := ensureParent(e.path); err != nil {
			return err
		}
		if err := e.write(out, e.path); err != nil {
			return fmt.Errorf("export %s: %w", e.path, err)
		}
		log.Info().Str("out", e.path).Msg("wrote script export")
	}
	return nil
}

// Narrate converts url, writes exports and renders the briefing. It returns
// the WAV path, or an empty path in dry-run mode where no audio is made.
func (a *App) Narrate(ctx context.Context, url string) (string, error) {
	out, err := a.Convert(ctx, url)
	if err != nil {
		return "", err
	}
	if err := a.Export(out); err != nil {
		return "", err
	}
	seq := narrate.Sequence(out, narrate.Options{})
	if a.cfg.DryRun {
		log.Info().Int("cues", len(seq)).Dur("pauses", narrate.Duration(seq)).Msg("dry run; skipping speech")
		return "", nil
	}

	target := deriveOutputPath(a.cfg, out.Title)
	if err := ensureParent(target); err != nil {
		return "", err
	}
	work, err := os.MkdirTemp(filepath.Dir(target), ".clips-*")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(work)

	log.Info().Int("cues", len(seq)).Str("stage", "speech").Msg("rendering clips")
	clips, err := a.speech.Render(ctx, seq, work)
	if err != nil {
		return "", err
	}
	log.Info().Int("clips", len(clips)).Str("stage", "concat").Msg("joining clips")
	if err := a.audio.Concat(ctx, clips, target); err != nil {
		return "", err
	}
	meta := a.runMeta(url, out.Title, len(clips), seq)
	if err := writeManifest(deriveManifestSidecarPath(target), meta, out); err != nil {
		log.Warn().Err(err).Msg("manifest write failed")
	}
	log.Info().Str("out", target).Msg("wrote briefing")
	return target, nil
}

// runMeta describes a finished run for the manifest sidecar.
func (a *App) runMeta(url, title string, clips int, seq []narrate.Cue) manifestMeta {
	return manifestMeta{
		URL:         url,
		Title:       title,
		Model:       a.cfg.LLMModel,
		LLMBaseURL:  a.cfg.LLMBaseURL,
		TTSModel:    a.speech.Model,
		TTSVoice:    a.speech.Voice,
		Clips:       clips,
		PauseTotal:  narrate.Duration(seq).String(),
		HTTPCache:   a.fetcher.Cache != nil,
		LLMCache:    a.llmCache != nil,
		AudioCache:  a.speech.Cache != nil,
		GeneratedAt: time.Now().UTC(),
	}
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// dryRunSummarizer stands in for the model so dry runs make no API calls.
type dryRunSummarizer struct{}

func (dryRunSummarizer) Summarize(context.Context, article.Digest) (string, error) {
	return "(efforts summary not generated in dry run)", nil
}

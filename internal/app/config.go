package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hyperifyio/reportcast/internal/filter"
	"github.com/hyperifyio/reportcast/internal/segment"
)

// DefaultArticleURL is narrated when no URL is given.
const DefaultArticleURL = "https://www.understandingwar.org/backgrounder/russian-offensive-campaign-assessment-january-23-2025"

// Defaults applied by Defaults(); file and env layers treat these values as
// unset so they can override them.
const (
	defaultOutputDir     = "briefings"
	defaultCacheDir      = ".reportcast-cache"
	defaultUserAgent     = "reportcast/1.0 (+https://github.com/hyperifyio/reportcast)"
	defaultLLMModel      = "gpt-4o"
	defaultTTSModel      = "tts-1-hd"
	defaultTTSVoice      = "onyx"
	defaultFFmpeg        = "ffmpeg"
	defaultMaxConcurrent = 4
)

// Config holds runtime configuration for the application.
type Config struct {
	ArticleURL string `validate:"required,url"`

	// Output. OutputPath wins over OutputDir when set.
	OutputDir          string
	OutputPath         string
	ScriptMarkdownPath string
	ScriptPDFPath      string
	OutlineJSONPath    string

	// LLM
	LLMBaseURL       string `validate:"omitempty,url"`
	LLMModel         string
	LLMAPIKey        string
	SystemPrompt     string
	SummarizeTimeout time.Duration `validate:"gte=0"`

	// Speech
	TTSModel      string
	TTSVoice      string
	MaxConcurrent int `validate:"gte=0,lte=64"`
	FFmpegPath    string

	// Segmentation
	Container      string
	Delimiter      string
	// MetadataBlocks of zero keeps the cleaner default.
	MetadataBlocks int `validate:"gte=0"`
	ExtraFilters   []string
	Captions       segment.Captions

	// Fetch and cache
	UserAgent        string
	CacheDir         string
	CacheMaxAge      time.Duration `validate:"gte=0"`
	CacheClear       bool
	// CacheBypass skips revalidation and always refetches pages, still
	// saving the fresh copy.
	CacheBypass      bool
	CacheStrictPerms bool
	HTTPCacheOnly    bool
	LLMCacheOnly     bool

	// Behavior
	DryRun  bool
	Verbose bool
}

// Defaults returns a Config with every tunable set to its stock value.
func Defaults() Config {
	return Config{
		ArticleURL:    DefaultArticleURL,
		OutputDir:     defaultOutputDir,
		LLMModel:      defaultLLMModel,
		TTSModel:      defaultTTSModel,
		TTSVoice:      defaultTTSVoice,
		MaxConcurrent: defaultMaxConcurrent,
		FFmpegPath:    defaultFFmpeg,
		UserAgent:     defaultUserAgent,
		CacheDir:      defaultCacheDir,
	}
}

var validate = validator.New()

// ValidateConfig checks field constraints and that extra filter patterns
// compile. In dry-run the LLM model may be omitted.
func ValidateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, e.Field()+" "+describe(e))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	if _, err := filter.New(cfg.ExtraFilters...); err != nil {
		return fmt.Errorf("config: extra filter: %w", err)
	}
	return nil
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	}
	return fmt.Sprintf("failed validation '%s'", e.Tag())
}

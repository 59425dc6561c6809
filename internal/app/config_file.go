package app

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/reportcast/internal/segment"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
    URL string `yaml:"url" json:"url"`

    Output struct {
        Dir      string `yaml:"dir" json:"dir"`
        Path     string `yaml:"path" json:"path"`
        Markdown string `yaml:"markdown" json:"markdown"`
        PDF      string `yaml:"pdf" json:"pdf"`
        JSON     string `yaml:"json" json:"json"`
    } `yaml:"output" json:"output"`

    LLM struct {
        BaseURL      string        `yaml:"base" json:"base"`
        Model        string        `yaml:"model" json:"model"`
        APIKey       string        `yaml:"key" json:"key"`
        SystemPrompt string        `yaml:"systemPrompt" json:"systemPrompt"`
        Timeout      time.Duration `yaml:"timeout" json:"timeout"`
    } `yaml:"llm" json:"llm"`

    TTS struct {
        Model         string `yaml:"model" json:"model"`
        Voice         string `yaml:"voice" json:"voice"`
        MaxConcurrent int    `yaml:"maxConcurrent" json:"maxConcurrent"`
        FFmpeg        string `yaml:"ffmpeg" json:"ffmpeg"`
    } `yaml:"tts" json:"tts"`

    Segment struct {
        Container      string           `yaml:"container" json:"container"`
        Delimiter      string           `yaml:"delimiter" json:"delimiter"`
        MetadataBlocks int              `yaml:"metadataBlocks" json:"metadataBlocks"`
        Filters        []string         `yaml:"filters" json:"filters"`
        Captions       segment.Captions `yaml:"captions" json:"captions"`
    } `yaml:"segment" json:"segment"`

    Fetch struct {
        UserAgent string `yaml:"userAgent" json:"userAgent"`
    } `yaml:"fetch" json:"fetch"`

    Cache struct {
        Dir         string        `yaml:"dir" json:"dir"`
        MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
        Clear       bool          `yaml:"clear" json:"clear"`
        Bypass      bool          `yaml:"bypass" json:"bypass"`
        StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
        HTTPOnly    bool          `yaml:"httpOnly" json:"httpOnly"`
        LLMOnly     bool          `yaml:"llmOnly" json:"llmOnly"`
    } `yaml:"cache" json:"cache"`

    DryRun  bool `yaml:"dryRun" json:"dryRun"`
    Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. It runs on
// top of Defaults() and before env and flags, so later layers still win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }
    setStr := func(dst *string, v string) { if v != "" { *dst = v } }

    setStr(&cfg.ArticleURL, fc.URL)
    setStr(&cfg.OutputDir, fc.Output.Dir)
    setStr(&cfg.OutputPath, fc.Output.Path)
    setStr(&cfg.ScriptMarkdownPath, fc.Output.Markdown)
    setStr(&cfg.ScriptPDFPath, fc.Output.PDF)
    setStr(&cfg.OutlineJSONPath, fc.Output.JSON)

    setStr(&cfg.LLMBaseURL, fc.LLM.BaseURL)
    setStr(&cfg.LLMModel, fc.LLM.Model)
    setStr(&cfg.LLMAPIKey, fc.LLM.APIKey)
    setStr(&cfg.SystemPrompt, fc.LLM.SystemPrompt)
    if fc.LLM.Timeout > 0 { cfg.SummarizeTimeout = fc.LLM.Timeout }

    setStr(&cfg.TTSModel, fc.TTS.Model)
    setStr(&cfg.TTSVoice, fc.TTS.Voice)
    setStr(&cfg.FFmpegPath, fc.TTS.FFmpeg)
    if fc.TTS.MaxConcurrent > 0 { cfg.MaxConcurrent = fc.TTS.MaxConcurrent }

    setStr(&cfg.Container, fc.Segment.Container)
    setStr(&cfg.Delimiter, fc.Segment.Delimiter)
    if fc.Segment.MetadataBlocks > 0 { cfg.MetadataBlocks = fc.Segment.MetadataBlocks }
    if len(fc.Segment.Filters) > 0 { cfg.ExtraFilters = append([]string{}, fc.Segment.Filters...) }
    setStr(&cfg.Captions.Events, fc.Segment.Captions.Events)
    setStr(&cfg.Captions.EventsSummary, fc.Segment.Captions.EventsSummary)
    setStr(&cfg.Captions.AISummary, fc.Segment.Captions.AISummary)

    setStr(&cfg.UserAgent, fc.Fetch.UserAgent)

    setStr(&cfg.CacheDir, fc.Cache.Dir)
    if fc.Cache.MaxAge > 0 { cfg.CacheMaxAge = fc.Cache.MaxAge }
    if fc.Cache.Clear { cfg.CacheClear = true }
    if fc.Cache.Bypass { cfg.CacheBypass = true }
    if fc.Cache.StrictPerms { cfg.CacheStrictPerms = true }
    if fc.Cache.HTTPOnly { cfg.HTTPCacheOnly = true }
    if fc.Cache.LLMOnly { cfg.LLMCacheOnly = true }

    if fc.DryRun { cfg.DryRun = true }
    if fc.Verbose { cfg.Verbose = true }
}

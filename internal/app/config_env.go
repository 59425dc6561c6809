package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding variables are set. It runs after the config file so env wins
// over file values, and before flags so flags stay highest precedence.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv("ARTICLE_URL"); v != "" { cfg.ArticleURL = v }
    if v := os.Getenv("OUTPUT_DIR"); v != "" { cfg.OutputDir = v }

    if v := os.Getenv("LLM_BASE_URL"); v != "" { cfg.LLMBaseURL = v }
    if v := os.Getenv("LLM_MODEL"); v != "" { cfg.LLMModel = v }
    // OPENAI_API_KEY is the conventional name; LLM_API_KEY wins when both are set.
    if v := os.Getenv("OPENAI_API_KEY"); v != "" { cfg.LLMAPIKey = v }
    if v := os.Getenv("LLM_API_KEY"); v != "" { cfg.LLMAPIKey = v }

    if v := os.Getenv("TTS_MODEL"); v != "" { cfg.TTSModel = v }
    if v := os.Getenv("TTS_VOICE"); v != "" { cfg.TTSVoice = v }
    if v := os.Getenv("FFMPEG_PATH"); v != "" { cfg.FFmpegPath = v }
    if v := strings.TrimSpace(os.Getenv("MAX_CONCURRENT")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            cfg.MaxConcurrent = n
        }
    }

    if v := os.Getenv("CACHE_DIR"); v != "" { cfg.CacheDir = v }
    if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
        if d, err := time.ParseDuration(s); err == nil {
            cfg.CacheMaxAge = d
        }
    }
    if s := os.Getenv("LLM_TIMEOUT"); s != "" {
        if d, err := time.ParseDuration(s); err == nil {
            cfg.SummarizeTimeout = d
        }
    }

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.DryRun, "DRY_RUN")
    setBool(&cfg.Verbose, "VERBOSE")
    setBool(&cfg.CacheClear, "CACHE_CLEAR")
    setBool(&cfg.CacheBypass, "CACHE_BYPASS")
    setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
    setBool(&cfg.HTTPCacheOnly, "HTTP_CACHE_ONLY")
    setBool(&cfg.LLMCacheOnly, "LLM_CACHE_ONLY")
}

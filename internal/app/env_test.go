package app

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
    t.Setenv("FOO", "")
    t.Setenv("BAR", "")

    dir := t.TempDir()
    envPath := filepath.Join(dir, ".env.test")
    content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta gamma\"\n"
    if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
        t.Fatalf("write dotenv: %v", err)
    }

    if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("FOO"); got != "alpha" {
        t.Fatalf("FOO=%q, want alpha", got)
    }
    if got := os.Getenv("BAR"); got != "beta gamma" {
        t.Fatalf("BAR=%q, want quoted value unwrapped", got)
    }
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
    t.Setenv("K", "")
    dir := t.TempDir()
    a := filepath.Join(dir, ".env.a")
    b := filepath.Join(dir, ".env.b")
    if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil { t.Fatalf("write a: %v", err) }
    if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil { t.Fatalf("write b: %v", err) }

    if err := LoadEnvFiles(a, b); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("K"); got != "second" {
        t.Fatalf("override order failed: got %q, want second", got)
    }
}

func TestApplyEnvOverrides_FromEnv(t *testing.T) {
    t.Setenv("ARTICLE_URL", "https://example.com/report")
    t.Setenv("OPENAI_API_KEY", "sk-openai")
    t.Setenv("LLM_API_KEY", "")
    t.Setenv("TTS_VOICE", "alloy")
    t.Setenv("MAX_CONCURRENT", "8")
    t.Setenv("CACHE_DIR", "/tmp/reportcast-cache")
    t.Setenv("CACHE_MAX_AGE", "48h")
    t.Setenv("DRY_RUN", "yes")
    t.Setenv("CACHE_BYPASS", "1")

    cfg := Defaults()
    cfg.Verbose = true
    t.Setenv("VERBOSE", "off")
    ApplyEnvOverrides(&cfg)
    if cfg.ArticleURL != "https://example.com/report" || cfg.LLMAPIKey != "sk-openai" || cfg.TTSVoice != "alloy" {
        t.Fatalf("string overrides not applied: %+v", cfg)
    }
    if cfg.MaxConcurrent != 8 || cfg.CacheDir != "/tmp/reportcast-cache" || cfg.CacheMaxAge != 48*time.Hour {
        t.Fatalf("numeric overrides not applied: %+v", cfg)
    }
    if !cfg.DryRun || cfg.Verbose || !cfg.CacheBypass {
        t.Fatalf("boolean overrides not applied: dry=%v verbose=%v bypass=%v", cfg.DryRun, cfg.Verbose, cfg.CacheBypass)
    }

    t.Setenv("LLM_API_KEY", "sk-llm")
    ApplyEnvOverrides(&cfg)
    if cfg.LLMAPIKey != "sk-llm" {
        t.Fatalf("LLM_API_KEY should win, got %q", cfg.LLMAPIKey)
    }
}

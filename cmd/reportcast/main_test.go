package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/reportcast/internal/article"
	"github.com/hyperifyio/reportcast/internal/clean"
	"github.com/hyperifyio/reportcast/internal/segment"
)

const page = `<html><body><div property="content:encoded">
<p><span>Russian Offensive Campaign Assessment, January 23, 2025</span></p>
<p>Author line</p>
<p>Date line</p>
<p>Intro line</p>
<p>Russian forces advanced near Pokrovsk.</p>
<p><span>Key Takeaways:</span></p>
<p>Russian forces conducted offensive operations.</p>
<p><span>Russian Main Effort</span></p>
<p>Russian forces attacked near Kupyansk.</p>
</div></body></html>`

func serve(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/report"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&options{}, &out)
	base := []string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--cache.dir", t.TempDir()}
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != 0 {
		t.Fatal("nil should exit 0")
	}
	if exitCode(errors.New("boom")) != 1 {
		t.Fatal("generic error should exit 1")
	}
	drift := fmt.Errorf("segment: %w", segment.ErrDelimiterNotFound)
	if exitCode(drift) != 2 || exitCode(clean.ErrTooFewBlocks) != 2 {
		t.Fatal("format drift should exit 2")
	}
}

func TestOutline_DryRunMarkdown(t *testing.T) {
	url := serve(t, page)
	out, err := execute(t, "outline", "--dry-run", url)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if !strings.HasPrefix(out, "# Russian Offensive Campaign Assessment, January 23, 2025\n") {
		t.Fatalf("unexpected outline:\n%s", out)
	}
	if !strings.Contains(out, "## Russian Main Effort\n") || !strings.Contains(out, segment.DefaultCaptions().AISummary) {
		t.Fatalf("missing sections:\n%s", out)
	}
}

func TestOutline_JSONAndExport(t *testing.T) {
	url := serve(t, page)
	mdPath := filepath.Join(t.TempDir(), "script.md")
	out, err := execute(t, "outline", "--dry-run", "--json", "--script-md", mdPath, url)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	var got article.Output
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("json: %v\n%s", err, out)
	}
	if len(got.Sections) != 4 {
		t.Fatalf("sections=%d", len(got.Sections))
	}
	if _, err := os.Stat(mdPath); err != nil {
		t.Fatalf("script export missing: %v", err)
	}
}

func TestBlocks_RawAndCleaned(t *testing.T) {
	url := serve(t, page)
	raw, err := execute(t, "blocks", "--dry-run", url)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if !strings.Contains(raw, "Author line") {
		t.Fatalf("raw dump should keep metadata:\n%s", raw)
	}
	cleaned, err := execute(t, "blocks", "--cleaned", "--dry-run", url)
	if err != nil {
		t.Fatalf("blocks --cleaned: %v", err)
	}
	if strings.Contains(cleaned, "Author line") || !strings.HasPrefix(cleaned, "# Russian Offensive") {
		t.Fatalf("cleaned dump:\n%s", cleaned)
	}
}

func TestOutline_FormatDriftExitCode(t *testing.T) {
	url := serve(t, strings.Replace(page, "Key Takeaways:", "Highlights", 1))
	_, err := execute(t, "outline", "--dry-run", url)
	if exitCode(err) != 2 {
		t.Fatalf("expected drift exit code, err=%v", err)
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "reportcast.yaml")
	if err := os.WriteFile(cfgPath, []byte("url: https://example.com/file\ntts:\n  voice: alloy\n  model: tts-1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("TTS_MODEL=tts-env\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TTS_MODEL", "")
	t.Setenv("TTS_VOICE", "")

	var o options
	root := newRootCmd(&o, &bytes.Buffer{})
	narrate, _, err := root.Find([]string{"narrate"})
	if err != nil {
		t.Fatal(err)
	}
	if err := narrate.ParseFlags([]string{"--config", cfgPath, "--env-file", envPath, "--tts.voice", "echo"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := loadConfig(narrate, &o, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TTSVoice != "echo" {
		t.Fatalf("flag should beat file, voice=%q", cfg.TTSVoice)
	}
	if cfg.TTSModel != "tts-env" {
		t.Fatalf("env should beat file, model=%q", cfg.TTSModel)
	}
	if cfg.ArticleURL != "https://example.com/file" {
		t.Fatalf("file url not applied: %q", cfg.ArticleURL)
	}
	cfg, err = loadConfig(narrate, &o, []string{"https://example.com/arg"})
	if err != nil || cfg.ArticleURL != "https://example.com/arg" {
		t.Fatalf("positional url should win: %q %v", cfg.ArticleURL, err)
	}
}

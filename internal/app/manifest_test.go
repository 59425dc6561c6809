package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/reportcast/internal/article"
	"github.com/hyperifyio/reportcast/internal/cache"
	"github.com/hyperifyio/reportcast/internal/fetch"
	"github.com/hyperifyio/reportcast/internal/narrate"
	"github.com/hyperifyio/reportcast/internal/speech"
)

func TestBuildManifestEntries_SkipsImagesInDigest(t *testing.T) {
	out := article.Output{Title: "T", Sections: []article.Section{
		{Name: "A", Blocks: []article.Block{
			{Kind: article.Content, Value: "hello"},
			{Kind: article.Image, Value: "https://example.com/x.png"},
		}},
		{Name: "B", Blocks: []article.Block{{Kind: article.Content, Value: "hello"}}},
	}}
	entries := buildManifestEntries(out)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries; got %d", len(entries))
	}
	if entries[0].Blocks != 2 || entries[0].Chars != 5 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[0].SHA256 != entries[1].SHA256 {
		t.Fatalf("image should not affect digest")
	}
	if entries[1].Index != 2 || entries[1].Name != "B" {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
}

func TestWriteManifest_Sidecar(t *testing.T) {
	wav := filepath.Join(t.TempDir(), "briefing.wav")
	path := deriveManifestSidecarPath(wav)
	if path != wav+".manifest.json" {
		t.Fatalf("path=%s", path)
	}
	meta := manifestMeta{
		URL:         "https://example.com/report",
		Title:       "T",
		Model:       "gpt-local",
		TTSVoice:    "onyx",
		Clips:       7,
		GeneratedAt: time.Date(2025, 1, 23, 12, 0, 0, 0, time.UTC),
	}
	out := article.Output{Title: "T", Sections: []article.Section{{Name: "S"}}}
	if err := writeManifest(path, meta, out); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	var got struct {
		Meta     manifestMeta    `json:"meta"`
		Sections []manifestEntry `json:"sections"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.Meta.Model != "gpt-local" || got.Meta.Clips != 7 || len(got.Sections) != 1 {
		t.Fatalf("unexpected manifest: %+v", got)
	}
}

func TestRunMeta_ReportsEachCacheSeparately(t *testing.T) {
	a := &App{
		cfg:     Config{LLMModel: "gpt-local"},
		fetcher: &fetch.Client{},
		speech:  &speech.Synthesizer{Cache: &cache.AudioCache{Dir: t.TempDir()}},
	}
	meta := a.runMeta("https://example.com/report", "T", 3, []narrate.Cue{{Pause: narrate.TitlePause}})
	if meta.LLMCache || !meta.AudioCache || meta.HTTPCache {
		t.Fatalf("cache flags http=%v llm=%v audio=%v", meta.HTTPCache, meta.LLMCache, meta.AudioCache)
	}
	a.llmCache = &cache.LLMCache{Dir: t.TempDir()}
	a.speech.Cache = nil
	meta = a.runMeta("https://example.com/report", "T", 3, nil)
	if !meta.LLMCache || meta.AudioCache {
		t.Fatalf("cache flags llm=%v audio=%v", meta.LLMCache, meta.AudioCache)
	}
	if meta.PauseTotal != "0s" || meta.Model != "gpt-local" {
		t.Fatalf("meta=%+v", meta)
	}
}

package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/reportcast/internal/article"
)

// manifestEntry is a compact record of one narrated section.
type manifestEntry struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Blocks int    `json:"blocks"`
	SHA256 string `json:"sha256"`
	Chars  int    `json:"chars"`
}

// manifestMeta captures the run details needed to reproduce a briefing.
type manifestMeta struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Model       string    `json:"model"`
	LLMBaseURL  string    `json:"llm_base_url"`
	TTSModel    string    `json:"tts_model"`
	TTSVoice    string    `json:"tts_voice"`
	Clips       int       `json:"clips"`
	PauseTotal  string    `json:"pause_total"`
	HTTPCache   bool      `json:"http_cache"`
	LLMCache    bool      `json:"llm_cache"`
	AudioCache  bool      `json:"audio_cache"`
	GeneratedAt time.Time `json:"generated_at"`
}

func computeSHA256Hex(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// buildManifestEntries digests the spoken text of each section so two
// briefings can be compared without listening to them.
func buildManifestEntries(out article.Output) []manifestEntry {
	entries := make([]manifestEntry, 0, len(out.Sections))
	for i, s := range out.Sections {
		var text []string
		for _, b := range s.Blocks {
			if b.Kind != article.Image {
				text = append(text, strings.TrimSpace(b.Value))
			}
		}
		content := strings.Join(text, "\n")
		entries = append(entries, manifestEntry{
			Index:  i + 1,
			Name:   s.Name,
			Blocks: len(s.Blocks),
			SHA256: computeSHA256Hex(content),
			Chars:  len(content),
		})
	}
	return entries
}

func marshalManifestJSON(meta manifestMeta, entries []manifestEntry) ([]byte, error) {
	payload := struct {
		Meta     manifestMeta    `json:"meta"`
		Sections []manifestEntry `json:"sections"`
	}{Meta: meta, Sections: entries}
	return json.MarshalIndent(payload, "", "  ")
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the briefing.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}

func writeManifest(path string, meta manifestMeta, out article.Output) error {
	data, err := marshalManifestJSON(meta, buildManifestEntries(out))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

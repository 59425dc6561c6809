// Package narrate turns a segmented article into the ordered list of spoken
// lines and pauses that make up the audio briefing.
package narrate

import (
	"time"

	"github.com/hyperifyio/reportcast/internal/article"
)

// Pacing gaps around the spoken parts.
const (
	TitlePause   = 2 * time.Second
	HeadingPause = 1300 * time.Millisecond
	ContentPause = 800 * time.Millisecond
)

// Cue is either a pause or a line of speech, never both.
type Cue struct {
	Pause time.Duration
	Text  string
}

// IsPause reports whether the cue is silence.
func (c Cue) IsPause() bool { return c.Text == "" }

// Options tune sequence building.
type Options struct {
	// MaxChars bounds each spoken line; defaults to DefaultMaxChars.
	MaxChars int
}

// Sequence lays out the narration: the title, then each section caption
// followed by its blocks. Headings inside a section are framed like captions,
// content is chunked and followed by a short pause, images are skipped.
func Sequence(out article.Output, opts Options) []Cue {
	max := opts.MaxChars
	if max <= 0 {
		max = DefaultMaxChars
	}
	seq := []Cue{{Pause: TitlePause}, {Text: out.Title}, {Pause: TitlePause}}
	for _, s := range out.Sections {
		seq = append(seq, Cue{Pause: HeadingPause}, Cue{Text: s.Name}, Cue{Pause: HeadingPause})
		for _, b := range s.Blocks {
			switch b.Kind {
			case article.Heading:
				seq = append(seq, Cue{Pause: HeadingPause}, Cue{Text: b.Value}, Cue{Pause: HeadingPause})
			case article.Content:
				for _, chunk := range Chunk(b.Value, max) {
					seq = append(seq, Cue{Text: chunk})
				}
				seq = append(seq, Cue{Pause: ContentPause})
			}
		}
	}
	return seq
}

// Duration sums the pauses in seq; speech length is unknown until rendered.
func Duration(seq []Cue) time.Duration {
	var d time.Duration
	for _, c := range seq {
		d += c.Pause
	}
	return d
}

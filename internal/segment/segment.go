// Package segment arranges a cleaned block stream into the narrated section
// structure: events summary, AI efforts summary, events, then one section per
// efforts heading.
package segment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/reportcast/internal/article"
)

// DefaultDelimiter is the heading text that ends the events part of a report.
const DefaultDelimiter = "Key Takeaways:"

var (
	// ErrEmptyStream is returned when there is no title block.
	ErrEmptyStream = errors.New("empty block stream")
	// ErrDelimiterNotFound means the report layout no longer has the
	// takeaways heading, so section boundaries cannot be trusted.
	ErrDelimiterNotFound = errors.New("events delimiter not found")
)

// Captions are the spoken labels of the fixed sections.
type Captions struct {
	Events        string `yaml:"events" json:"events"`
	EventsSummary string `yaml:"eventsSummary" json:"eventsSummary"`
	AISummary     string `yaml:"aiSummary" json:"aiSummary"`
}

// DefaultCaptions returns the stock captions.
func DefaultCaptions() Captions {
	return Captions{
		Events:        "That wraps up the overview, now we'll move on to the full report.",
		EventsSummary: "So, let's start off with a summary of today's events.",
		AISummary:     "Next up is a summary of the main efforts. Please note that this section is A.I. generated and may be inaccurate, so don't take it as fact!",
	}
}

func (c Captions) withDefaults() Captions {
	d := DefaultCaptions()
	if strings.TrimSpace(c.Events) != "" {
		d.Events = c.Events
	}
	if strings.TrimSpace(c.EventsSummary) != "" {
		d.EventsSummary = c.EventsSummary
	}
	if strings.TrimSpace(c.AISummary) != "" {
		d.AISummary = c.AISummary
	}
	return d
}

// HeadingIs returns a delimiter predicate matching a heading with exactly text.
func HeadingIs(text string) func(article.Block) bool {
	return func(b article.Block) bool {
		return b.Kind == article.Heading && b.Value == text
	}
}

// Summarizer produces the efforts summary from the collected texts.
type Summarizer interface {
	Summarize(ctx context.Context, d article.Digest) (string, error)
}

// Segmenter builds an Output from a cleaned block stream.
type Segmenter struct {
	Summarizer Summarizer
	// Delimiter ends the events section. Defaults to HeadingIs(DefaultDelimiter).
	Delimiter func(article.Block) bool
	Captions  Captions
}

// Draft is the result of partitioning, before the AI section is added.
// Sections are in document order: events, events summary, efforts...
type Draft struct {
	Title    string
	Sections []article.Section
	Digest   article.Digest
}

// Segment partitions blocks, asks the summarizer for the efforts summary and
// assembles the final section order. A summarizer failure fails the run.
func (s *Segmenter) Segment(ctx context.Context, blocks []article.Block) (article.Output, error) {
	if s.Summarizer == nil {
		return article.Output{}, errors.New("segmenter: no summarizer configured")
	}
	d, err := s.Partition(blocks)
	if err != nil {
		return article.Output{}, err
	}
	summary, err := s.Summarizer.Summarize(ctx, d.Digest)
	if err != nil {
		return article.Output{}, fmt.Errorf("summarize efforts: %w", err)
	}
	return s.Assemble(d, summary), nil
}

// Partition walks blocks once with a cursor. blocks is not modified.
func (s *Segmenter) Partition(blocks []article.Block) (Draft, error) {
	caps := s.Captions.withDefaults()
	isDelimiter := s.Delimiter
	if isDelimiter == nil {
		isDelimiter = HeadingIs(DefaultDelimiter)
	}
	if len(blocks) == 0 {
		return Draft{}, ErrEmptyStream
	}

	d := Draft{Title: blocks[0].Value}
	i := 1

	events := article.Section{Name: caps.Events}
	var eventsText []string
	found := false
	for i < len(blocks) {
		b := blocks[i]
		i++
		if isDelimiter(b) {
			found = true
			break
		}
		if b.Kind == article.Content {
			eventsText = append(eventsText, b.Value)
		}
		events.Blocks = append(events.Blocks, b)
	}
	if !found {
		return Draft{}, fmt.Errorf("%w: %d blocks scanned", ErrDelimiterNotFound, len(blocks)-1)
	}

	summary := article.Section{Name: caps.EventsSummary}
	var summaryText []string
	for i < len(blocks) && blocks[i].Kind != article.Heading {
		b := blocks[i]
		i++
		if b.Kind == article.Content {
			summaryText = append(summaryText, b.Value)
		}
		summary.Blocks = append(summary.Blocks, b)
	}

	d.Sections = append(d.Sections, events, summary)

	var effortsText []string
	var open *article.Section
	for ; i < len(blocks); i++ {
		b := blocks[i]
		if b.Kind == article.Heading {
			if open != nil {
				d.Sections = append(d.Sections, *open)
			}
			open = &article.Section{Name: b.Value}
			continue
		}
		if b.Kind == article.Content {
			effortsText = append(effortsText, b.Value)
		}
		// The summary loop stops at a heading, so open is always set here.
		open.Blocks = append(open.Blocks, b)
	}
	if open != nil {
		d.Sections = append(d.Sections, *open)
	}

	d.Digest = article.Digest{
		Events:        strings.Join(eventsText, " "),
		EventsSummary: strings.Join(summaryText, " "),
		Efforts:       strings.Join(effortsText, " "),
	}
	return d, nil
}

// Assemble adds the AI summary section and moves the summaries to the front:
// [events summary, AI summary, events, efforts...].
func (s *Segmenter) Assemble(d Draft, summary string) article.Output {
	caps := s.Captions.withDefaults()
	ai := article.Section{
		Name:   caps.AISummary,
		Blocks: []article.Block{{Kind: article.Content, Value: summary}},
	}
	sections := make([]article.Section, 0, len(d.Sections)+1)
	sections = append(sections, d.Sections...)
	sections = insertAt(sections, 2, ai)
	events := sections[0]
	sections = sections[1:]
	sections = insertAt(sections, 2, events)
	return article.Output{Title: d.Title, Sections: sections}
}

func insertAt(s []article.Section, i int, v article.Section) []article.Section {
	s = append(s, article.Section{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

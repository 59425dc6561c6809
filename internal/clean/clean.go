// Package clean removes blocks that should never be narrated: the byline
// metadata under the title and headings that have no body.
package clean

import (
	"errors"
	"fmt"

	"github.com/hyperifyio/reportcast/internal/article"
)

// DefaultMetadataBlocks is how many blocks follow the title before the body
// starts (authors, date and similar). This is a positional assumption about
// the source layout; when the layout changes, so must this number.
const DefaultMetadataBlocks = 3

// ErrTooFewBlocks means the stream cannot contain a title plus metadata.
var ErrTooFewBlocks = errors.New("too few blocks for title and metadata")

// Cleaner post-processes an extracted block stream.
type Cleaner struct {
	// MetadataBlocks overrides DefaultMetadataBlocks when positive.
	MetadataBlocks int
}

// Clean returns a new slice; blocks is left untouched. The result has no two
// consecutive headings and never ends with a heading.
func (c Cleaner) Clean(blocks []article.Block) ([]article.Block, error) {
	skip := c.MetadataBlocks
	if skip <= 0 {
		skip = DefaultMetadataBlocks
	}
	if len(blocks) < 1+skip {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrTooFewBlocks, len(blocks), 1+skip)
	}

	out := make([]article.Block, 0, len(blocks)-skip)
	out = append(out, blocks[0])
	for _, b := range blocks[1+skip:] {
		// Keep only the latest of a run of headings.
		if b.Kind == article.Heading && out[len(out)-1].Kind == article.Heading {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	for len(out) > 0 && out[len(out)-1].Kind == article.Heading {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Clean applies the default Cleaner.
func Clean(blocks []article.Block) ([]article.Block, error) {
	return Cleaner{}.Clean(blocks)
}

package extract

import (
	"strings"

	"github.com/hyperifyio/reportcast/internal/article"
)

// Dump renders blocks as Markdown for eyeballing extraction results. Images
// become HTML comments so the file stays readable without network access.
func Dump(blocks []article.Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case article.Heading:
			b.WriteString("# ")
			b.WriteString(blk.Value)
		case article.Image:
			b.WriteString("<!-- ")
			b.WriteString(blk.Value)
			b.WriteString(" -->")
		default:
			b.WriteString(blk.Value)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

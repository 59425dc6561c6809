// Package article holds the block and section model shared by the extraction,
// cleaning, segmentation and narration stages.
package article

import "fmt"

// Kind tags a Block. The set is closed.
type Kind int

const (
	Heading Kind = iota
	Image
	Content
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "HEADING"
	case Image:
		return "IMAGE"
	case Content:
		return "CONTENT"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name so JSON and YAML exports stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Heading, Image, Content:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown block kind %d", int(k))
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "HEADING":
		*k = Heading
	case "IMAGE":
		*k = Image
	case "CONTENT":
		*k = Content
	default:
		return fmt.Errorf("unknown block kind %q", string(b))
	}
	return nil
}

// Block is a single unit of article content. Value is display text for
// headings and content, and a URL for images.
type Block struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// Section is a named run of blocks in narrative order.
type Section struct {
	Name   string  `json:"name" yaml:"name"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Output is a fully segmented article. Section order is the narration order,
// not the document order.
type Output struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Digest carries the plain text bodies collected while segmenting, which are
// the only input to the efforts summary.
type Digest struct {
	Events        string
	EventsSummary string
	Efforts       string
}

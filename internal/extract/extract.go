package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hyperifyio/reportcast/internal/article"
	"github.com/hyperifyio/reportcast/internal/filter"
)

// DefaultContainer selects the article body in the report pages.
const DefaultContainer = `[property="content:encoded"]`

// ErrContainerNotFound is returned when the page has no article body.
var ErrContainerNotFound = errors.New("article container not found")

// Extractor turns the direct children of the article container into blocks.
type Extractor struct {
	// Container is a CSS selector; the first match is used.
	Container string
	// Filter defaults to filter.Default.
	Filter *filter.Filter
}

// FromHTML extracts blocks with the default container and filter.
func FromHTML(input []byte) ([]article.Block, error) {
	return Extractor{}.Extract(input)
}

// Extract parses input and returns blocks in document order. Children that
// fail the filter, and image containers without a usable link, produce no
// block.
func (e Extractor) Extract(input []byte) ([]article.Block, error) {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	sel := e.Container
	if strings.TrimSpace(sel) == "" {
		sel = DefaultContainer
	}
	f := e.Filter
	if f == nil {
		f = filter.Default
	}

	container := goquery.NewDocumentFromNode(root).Find(sel).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, sel)
	}

	var blocks []article.Block
	// Children skips text nodes, which is what we want.
	container.Children().Each(func(_ int, child *goquery.Selection) {
		if b, ok := childBlock(child, f); ok {
			blocks = append(blocks, b)
		}
	})
	return blocks, nil
}

func childBlock(child *goquery.Selection, f *filter.Filter) (article.Block, bool) {
	// A child whose whole text is one span is a heading.
	if span := child.Find("span").First(); span.Length() > 0 && child.Text() == span.Text() {
		text := strippedText(span)
		if !f.Acceptable(text) {
			return article.Block{}, false
		}
		return article.Block{Kind: article.Heading, Value: filter.Normalize(text)}, true
	}

	// Image containers are consumed even without a link.
	if child.Find("img").Length() > 0 {
		a := child.Find("a").First()
		if a.Length() == 0 {
			return article.Block{}, false
		}
		href, _ := a.Attr("href")
		if href == "" {
			return article.Block{}, false
		}
		return article.Block{Kind: article.Image, Value: href}, true
	}

	text := child.Text()
	if !f.Acceptable(text) {
		return article.Block{}, false
	}
	return article.Block{Kind: article.Content, Value: filter.Normalize(text)}, true
}

// strippedText joins the trimmed descendant text nodes with no separator.
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

// Package script exports a segmented article as a readable script in
// Markdown, PDF or JSON, and reads the Markdown form back.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/reportcast/internal/article"
)

const (
	imagePrefix = "<!-- image: "
	imageSuffix = " -->"
)

// Markdown renders out as one paragraph per block. Sections become level two
// headings and heading blocks level three. Images are kept as comments so the
// script stays readable while Parse can still recover them.
func Markdown(out article.Output) string {
	var b strings.Builder
	b.WriteString("# " + oneLine(out.Title) + "\n")
	for _, s := range out.Sections {
		b.WriteString("\n## " + oneLine(s.Name) + "\n")
		for _, blk := range s.Blocks {
			b.WriteByte('\n')
			switch blk.Kind {
			case article.Heading:
				b.WriteString("### " + oneLine(blk.Value))
			case article.Image:
				b.WriteString(imagePrefix + oneLine(blk.Value) + imageSuffix)
			default:
				b.WriteString(escapeParagraph(blk.Value))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Parse reads a script written by Markdown.
func Parse(md string) (article.Output, error) {
	var out article.Output
	paras := paragraphs(md)
	if len(paras) == 0 || !strings.HasPrefix(paras[0], "# ") {
		return out, errors.New("script: missing title line")
	}
	out.Title = strings.TrimPrefix(paras[0], "# ")
	for i, p := range paras[1:] {
		if strings.HasPrefix(p, "## ") {
			out.Sections = append(out.Sections, article.Section{Name: strings.TrimPrefix(p, "## ")})
			continue
		}
		if len(out.Sections) == 0 {
			return out, fmt.Errorf("script: paragraph %d appears before any section", i+2)
		}
		cur := &out.Sections[len(out.Sections)-1]
		cur.Blocks = append(cur.Blocks, parseBlock(p))
	}
	return out, nil
}

func parseBlock(p string) article.Block {
	switch {
	case strings.HasPrefix(p, "### "):
		return article.Block{Kind: article.Heading, Value: strings.TrimPrefix(p, "### ")}
	case strings.HasPrefix(p, imagePrefix) && strings.HasSuffix(p, imageSuffix):
		url := strings.TrimSuffix(strings.TrimPrefix(p, imagePrefix), imageSuffix)
		return article.Block{Kind: article.Image, Value: url}
	}
	return article.Block{Kind: article.Content, Value: strings.TrimPrefix(p, `\`)}
}

func paragraphs(md string) []string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(md, "\n\n") {
		if p = strings.Trim(p, "\n"); strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// escapeParagraph keeps content from reading back as structure: blank lines
// are folded and a leading marker character is backslash escaped.
func escapeParagraph(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	s = strings.Join(kept, "\n")
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "<!--") || strings.HasPrefix(s, `\`) {
		s = `\` + s
	}
	return s
}

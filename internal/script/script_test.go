package script

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperifyio/reportcast/internal/article"
)

func sample() article.Output {
	return article.Output{
		Title: "Russian Offensive Campaign Assessment, January 23, 2025",
		Sections: []article.Section{
			{Name: "Here's a summary of the key takeaways.", Blocks: []article.Block{
				{Kind: article.Content, Value: "Russian forces advanced near Pokrovsk."},
				{Kind: article.Image, Value: "https://example.com/map.png"},
			}},
			{Name: "Empty", Blocks: nil},
			{Name: "Key Events", Blocks: []article.Block{
				{Kind: article.Heading, Value: "Ukrainian forces held positions"},
				{Kind: article.Content, Value: "# not a heading\nsecond line"},
				{Kind: article.Content, Value: `\ leading backslash`},
			}},
		},
	}
}

func TestMarkdown_Layout(t *testing.T) {
	md := Markdown(sample())
	for _, want := range []string{
		"# Russian Offensive Campaign Assessment, January 23, 2025\n",
		"\n## Key Events\n",
		"\n### Ukrainian forces held positions\n",
		"\n<!-- image: https://example.com/map.png -->\n",
		"\n\\# not a heading\nsecond line\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	in := sample()
	got, err := Parse(Markdown(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Title != in.Title || len(got.Sections) != len(in.Sections) {
		t.Fatalf("got %+v", got)
	}
	for i := range in.Sections {
		if got.Sections[i].Name != in.Sections[i].Name {
			t.Fatalf("section %d name %q", i, got.Sections[i].Name)
		}
		if len(in.Sections[i].Blocks) == 0 && len(got.Sections[i].Blocks) == 0 {
			continue
		}
		if !reflect.DeepEqual(got.Sections[i].Blocks, in.Sections[i].Blocks) {
			t.Fatalf("section %d blocks:\n got %+v\nwant %+v", i, got.Sections[i].Blocks, in.Sections[i].Blocks)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse("no title here"); err == nil {
		t.Fatal("expected missing title error")
	}
	if _, err := Parse("# T\n\norphan paragraph\n"); err == nil {
		t.Fatal("expected error for block before section")
	}
}

func TestWriteJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(sample(), p); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if !bytes.Contains(b, []byte(`"kind": "IMAGE"`)) {
		t.Fatalf("kinds should be named: %s", b)
	}
	var back article.Output
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Sections[2].Blocks[0].Kind != article.Heading {
		t.Fatalf("kind lost: %+v", back.Sections[2].Blocks[0])
	}
}

func TestWritePDF(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.pdf")
	if err := WritePDF(sample(), p); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", b[:min(len(b), 16)])
	}
}

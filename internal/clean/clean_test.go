package clean

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/hyperifyio/reportcast/internal/article"
)

func h(v string) article.Block { return article.Block{Kind: article.Heading, Value: v} }
func c(v string) article.Block { return article.Block{Kind: article.Content, Value: v} }
func img(v string) article.Block { return article.Block{Kind: article.Image, Value: v} }

func TestClean_DropsMetadataAfterTitle(t *testing.T) {
	in := []article.Block{h("Report, Jan 23"), c("byline"), c("date"), c("extra"), c("Intro paragraph."), h("Key Takeaways:"), c("KT1")}
	out, err := Clean(in)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if out[0].Value != "Report, Jan 23" || out[1].Value != "Intro paragraph." {
		t.Fatalf("unexpected prefix: %+v", out[:2])
	}
	if len(out) != 4 {
		t.Fatalf("len=%d, want 4: %+v", len(out), out)
	}
	if in[1].Value != "byline" {
		t.Fatal("input slice was modified")
	}
}

func TestClean_CollapsesHeadingRuns(t *testing.T) {
	in := []article.Block{h("T"), c("a"), c("b"), c("c"), c("body"), h("Old"), h("Older"), h("Newest"), c("x"), img("u"), h("Y"), c("y")}
	out, err := Clean(in)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	want := []article.Block{h("T"), c("body"), h("Newest"), c("x"), img("u"), h("Y"), c("y")}
	if fmt.Sprint(out) != fmt.Sprint(want) {
		t.Fatalf("got %v\nwant %v", out, want)
	}
}

func TestClean_DropsTrailingHeadings(t *testing.T) {
	in := []article.Block{h("T"), c("a"), c("b"), c("c"), c("body"), h("Tail one"), h("Tail two")}
	out, err := Clean(in)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(out) != 2 || out[1].Value != "body" {
		t.Fatalf("got %+v", out)
	}
}

func TestClean_TooFewBlocks(t *testing.T) {
	_, err := Clean([]article.Block{h("T"), c("a"), c("b")})
	if !errors.Is(err, ErrTooFewBlocks) {
		t.Fatalf("expected ErrTooFewBlocks, got %v", err)
	}
}

func TestClean_CustomMetadataCount(t *testing.T) {
	out, err := Cleaner{MetadataBlocks: 1}.Clean([]article.Block{h("T"), c("date"), c("body")})
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(out) != 2 || out[1].Value != "body" {
		t.Fatalf("got %+v", out)
	}
}

func TestClean_InvariantsHoldForRandomStreams(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := []article.Kind{article.Heading, article.Image, article.Content}
	for iter := 0; iter < 2000; iter++ {
		n := 4 + rng.Intn(20)
		in := make([]article.Block, n)
		for i := range in {
			in[i] = article.Block{Kind: kinds[rng.Intn(len(kinds))], Value: fmt.Sprintf("b%d", i)}
		}
		out, err := Clean(in)
		if err != nil {
			t.Fatalf("clean %v: %v", in, err)
		}
		for i := 1; i < len(out); i++ {
			if out[i].Kind == article.Heading && out[i-1].Kind == article.Heading {
				t.Fatalf("consecutive headings in %v (from %v)", out, in)
			}
		}
		if len(out) > 0 && out[len(out)-1].Kind == article.Heading {
			t.Fatalf("ends with heading: %v (from %v)", out, in)
		}
	}
}

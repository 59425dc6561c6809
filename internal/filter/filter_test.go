package filter

import (
	"strings"
	"testing"
)

func TestIsAcceptable_RejectsBlank(t *testing.T) {
	for _, s := range []string{"", "   ", "\n\t\n"} {
		if IsAcceptable(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestIsAcceptable_RejectsBoilerplatePrefixes(t *testing.T) {
	prefixes := []string{
		"[12]",
		"Note:",
		"Click here",
		"We do not report in detail on Russian war crimes",
	}
	tails := []string{"", " trailing words", "\nsecond line\nthird line"}
	for _, p := range prefixes {
		for _, tail := range tails {
			if IsAcceptable(p + tail) {
				t.Fatalf("expected %q to be rejected", p+tail)
			}
		}
	}
}

func TestIsAcceptable_RejectsWholeLineFluff(t *testing.T) {
	rejected := []string{
		"Nothing significant to report.",
		"Nothing significant to report.\n",
		"ISW is not publishing coverage of Russian forces in Belarus today.",
		"See topline text.",
		"Ukrainian Operations in the Russian Federation\nRussian Main Effort",
	}
	for _, s := range rejected {
		if IsAcceptable(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
	// Whole-line rules do not swallow real content that starts the same way.
	kept := []string{
		"Nothing significant to report. But later, Russian forces advanced.",
		"See topline text. Additional reporting follows.",
		"Ukrainian Operations in the Russian Federation",
	}
	for _, s := range kept {
		if !IsAcceptable(s) {
			t.Fatalf("expected %q to be accepted", s)
		}
	}
}

func TestIsAcceptable_AnchoredAtStart(t *testing.T) {
	if !IsAcceptable("Russian forces attacked near Pokrovsk.[3] Note: unconfirmed.") {
		t.Fatal("boilerplate in the middle must not reject the fragment")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Russian forces advanced.[1][22]\n", "Russian forces advanced."},
		{"line one\nline two", "line one line two"},
		{"a[[1]2]b", "ab"},
		{"crlf\r\nsplit", "crlf split"},
		{"[x] stays", "[x] stays"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  plain  ",
		"Text[1] with\n\nbreaks[23]\n",
		"[[[1]2]3]nested",
		"\n[4]\n",
		"mixed\r\nendings\n[5] ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNew_ExtraPatterns(t *testing.T) {
	f, err := New("Editor's note", "^Subscribe")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Acceptable("Editor's note: this report\nwas delayed") {
		t.Fatal("extra pattern should reject")
	}
	if f.Acceptable("Subscribe to updates") {
		t.Fatal("pre-anchored extra pattern should reject")
	}
	if !f.Acceptable("Please Subscribe") {
		t.Fatal("extra patterns must be anchored at the start")
	}
	if got := len(f.Rules()); got != len(DefaultRules)+2 {
		t.Fatalf("rules=%d, want %d", got, len(DefaultRules)+2)
	}
	r, ok := f.Match("Note: x")
	if !ok || r.Name != "note" {
		t.Fatalf("expected default rules to run first, got %+v", r)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New("([unclosed")
	if err == nil || !strings.Contains(err.Error(), "filter pattern 0") {
		t.Fatalf("expected compile error, got %v", err)
	}
}

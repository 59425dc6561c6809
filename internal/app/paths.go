package app

import (
    "path/filepath"
    "strings"
    "unicode"

    "golang.org/x/text/runes"
    "golang.org/x/text/transform"
    "golang.org/x/text/unicode/norm"
)

// deriveOutputPath returns the WAV path for a briefing titled title: the
// explicit output path when set, otherwise <dir>/<slug>.wav.
func deriveOutputPath(cfg Config, title string) string {
    if p := strings.TrimSpace(cfg.OutputPath); p != "" {
        return p
    }
    root := strings.TrimSpace(cfg.OutputDir)
    if root == "" { root = defaultOutputDir }
    slug := slugify(title)
    if slug == "" { slug = "briefing" }
    return filepath.Join(root, slug+".wav")
}

// slugify lowercases s, folds accents to their base letters and joins the
// remaining letter and digit runs with single hyphens.
func slugify(s string) string {
    fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
    folded, _, err := transform.String(fold, s)
    if err != nil { folded = s }
    var b strings.Builder
    dash := false
    for _, r := range strings.ToLower(folded) {
        if unicode.IsLetter(r) || unicode.IsDigit(r) {
            if dash && b.Len() > 0 { b.WriteByte('-') }
            b.WriteRune(r)
            dash = false
            continue
        }
        dash = true
    }
    out := []rune(b.String())
    if len(out) > 96 {
        out = out[:96]
    }
    return strings.TrimRight(string(out), "-")
}

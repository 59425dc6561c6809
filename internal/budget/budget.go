// Package budget estimates whether a chat prompt fits a model's context
// window. Estimates are character based and deliberately pessimistic.
package budget

import (
    "math"
    "strings"
)

// charsPerToken is the usual rule of thumb for English prose.
const charsPerToken = 4

// EstimateTokens returns ceil(len(s)/4), at least 1 for non-empty s.
func EstimateTokens(s string) int {
    if s == "" {
        return 0
    }
    return int(math.Ceil(float64(len(s)) / charsPerToken))
}

// EstimateMessages sums the estimates of each message plus a small framing
// overhead per message.
func EstimateMessages(contents ...string) int {
    total := 0
    for _, c := range contents {
        total += EstimateTokens(c) + 4
    }
    return total
}

// ContextTokens returns the context window of model, or a conservative 8192
// when the model is unknown.
func ContextTokens(model string) int {
    name := strings.ToLower(strings.TrimSpace(model))
    if v, ok := knownContext[name]; ok {
        return v
    }
    for _, p := range knownPrefixes {
        if strings.HasPrefix(name, p.prefix) {
            return p.tokens
        }
    }
    if strings.HasSuffix(name, "128k") {
        return 128_000
    }
    return 8192
}

// Headroom is the larger of 5% of the window or 512 tokens, covering
// tokenizer drift between this estimate and the real count.
func Headroom(model string) int {
    h := int(math.Ceil(float64(ContextTokens(model)) * 0.05))
    if h < 512 {
        return 512
    }
    return h
}

// Remaining returns the input tokens left after reserving output and
// headroom. It is never negative.
func Remaining(model string, reservedOutput, promptTokens int) int {
    if reservedOutput < 0 {
        reservedOutput = 0
    }
    r := ContextTokens(model) - Headroom(model) - reservedOutput - promptTokens
    if r < 0 {
        return 0
    }
    return r
}

// Fits reports whether promptTokens plus reservedOutput fit model.
func Fits(model string, reservedOutput, promptTokens int) bool {
    return Remaining(model, reservedOutput, promptTokens) > 0
}

var knownContext = map[string]int{
    "gpt-4o":        128_000,
    "gpt-4o-mini":   128_000,
    "gpt-4-turbo":   128_000,
    "gpt-4":         8_192,
    "gpt-3.5-turbo": 16_384,
    "llama-3":       8_192,
    "llama-3.1":     128_000,
}

var knownPrefixes = []struct {
    prefix string
    tokens int
}{
    {"gpt-4.1", 1_000_000},
    {"gpt-4o", 128_000},
    {"gpt-5", 400_000},
    {"o1", 200_000},
    {"o3", 200_000},
}

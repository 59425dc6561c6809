package summarize

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    openai "github.com/sashabaranov/go-openai"
    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/reportcast/internal/article"
    "github.com/hyperifyio/reportcast/internal/budget"
    "github.com/hyperifyio/reportcast/internal/cache"
    "github.com/hyperifyio/reportcast/internal/llm"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gpt-4o"

// DefaultSystemPrompt asks for a faithful condensation, not a rewrite.
const DefaultSystemPrompt = "Summarize the given conflict report in a concise and digestible way. All important details must be kept. Do not change the wording, or even speculate, on ANYTHING. This is an update, not an overview, you are writing for those already familiar with the conflict."

// ErrEmptySummary indicates the model returned no usable text.
var ErrEmptySummary = errors.New("empty summary")

// Summarizer writes the efforts summary with an OpenAI-compatible chat model.
type Summarizer struct {
    Client llm.Client
    Model  string
    // SystemPrompt, when non-empty, overrides DefaultSystemPrompt.
    SystemPrompt string
    Cache        *cache.LLMCache
    // CacheOnly returns from cache and fails fast on a miss.
    CacheOnly bool
    // Timeout bounds each model call when positive.
    Timeout time.Duration
    // MaxTokens defaults to 2048.
    MaxTokens int
}

// Summarize sends the events body as the user turn, the existing events
// summary as the assistant turn, and the efforts body as the follow-up, so
// the model matches the house style of the published summary.
func (s *Summarizer) Summarize(ctx context.Context, d article.Digest) (string, error) {
    if s.Client == nil {
        return "", errors.New("summarizer not configured")
    }
    req := s.request(d)
    key := cache.KeyFrom(req.Model, promptKey(req.Messages))

    if s.Cache != nil {
        if raw, ok, _ := s.Cache.Get(ctx, key); ok {
            var out struct {
                Summary string `json:"summary"`
            }
            if err := json.Unmarshal(raw, &out); err == nil && strings.TrimSpace(out.Summary) != "" {
                log.Debug().Str("stage", "summarize").Msg("summary served from cache")
                return out.Summary, nil
            }
        }
    }
    if s.CacheOnly {
        return "", fmt.Errorf("%w: cache-only mode and no cached summary", ErrEmptySummary)
    }

    prompt := budget.EstimateMessages(req.Messages[0].Content, d.Events, d.EventsSummary, d.Efforts)
    if !budget.Fits(req.Model, req.MaxTokens, prompt) {
        // Context sizes of local models are guessed, so let the server decide.
        log.Warn().Str("model", req.Model).Int("prompt_tokens", prompt).Int("context", budget.ContextTokens(req.Model)).
            Msg("summary prompt may exceed the model context")
    }
    log.Debug().Str("stage", "summarize").Str("model", req.Model).Int("prompt_tokens", prompt).
        Int("events_len", len(d.Events)).Int("summary_len", len(d.EventsSummary)).Int("efforts_len", len(d.Efforts)).
        Msg("requesting efforts summary")

    resp, err := s.call(ctx, req)
    if err != nil {
        // One short retry; the caller's context still bounds it.
        select {
        case <-ctx.Done():
            return "", fmt.Errorf("summary call: %w", err)
        case <-time.After(retryDelay):
        }
        resp, err = s.call(ctx, req)
        if err != nil {
            return "", fmt.Errorf("summary call (after retry): %w", err)
        }
    }
    if len(resp.Choices) == 0 {
        return "", ErrEmptySummary
    }
    out := strings.TrimSpace(resp.Choices[0].Message.Content)
    if out == "" {
        return "", ErrEmptySummary
    }
    if s.Cache != nil {
        payload, _ := json.Marshal(map[string]string{"summary": out})
        if err := s.Cache.Save(ctx, key, payload); err != nil {
            log.Warn().Err(err).Msg("summary cache save failed")
        }
    }
    return out, nil
}

var retryDelay = 100 * time.Millisecond

func (s *Summarizer) call(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
    if s.Timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, s.Timeout)
        defer cancel()
    }
    return s.Client.CreateChatCompletion(ctx, req)
}

func (s *Summarizer) request(d article.Digest) openai.ChatCompletionRequest {
    model := strings.TrimSpace(s.Model)
    if model == "" {
        model = DefaultModel
    }
    system := DefaultSystemPrompt
    if strings.TrimSpace(s.SystemPrompt) != "" {
        system = s.SystemPrompt
    }
    maxTokens := s.MaxTokens
    if maxTokens <= 0 {
        maxTokens = 2048
    }
    return openai.ChatCompletionRequest{
        Model: model,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleSystem, Content: system},
            {Role: openai.ChatMessageRoleUser, Content: d.Events},
            {Role: openai.ChatMessageRoleAssistant, Content: d.EventsSummary},
            {Role: openai.ChatMessageRoleUser, Content: d.Efforts},
        },
        Temperature: 1,
        TopP:        1,
        MaxTokens:   maxTokens,
        N:           1,
    }
}

func promptKey(msgs []openai.ChatCompletionMessage) string {
    var b strings.Builder
    for _, m := range msgs {
        b.WriteString(m.Role)
        b.WriteString(": ")
        b.WriteString(m.Content)
        b.WriteString("\n\n")
    }
    return b.String()
}

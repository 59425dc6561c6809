package llm

import (
    "context"
    "io"
    "net/http"

    openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed to call a chat model. It mirrors
// the go-openai method so any OpenAI-compatible backend can be adapted.
type Client interface {
    CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// SpeechClient turns text into encoded audio.
type SpeechClient interface {
    Speech(ctx context.Context, request openai.CreateSpeechRequest) ([]byte, error)
}

// ModelLister is an optional capability that allows listing available models.
// Callers should use a type assertion to detect availability.
type ModelLister interface {
    ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to Client, SpeechClient and ModelLister.
type OpenAIProvider struct {
    Inner *openai.Client
}

// NewOpenAIProvider builds a provider for an OpenAI-compatible endpoint. An
// empty baseURL keeps the library default.
func NewOpenAIProvider(apiKey, baseURL string, httpClient *http.Client) *OpenAIProvider {
    cfg := openai.DefaultConfig(apiKey)
    if baseURL != "" {
        cfg.BaseURL = baseURL
    }
    if httpClient != nil {
        cfg.HTTPClient = httpClient
    }
    return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
    return p.Inner.CreateChatCompletion(ctx, request)
}

// Speech reads the whole audio body; clips are bounded by the 4096 character
// input limit so they fit comfortably in memory.
func (p *OpenAIProvider) Speech(ctx context.Context, request openai.CreateSpeechRequest) ([]byte, error) {
    resp, err := p.Inner.CreateSpeech(ctx, request)
    if err != nil {
        return nil, err
    }
    defer resp.Close()
    return io.ReadAll(resp)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
    return p.Inner.ListModels(ctx)
}

package llm

import (
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"

    openai "github.com/sashabaranov/go-openai"
)

func TestOpenAIProvider_SpeechReadsBody(t *testing.T) {
    var got map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/v1/audio/speech" {
            http.NotFound(w, r)
            return
        }
        b, _ := io.ReadAll(r.Body)
        _ = json.Unmarshal(b, &got)
        w.Header().Set("Content-Type", "audio/wav")
        _, _ = w.Write([]byte("RIFFdata"))
    }))
    defer srv.Close()

    p := NewOpenAIProvider("key", srv.URL+"/v1", srv.Client())
    data, err := p.Speech(context.Background(), openai.CreateSpeechRequest{
        Model:          "tts-1-hd",
        Input:          "hello",
        Voice:          "onyx",
        ResponseFormat: openai.SpeechResponseFormat("wav"),
    })
    if err != nil {
        t.Fatalf("speech: %v", err)
    }
    if string(data) != "RIFFdata" {
        t.Fatalf("data=%q", data)
    }
    if got["input"] != "hello" || got["voice"] != "onyx" || got["response_format"] != "wav" {
        t.Fatalf("request body=%v", got)
    }
}

func TestOpenAIProvider_ChatUsesBaseURL(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer key" {
            http.Error(w, "unexpected", http.StatusBadRequest)
            return
        }
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
    }))
    defer srv.Close()

    var c Client = NewOpenAIProvider("key", srv.URL+"/v1", nil)
    resp, err := c.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
        Model:    "m",
        Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
    })
    if err != nil {
        t.Fatalf("chat: %v", err)
    }
    if resp.Choices[0].Message.Content != "ok" {
        t.Fatalf("content=%q", resp.Choices[0].Message.Content)
    }
}

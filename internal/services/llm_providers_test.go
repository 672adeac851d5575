package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicProviderComplete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"), r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "Nice commit. Said no one."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 8}
		}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider("sk-ant-test", "claude-3-haiku-20240307", server.URL)
	assert.True(t, provider.Supports("claude-3-5-sonnet-latest"))
	assert.False(t, provider.Supports("gpt-4o"))

	text, err := provider.Complete(context.Background(), CompletionRequest{
		System:      "be mean",
		Prompt:      "roast this",
		MaxTokens:   100,
		Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nice commit. Said no one.", text)

	assert.Equal(t, "claude-3-haiku-20240307", body["model"])
	assert.EqualValues(t, 100, body["max_tokens"])
	assert.NotNil(t, body["system"])
}

func TestAnthropicProviderError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider("sk-ant-test", "claude-3-haiku-20240307", server.URL)
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "roast this", MaxTokens: 10})
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "anthropic", upstream.Service)
	assert.Equal(t, 529, upstream.StatusCode)
	assert.Equal(t, 1, calls, "failed calls are not retried")
}

func TestOpenAIProviderComplete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-openai-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "git push --force-feelings"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("sk-openai-test", "gpt-3.5-turbo", server.URL+"/v1/")
	assert.True(t, provider.Supports("gpt-4o"))
	assert.True(t, provider.Supports("o3-mini"))
	assert.False(t, provider.Supports("claude-3-opus"))

	text, err := provider.Complete(context.Background(), CompletionRequest{
		System: "be mean",
		Prompt: "roast this",
		Model:  "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, "git push --force-feelings", text)

	assert.Equal(t, "gpt-4o", body["model"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestOpenAIProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("sk-openai-test", "gpt-3.5-turbo", server.URL+"/v1")
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "roast this"})
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "openai", upstream.Service)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, "Rate limit reached", upstream.Message)
}

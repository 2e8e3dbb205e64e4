package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAzureChatClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("api-key"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "write a passage", req.Messages[0].Content)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: "The cat sat on the mat."}}},
		})
	}))
	defer srv.Close()

	c := NewAzureChatClient(srv.URL, "secret")
	out, err := c.Complete(context.Background(), "write a passage")
	require.NoError(t, err)
	assert.Equal(t, "The cat sat on the mat.", out)
	assert.Equal(t, "azure", c.Name())
}

func TestAzureChatClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				io.WriteString(w, "quota")
			},
			want: "azure openai chat api error 429: quota",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"choices":[]}`)
			},
			want: "no choices",
		},
		{
			name: "bad body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `not json`)
			},
			want: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewAzureChatClient(srv.URL, "secret").Complete(context.Background(), "p")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestAzureChatClientNotConfigured(t *testing.T) {
	_, err := NewAzureChatClient("", "").Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "not configured")
}

func TestOpenAIClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "compare these", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"overallFeedback\":\"ok\",\"mistakes\":[]}"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClientWithBaseURL("sk-test", srv.URL+"/v1").WithModel("gpt-test")
	out, err := c.Complete(context.Background(), "compare these")
	require.NoError(t, err)
	assert.Equal(t, `{"overallFeedback":"ok","mistakes":[]}`, out)
	assert.Equal(t, "gpt-test", c.Model())
}

func TestOpenAIClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAIClientWithBaseURL("sk-bad", srv.URL+"/v1").Complete(context.Background(), "p")
	assert.Error(t, err)
}

func TestGeminiClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"The cat sat on the mat. It was warm."}]}}]}`)
	}))
	defer srv.Close()

	c, err := NewGeminiClientWithBaseURL(context.Background(), "test-key", srv.URL)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "write")
	require.NoError(t, err)
	assert.Equal(t, "The cat sat on the mat. It was warm.", out)
	assert.Equal(t, "gemini", c.Name())
}

func TestGenerativeAIClientRequiresKey(t *testing.T) {
	_, err := NewGenerativeAIClient(context.Background(), "")
	assert.ErrorContains(t, err, "api key")
}

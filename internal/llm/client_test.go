package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollama(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Model: "tiny", Timeout: 5 * time.Second})
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, "llama3.2:3b", c.Model())
	assert.Equal(t, "http://localhost:11434", c.baseURL)
	assert.Equal(t, 60*time.Second, c.httpClient.Timeout)
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Model: "tiny", Response: "  hello there \n", Done: true})
	})

	text, err := c.Generate(context.Background(), "be small", "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)

	assert.Equal(t, "tiny", got.Model)
	assert.Equal(t, "be small", got.System)
	assert.Equal(t, "say hi", got.Prompt)
	assert.False(t, got.Stream)
	assert.Empty(t, got.Format)
	assert.Equal(t, maxTokens, got.Options.NumPredict)
}

func TestGenerateJSONSetsFormat(t *testing.T) {
	var got generateRequest
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: `{"say":"hi"}`, Done: true})
	})

	text, err := c.GenerateJSON(context.Background(), "", "p")
	require.NoError(t, err)
	assert.Equal(t, `{"say":"hi"}`, text)
	assert.Equal(t, "json", got.Format)
}

func TestGenerateEmptyResponse(t *testing.T) {
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "   ", Done: true})
	})

	_, err := c.Generate(context.Background(), "", "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateBadStatus(t *testing.T) {
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := c.Generate(context.Background(), "", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestGenerateMalformedBody(t *testing.T) {
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Generate(context.Background(), "", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestGenerateHonorsContext(t *testing.T) {
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Generate(ctx, "", "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckModel(t *testing.T) {
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"big"},{"name":"tiny"}]}`))
	})

	found, available, err := c.CheckModel(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"big", "tiny"}, available)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestCheckModelMissing(t *testing.T) {
	c := ollama(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"big"}]}`))
	})

	found, available, err := c.CheckModel(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{"big"}, available)
}

func TestPingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second})
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to Ollama")
}

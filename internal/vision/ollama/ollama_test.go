package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/staycheck/internal/vision"
)

func TestOllamaAnalyze(t *testing.T) {
	// Create a test server that mimics Ollama
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model  string   `json:"model"`
			Prompt string   `json:"prompt"`
			Images []string `json:"images"`
			Format string   `json:"format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "llava", req.Model)
		assert.Equal(t, "json", req.Format)
		assert.Len(t, req.Images, 1)
		assert.Contains(t, req.Prompt, "- Coffee Maker")

		resp := map[string]interface{}{
			"model":    req.Model,
			"response": `{"missing_items":["coffee maker"],"damage_detected":["chipped mug"],"cleanliness_issues":[],"condition_score":6}`,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG header
	result, err := analyzer.Analyze(context.Background(), bytes.NewReader(imageData), "image/jpeg",
		vision.Request{RoomName: "Kitchen", ExpectedItems: []string{"Coffee Maker"}})

	require.NoError(t, err)
	assert.Equal(t, []any{"coffee maker"}, result.Payload["missing_items"])
	assert.Equal(t, []any{"chipped mug"}, result.Payload["damage_detected"])
	assert.Equal(t, 6.0, result.Payload["condition_score"])
}

func TestOllamaAnalyzeNetworkError(t *testing.T) {
	analyzer := NewOllamaAnalyzer("http://localhost:99999", "llava")

	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	_, err := analyzer.Analyze(context.Background(), bytes.NewReader(imageData), "image/jpeg", vision.Request{})

	assert.Error(t, err)
}

func TestOllamaAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	_, err := analyzer.Analyze(context.Background(), bytes.NewReader(imageData), "image/jpeg", vision.Request{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, vision.ErrMalformedResponse)
}

func TestOllamaAnalyzeNonJSONReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"The room looks fine."}`))
	}))
	defer server.Close()

	analyzer := NewOllamaAnalyzer(server.URL, "llava")

	_, err := analyzer.Analyze(context.Background(), bytes.NewReader([]byte{0xFF}), "image/jpeg", vision.Request{})
	assert.ErrorIs(t, err, vision.ErrMalformedResponse)
}

func TestOllamaAnalyzeReadError(t *testing.T) {
	analyzer := NewOllamaAnalyzer("http://localhost:11434", "llava")

	_, err := analyzer.Analyze(context.Background(), failingReader{}, "image/jpeg", vision.Request{})

	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.AIConfig{
		BaseURL:        server.URL,
		Model:          "test-model",
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func modelReply(text string) []byte {
	payload, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return payload
}

func TestAnalyzeParsesModelOutput(t *testing.T) {
	var gotPrompt string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text
		w.Write(modelReply(validTriageJSON)) //nolint:errcheck
	})

	result := client.Analyze(context.Background(), 42, "DB timeout", "queries hang")

	require.NotNil(t, result)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
	assert.Contains(t, gotPrompt, "Ticket No.: 42")
	assert.Contains(t, gotPrompt, "Title: DB timeout")
	assert.Contains(t, gotPrompt, "Description: queries hang")
}

func TestAnalyzeFencedAndUnfencedAreEquivalent(t *testing.T) {
	replies := []string{
		validTriageJSON,
		"```json\n" + validTriageJSON + "\n```",
	}

	var results []*TriageResult
	for _, reply := range replies {
		reply := reply
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write(modelReply(reply)) //nolint:errcheck
		})
		results = append(results, client.Analyze(context.Background(), 1, "t", "d"))
	}

	require.NotNil(t, results[0])
	assert.Equal(t, results[0], results[1])
}

func TestAnalyzeReturnsNilOnGarbage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(modelReply("I could not produce JSON, sorry!")) //nolint:errcheck
	})

	assert.Nil(t, client.Analyze(context.Background(), 1, "t", "d"))
}

func TestAnalyzeReturnsNilOnServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	assert.Nil(t, client.Analyze(context.Background(), 1, "t", "d"))
}

func TestAnalyzeReturnsNilOnEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`)) //nolint:errcheck
	})

	assert.Nil(t, client.Analyze(context.Background(), 1, "t", "d"))
}

func TestAnalyzeReturnsNilOnUnreachableService(t *testing.T) {
	client := NewClient(config.AIConfig{
		BaseURL:        "http://127.0.0.1:1",
		Model:          "test-model",
		TimeoutSeconds: 1,
	}, zap.NewNop())

	assert.Nil(t, client.Analyze(context.Background(), 1, "t", "d"))
}

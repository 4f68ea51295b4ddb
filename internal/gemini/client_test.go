package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemal8976/personal-webhook/internal/common/config"
	"github.com/hemal8976/personal-webhook/internal/common/logger"
)

func TestParseExtractionHappyPath(t *testing.T) {
	payload := `{"summary": "short recap", "action_items": [
		{"task": "Ship the release", "owner": "Sunil", "due_date": "2026-03-10", "priority": "high", "confidence": 0.9, "evidence": "we ship friday"}
	]}`

	ext := ParseExtraction(payload)

	assert.Equal(t, "short recap", ext.Summary)
	require.Len(t, ext.Items, 1)
	item := ext.Items[0]
	assert.Equal(t, "Ship the release", item.Task)
	assert.Equal(t, "Sunil", item.Owner)
	assert.Equal(t, "2026-03-10", item.DueDate)
	assert.Equal(t, PriorityHigh, item.Priority)
	assert.InDelta(t, 0.9, item.Confidence, 0.0001)
	assert.Equal(t, "we ship friday", item.Evidence)
}

func TestParseExtractionUnwrapsFencedCodeBlock(t *testing.T) {
	payload := "```json\n{\"summary\": \"s\", \"action_items\": [{\"task\": \"Do it\"}]}\n```"

	ext := ParseExtraction(payload)

	assert.Equal(t, "s", ext.Summary)
	require.Len(t, ext.Items, 1)
	assert.Equal(t, "Do it", ext.Items[0].Task)
}

func TestParseExtractionFieldDefaults(t *testing.T) {
	payload := `{"action_items": [
		{"task": "Follow up", "priority": "urgent", "confidence": "not a number"},
		{"task": "Escalate", "confidence": 7},
		{"task": "Defuse", "confidence": -2}
	]}`

	ext := ParseExtraction(payload)

	require.Len(t, ext.Items, 3)
	assert.Equal(t, "Unassigned", ext.Items[0].Owner)
	assert.Equal(t, PriorityMedium, ext.Items[0].Priority)
	assert.Equal(t, 0.0, ext.Items[0].Confidence)
	assert.Equal(t, 1.0, ext.Items[1].Confidence)
	assert.Equal(t, 0.0, ext.Items[2].Confidence)
}

func TestParseExtractionDropsEmptyTaskText(t *testing.T) {
	payload := `{"action_items": [{"task": "  "}, {"owner": "x"}, {"task": "Keep me"}]}`

	ext := ParseExtraction(payload)

	require.Len(t, ext.Items, 1)
	assert.Equal(t, "Keep me", ext.Items[0].Task)
}

func TestParseExtractionMalformedPayloadYieldsEmptyResult(t *testing.T) {
	ext := ParseExtraction("the model rambled instead of returning JSON")

	assert.Empty(t, ext.Summary)
	assert.Empty(t, ext.Items)
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.ExtractionConfig{
		APIKey:              "test-key",
		Model:               "gemini-2.0-flash",
		BaseURL:             baseURL,
		Timeout:             5,
		TranscriptCharLimit: 200,
	}, logger.NewTestLogger(t))
}

func TestExtractActionItemsCallsGenerateContent(t *testing.T) {
	var gotPath string
	var gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		gotPrompt = req.Contents[0].Parts[0].Text

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{
					{"text": `{"summary": "ok", "action_items": [{"task": "Send notes", "confidence": 0.7}]}`},
				}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	ext, err := client.ExtractActionItems(context.Background(), "Weekly Sync", []string{"Sunil", "Hemal"}, "short transcript")

	require.NoError(t, err)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Contains(t, gotPrompt, "Meeting title: Weekly Sync")
	assert.Contains(t, gotPrompt, "Sunil, Hemal")
	assert.Contains(t, gotPrompt, "short transcript")
	require.Len(t, ext.Items, 1)
	assert.Equal(t, "Send notes", ext.Items[0].Task)
}

func TestExtractActionItemsCapsTranscript(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Contents[0].Parts[0].Text
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": `{"action_items": []}`}}}},
			},
		})
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	long := strings.Repeat("a", 5000)
	_, err := client.ExtractActionItems(context.Background(), "t", nil, long)

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "[transcript truncated]")
	assert.NotContains(t, gotPrompt, strings.Repeat("a", 201))
}

func TestExtractActionItemsSurfacesRemoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.ExtractActionItems(context.Background(), "t", nil, "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExtractActionItemsNoCandidatesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.ExtractActionItems(context.Background(), "t", nil, "x")

	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.True(t, testClient(t, "http://x").Configured())

	unconfigured := NewClient(config.ExtractionConfig{Timeout: 1}, logger.NewNoOpLogger())
	assert.False(t, unconfigured.Configured())
}

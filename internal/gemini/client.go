// Package gemini turns a meeting transcript into a structured list of
// candidate action items using the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hemal8976/personal-webhook/internal/common/config"
	"github.com/hemal8976/personal-webhook/internal/common/httpx"
	"github.com/hemal8976/personal-webhook/internal/common/logger"
)

const (
	// PriorityHigh, PriorityMedium, and PriorityLow are the only accepted
	// item priorities; anything else defaults to medium.
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	transcriptTruncationNote = "\n[transcript truncated]"
)

// ActionItem is one extracted candidate task. Field defaults follow the
// extraction contract: unknown owner becomes "Unassigned", invalid priority
// becomes medium, invalid confidence becomes 0 and is clamped to [0, 1].
type ActionItem struct {
	Task       string  `json:"task"`
	Owner      string  `json:"owner"`
	DueDate    string  `json:"due_date,omitempty"`
	Priority   string  `json:"priority"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence,omitempty"`
}

// Extraction is the full extraction result.
type Extraction struct {
	Summary string       `json:"summary"`
	Items   []ActionItem `json:"action_items"`
}

type Client struct {
	apiKey          string
	model           string
	baseURL         string
	transcriptLimit int
	httpClient      *httpx.Client
	logger          logger.Logger
}

func NewClient(cfg config.ExtractionConfig, log logger.Logger) *Client {
	return &Client{
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		baseURL:         cfg.BaseURL,
		transcriptLimit: cfg.TranscriptCharLimit,
		httpClient:      httpx.NewClient(time.Duration(cfg.Timeout) * time.Second),
		logger:          log.WithFields(map[string]interface{}{"component": "gemini"}),
	}
}

// Configured reports whether an extraction credential is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   genConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractActionItems sends the capped transcript plus meeting context to
// Gemini and parses the returned JSON tolerantly. One attempt, no retries.
func (c *Client) ExtractActionItems(ctx context.Context, title string, participants []string, transcript string) (*Extraction, error) {
	prompt := c.buildPrompt(title, participants, transcript)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config: genConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response carried no candidates")
	}

	extraction := ParseExtraction(parsed.Candidates[0].Content.Parts[0].Text)
	c.logger.Info("Extraction completed", map[string]interface{}{
		"items": len(extraction.Items),
	})
	return extraction, nil
}

func (c *Client) buildPrompt(title string, participants []string, transcript string) string {
	if c.transcriptLimit > 0 {
		runes := []rune(transcript)
		if len(runes) > c.transcriptLimit {
			transcript = string(runes[:c.transcriptLimit]) + transcriptTruncationNote
		}
	}

	var parts []string
	parts = append(parts, "You extract action items from meeting transcripts.")
	parts = append(parts, fmt.Sprintf("\nMeeting title: %s", title))
	if len(participants) > 0 {
		parts = append(parts, fmt.Sprintf("Participants: %s", strings.Join(participants, ", ")))
	}
	parts = append(parts, "\nTranscript:")
	parts = append(parts, transcript)
	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Identify concrete action items with a clear owner where possible")
	parts = append(parts, "- Keep each task under 140 characters")
	parts = append(parts, "- Use \"Unassigned\" when no owner is identifiable")
	parts = append(parts, "- Use ISO dates (YYYY-MM-DD) for due dates, omit when unknown")
	parts = append(parts, "- Priority must be one of: high, medium, low")
	parts = append(parts, "- Confidence is a number between 0.0 and 1.0")
	parts = append(parts, "- Evidence is a short supporting quote from the transcript")
	parts = append(parts, "\nReturn only JSON with this shape:")
	parts = append(parts, `{"summary": "...", "action_items": [{"task": "...", "owner": "...", "due_date": "...", "priority": "...", "confidence": 0.0, "evidence": "..."}]}`)

	return strings.Join(parts, "\n")
}

// ParseExtraction parses the model's JSON payload, tolerating a fenced
// code block wrapper and defaulting any field that fails its contract.
// Items with empty task text are dropped.
func ParseExtraction(text string) *Extraction {
	payload := stripFence(text)
	root := gjson.Parse(payload)

	out := &Extraction{Summary: root.Get("summary").String()}
	for _, raw := range root.Get("action_items").Array() {
		task := strings.TrimSpace(raw.Get("task").String())
		if task == "" {
			continue
		}

		owner := strings.TrimSpace(raw.Get("owner").String())
		if owner == "" {
			owner = "Unassigned"
		}

		priority := strings.ToLower(strings.TrimSpace(raw.Get("priority").String()))
		switch priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			priority = PriorityMedium
		}

		confidence := raw.Get("confidence").Float()
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}

		out.Items = append(out.Items, ActionItem{
			Task:       task,
			Owner:      owner,
			DueDate:    strings.TrimSpace(raw.Get("due_date").String()),
			Priority:   priority,
			Confidence: confidence,
			Evidence:   raw.Get("evidence").String(),
		})
	}
	return out
}

// stripFence unwraps ```json ... ``` style fencing around the payload.
func stripFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if idx := strings.Index(t, "\n"); idx >= 0 {
		t = t[idx+1:]
	} else {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

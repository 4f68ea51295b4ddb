// Package clickup is a minimal ClickUp API client covering the two call
// families the webhook needs: list comments and task creation.
package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hemal8976/personal-webhook/internal/common/errors"
	"github.com/hemal8976/personal-webhook/internal/common/httpx"
)

const defaultBaseURL = "https://api.clickup.com/api/v2"

type Client struct {
	baseURL    string
	httpClient *httpx.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpx.NewClient(timeout),
	}
}

// CommentBlock is one span of a ClickUp rich-text comment. Attributes may
// carry "bold" and "link" keys; an empty map renders plain text.
type CommentBlock struct {
	Text       string                 `json:"text"`
	Attributes map[string]interface{} `json:"attributes"`
}

type commentRequest struct {
	Comment   []CommentBlock `json:"comment"`
	NotifyAll bool           `json:"notify_all"`
}

type commentResponse struct {
	ID json.Number `json:"id"`
}

// PostComment posts a rich-text comment to a list and returns the opaque
// comment id. Non-2xx responses surface the remote error message.
func (c *Client) PostComment(ctx context.Context, token, listID string, blocks []CommentBlock, notifyAll bool) (string, error) {
	url := fmt.Sprintf("%s/list/%s/comment", c.baseURL, listID)

	body, err := json.Marshal(commentRequest{Comment: blocks, NotifyAll: notifyAll})
	if err != nil {
		return "", fmt.Errorf("failed to marshal comment: %w", err)
	}

	respBody, err := c.post(ctx, url, token, body)
	if err != nil {
		return "", err
	}

	var resp commentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal comment response: %w", err)
	}
	return resp.ID.String(), nil
}

// TaskRequest is the task-creation payload. A non-empty Parent makes the
// created task a subtask.
type TaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Assignees   []int  `json:"assignees,omitempty"`
	Status      string `json:"status,omitempty"`
	Parent      string `json:"parent,omitempty"`
}

type taskResponse struct {
	ID string `json:"id"`
}

// CreateTask creates a task (or subtask) in a list and returns its id.
// A 2xx response without an id is a distinct protocol error.
func (c *Client) CreateTask(ctx context.Context, token, listID string, task TaskRequest) (string, error) {
	url := fmt.Sprintf("%s/list/%s/task", c.baseURL, listID)

	body, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task: %w", err)
	}

	respBody, err := c.post(ctx, url, token, body)
	if err != nil {
		return "", err
	}

	var resp taskResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal task response: %w", err)
	}
	if resp.ID == "" {
		return "", errors.NewTaskServiceNoIDError(listID)
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, url, token string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("clickup returned status %d: %s", resp.StatusCode, remoteMessage(respBody))
	}
	return respBody, nil
}

// remoteMessage extracts ClickUp's error message ({"err": ..., "ECODE": ...})
// and falls back to the raw body.
func remoteMessage(body []byte) string {
	var parsed struct {
		Err   string `json:"err"`
		Ecode string `json:"ECODE"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Err != "" {
		if parsed.Ecode != "" {
			return fmt.Sprintf("%s (%s)", parsed.Err, parsed.Ecode)
		}
		return parsed.Err
	}
	return string(body)
}

// internal/notify/notify.go
//
// Redeploy webhook client. One POST, success on 200/201, best-effort
// extraction of a deployment id from the JSON response. Callers treat every
// error here as a warning: redeployment never fails a build.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const maxResponseBody = 1 << 20

// WebhookError represents a non-success response from the deploy hook.
type WebhookError struct {
	StatusCode int
	Body       []byte
}

func (e *WebhookError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("deploy hook returned %d: %s", e.StatusCode, body)
}

// Client triggers redeployments through a webhook URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient validates the webhook URL and builds the HTTP client. An
// optional SLIPWAY_HTTP_TIMEOUT_SECONDS overrides the default timeout.
func NewClient(rawURL string) (*Client, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid redeploy URL: %w", err)
	}

	timeout := 10 * time.Second
	if s := os.Getenv("SLIPWAY_HTTP_TIMEOUT_SECONDS"); s != "" {
		if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
			timeout = time.Duration(seconds) * time.Second
		}
	}

	return &Client{
		url:        rawURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// TriggerDeploy POSTs the webhook and returns the deployment id when the
// response carries one. Any status other than 200/201 is an error.
func (c *Client) TriggerDeploy(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build deploy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deploy hook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &WebhookError{StatusCode: resp.StatusCode, Body: body}
	}
	return deployID(body), nil
}

// deployID pulls an id out of the response body. The hook has no defined
// schema, so parse failures just mean no id.
func deployID(body []byte) string {
	var payload struct {
		ID     any `json:"id"`
		Deploy struct {
			ID any `json:"id"`
		} `json:"deploy"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, v := range []any{payload.ID, payload.Deploy.ID} {
		if v == nil {
			continue
		}
		if s := fmt.Sprintf("%v", v); s != "" {
			return s
		}
	}
	return ""
}

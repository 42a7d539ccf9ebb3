package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single question round trip
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of an upstream body is read
const maxResponseBytes = 10 << 20

// Config holds query service client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the natural-language query service over HTTP.
// The service answers POST /query {"query": "..."} with {"sql": "...", "rows": [...]}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new query service client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

// Answer sends question to the service and returns its answer with the
// response body preserved in Raw
func (c *Client) Answer(ctx context.Context, question string) (*entity.ChatAnswer, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: base url not configured", port.ErrUpstreamUnavailable)
	}

	body, err := json.Marshal(queryRequest{Query: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrUpstreamUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Query service request failed",
			zap.String("url", c.baseURL),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", port.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", port.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := &port.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody, resp.StatusCode),
		}
		c.logger.Warn("Query service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstreamErr.Message))
		return nil, upstreamErr
	}

	if !json.Valid(respBody) {
		c.logger.Error("Query service returned invalid JSON",
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(respBody)))
		return nil, &port.UpstreamError{
			StatusCode: http.StatusBadGateway,
			Message:    "invalid response from query service",
		}
	}

	var answer entity.ChatAnswer
	if err := json.Unmarshal(respBody, &answer); err != nil {
		// Still relayed as-is; only the summary fields stay empty.
		c.logger.Debug("Query service answer has an unexpected shape", zap.Error(err))
		answer = entity.ChatAnswer{}
	}
	answer.Raw = json.RawMessage(respBody)

	c.logger.Debug("Query service answered",
		zap.Int("rows", len(answer.Rows)),
		zap.Duration("elapsed", time.Since(start)))

	return &answer, nil
}

// extractMessage pulls a human-readable message out of an error body.
// It tries "detail", "message" and "error" (string or {"message": ...}),
// then the raw text, then the HTTP status text.
func extractMessage(body []byte, status int) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if msg := messageFrom(payload[key]); msg != "" {
				return msg
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

// Verify interface compliance
var _ port.QueryAnswerer = (*Client)(nil)

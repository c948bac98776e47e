// Package remote implements the oracle contracts over HTTP JSON services.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talent-backend/internal/oracle"
)

const defaultTimeout = 60 * time.Second

// Client calls external extraction and scoring services.
type Client struct {
	extractURL string
	scoreURL   string
	httpClient *http.Client
}

// New constructs a remote oracle client. Either URL may be empty if the
// corresponding capability is unused.
func New(extractURL, scoreURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		extractURL: strings.TrimSpace(extractURL),
		scoreURL:   strings.TrimSpace(scoreURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	DocumentID string `json:"documentId"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Text       string `json:"text"`
}

type extractResponse struct {
	Fields      oracle.Profile `json:"fields"`
	SkillTokens []string       `json:"skillTokens"`
	Error       string         `json:"error,omitempty"`
}

// Extract submits the document to the extraction service. Resubmission with
// the same document id is idempotent on the service side.
func (c *Client) Extract(ctx context.Context, ref oracle.DocumentRef) (oracle.Profile, error) {
	if c.extractURL == "" {
		return oracle.Profile{}, fmt.Errorf("extraction oracle url not configured")
	}

	var resp extractResponse
	if err := c.post(ctx, c.extractURL, extractRequest{
		DocumentID: ref.DocumentID,
		FileName:   ref.FileName,
		MimeType:   ref.MimeType,
		Text:       ref.RawText,
	}, &resp); err != nil {
		return oracle.Profile{}, err
	}
	if resp.Error != "" {
		return oracle.Profile{}, fmt.Errorf("%w: %s", oracle.ErrMalformedContent, resp.Error)
	}

	profile := resp.Fields
	if len(resp.SkillTokens) > 0 {
		profile.SkillTokens = resp.SkillTokens
	}
	return profile, nil
}

type scoreRequest struct {
	Profile      oracle.Profile  `json:"profile"`
	ModelVersion string          `json:"modelVersion"`
	Params       json.RawMessage `json:"params,omitempty"`
}

// Score submits the profile to the scoring service.
func (c *Client) Score(ctx context.Context, profile oracle.Profile, modelVersion string, params json.RawMessage) (oracle.ScoreResult, error) {
	if c.scoreURL == "" {
		return oracle.ScoreResult{}, fmt.Errorf("scoring oracle url not configured")
	}

	var result oracle.ScoreResult
	if err := c.post(ctx, c.scoreURL, scoreRequest{
		Profile:      profile,
		ModelVersion: modelVersion,
		Params:       params,
	}, &result); err != nil {
		return oracle.ScoreResult{}, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read oracle response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http status %d", oracle.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: http status %d: %s", oracle.ErrMalformedContent, resp.StatusCode, truncate(raw, 200))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("oracle http status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode oracle response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

var (
	_ oracle.Extractor = (*Client)(nil)
	_ oracle.Scorer    = (*Client)(nil)
)

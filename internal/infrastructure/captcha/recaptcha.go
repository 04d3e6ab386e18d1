// Package captcha verifies reCAPTCHA response tokens against Google's
// siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	defaultTimeout   = 5 * time.Second
)

// Config captures the settings for the reCAPTCHA client.
type Config struct {
	SecretKey string
	VerifyURL string
	// MinScore applies to v3 responses only; zero accepts any score.
	MinScore float64
	Timeout  time.Duration
}

// Client implements ports.CaptchaVerifier for reCAPTCHA v2 and v3.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a Client. Defaults are applied for an empty VerifyURL and
// a non-positive Timeout.
func NewClient(cfg Config) *Client {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether token is a valid, unexpired response. Transport
// failures and non-200 replies are returned as errors.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", c.cfg.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("recaptcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("recaptcha verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("recaptcha verify: unexpected status %d", resp.StatusCode)
	}

	var out siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("recaptcha decode: %w", err)
	}

	if !out.Success {
		return false, nil
	}
	if out.Score != nil && *out.Score < c.cfg.MinScore {
		return false, nil
	}
	return true, nil
}

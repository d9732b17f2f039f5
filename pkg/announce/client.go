// Package announce posts best-effort announcements (new stores, new products)
// to an external social feed over an OAuth1-signed session. One Client is
// constructed at startup and shared by all requests; its session state is set
// once and read-only afterwards, so concurrent Announce calls are safe.
package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dghubble/oauth1"

	"github.com/bazely/bazely-backend/pkg/logger"
)

// Client posts announcements to the configured feed. Use NewClient; the zero
// value is an inert client that skips every announcement.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates an announcer from the given configuration and
// authenticates immediately when all credentials are present. Missing
// credentials are not an error; the client just stays inert.
func NewClient(config Config) *Client {
	c := &Client{config: config}
	if !config.Configured() {
		logger.Warn("Feed announcer credentials not fully configured, announcements disabled", nil)
		return c
	}
	c.Authenticate()
	return c
}

// Authenticate establishes the OAuth1-signed session used for every outbound
// post. Returns false when credentials are incomplete; the client remains
// usable either way.
func (c *Client) Authenticate() bool {
	if !c.config.Configured() {
		logger.Warn("Feed announcer authentication skipped: credentials missing", nil)
		return false
	}

	oauthConfig := oauth1.NewConfig(c.config.ConsumerKey, c.config.ConsumerSecret)
	token := oauth1.NewToken(c.config.AccessToken, c.config.AccessTokenSecret)

	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	timeout := c.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient.Timeout = timeout

	c.httpClient = httpClient
	logger.Info("Feed announcer authenticated", map[string]interface{}{
		"base_url": c.config.BaseURL,
		"timeout":  timeout.String(),
	})
	return true
}

// Authenticated reports whether the client holds a signed session.
func (c *Client) Authenticated() bool {
	return c.httpClient != nil
}

// Announce posts a single message to the feed. Fire-and-forget: a skipped or
// failed announcement is logged and swallowed, never surfaced as an error.
// No retry, no queueing - the announcement is cosmetic.
func (c *Client) Announce(ctx context.Context, text string, mediaIDs ...string) Status {
	if !c.Authenticated() {
		logger.Debug("Feed announcer not authenticated, skipping announcement", nil)
		return StatusSkipped
	}

	payload := postPayload{Text: text}
	if len(mediaIDs) > 0 {
		payload.Media = &postMedia{MediaIDs: mediaIDs}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal announcement payload", err, nil)
		return StatusFailed
	}

	url := c.config.BaseURL + "/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to build announcement request", err, nil)
		return StatusFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Failed to post announcement", err, map[string]interface{}{
			"url": url,
		})
		return StatusFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error("Feed rejected announcement", nil, map[string]interface{}{
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		})
		return StatusFailed
	}

	logger.Info("Announcement posted", map[string]interface{}{
		"length": len(text),
	})
	return StatusPosted
}

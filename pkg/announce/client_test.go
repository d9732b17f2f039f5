package announce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullConfig(baseURL string) Config {
	return Config{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "ats",
		BaseURL:           baseURL,
		Timeout:           2 * time.Second,
	}
}

func TestConfigConfigured(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   bool
	}{
		{"all present", func(c *Config) {}, true},
		{"missing consumer key", func(c *Config) { c.ConsumerKey = "" }, false},
		{"missing consumer secret", func(c *Config) { c.ConsumerSecret = "" }, false},
		{"missing access token", func(c *Config) { c.AccessToken = "" }, false},
		{"missing token secret", func(c *Config) { c.AccessTokenSecret = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fullConfig("http://example.invalid")
			tt.mutate(&cfg)
			assert.Equal(t, tt.want, cfg.Configured())
		})
	}
}

func TestAnnounce_MissingSecretsNeverCallsOut(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	cfg := fullConfig(server.URL)
	cfg.AccessTokenSecret = ""

	client := NewClient(cfg)
	assert.False(t, client.Authenticated())

	status := client.Announce(context.Background(), "New Store Alert")
	assert.Equal(t, StatusSkipped, status)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestAnnounce_PostsSignedRequest(t *testing.T) {
	var gotAuth string
	var gotPayload postPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(fullConfig(server.URL))
	require.True(t, client.Authenticated())

	status := client.Announce(context.Background(), "New Store Alert", "media-1", "media-2")
	assert.Equal(t, StatusPosted, status)
	assert.True(t, strings.HasPrefix(gotAuth, "OAuth "), "expected an OAuth1-signed request, got %q", gotAuth)
	assert.Equal(t, "New Store Alert", gotPayload.Text)
	require.NotNil(t, gotPayload.Media)
	assert.Equal(t, []string{"media-1", "media-2"}, gotPayload.Media.MediaIDs)
}

func TestAnnounce_NoMediaOmitsMedia(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(fullConfig(server.URL))
	assert.Equal(t, StatusPosted, client.Announce(context.Background(), "hello"))
	_, hasMedia := gotBody["media"]
	assert.False(t, hasMedia)
}

func TestAnnounce_NonCreatedStatusFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(fullConfig(server.URL))
	assert.Equal(t, StatusFailed, client.Announce(context.Background(), "hello"))
}

func TestAnnounce_TransportErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewClient(fullConfig(server.URL))
	assert.Equal(t, StatusFailed, client.Announce(context.Background(), "hello"))
}

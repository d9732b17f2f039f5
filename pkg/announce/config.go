package announce

import "time"

// Config represents the configuration for the feed announcer.
type Config struct {
	// ConsumerKey / ConsumerSecret identify the application.
	ConsumerKey    string
	ConsumerSecret string

	// AccessToken / AccessTokenSecret identify the posting account.
	AccessToken       string
	AccessTokenSecret string

	// BaseURL is the posting API base URL, e.g. https://api.twitter.com/2
	BaseURL string

	// Timeout bounds each outbound post. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds the outbound post when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Configured reports whether all four credentials are present. A client built
// from an unconfigured Config stays inert: Announce becomes a no-op.
func (c *Config) Configured() bool {
	return c.ConsumerKey != "" &&
		c.ConsumerSecret != "" &&
		c.AccessToken != "" &&
		c.AccessTokenSecret != ""
}

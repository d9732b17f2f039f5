package announce

// Status is the outcome of an Announce call. Announce never returns an error:
// announcements are cosmetic and must not affect the operation that fired them.
type Status string

const (
	// StatusPosted means the feed accepted the announcement (HTTP 201).
	StatusPosted Status = "posted"
	// StatusSkipped means the client is unauthenticated and nothing was sent.
	StatusSkipped Status = "skipped"
	// StatusFailed means the outbound post was attempted and did not succeed.
	// The failure is logged and swallowed.
	StatusFailed Status = "failed"
)

type postPayload struct {
	Text  string     `json:"text"`
	Media *postMedia `json:"media,omitempty"`
}

type postMedia struct {
	MediaIDs []string `json:"media_ids"`
}

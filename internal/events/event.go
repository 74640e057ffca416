// Package events defines the notifications the HTTP boundary emits after a
// link is created or resolved.
package events

import "time"

const (
	TopicLinkCreated  = "link.created"
	TopicLinkResolved = "link.resolved"
)

// LinkCreated is emitted after a short code is issued.
type LinkCreated struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	Custom    bool      `json:"custom"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// LinkResolved is emitted after a code redirects.
type LinkResolved struct {
	Code       string    `json:"code"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Referrer   string    `json:"referrer,omitempty"`
}

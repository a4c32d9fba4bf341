package webclip

import "context"

// SessionState describes whether a platform currently has an
// authenticated session, plus whatever profile details the probe could
// recover. The conversion pipeline does not depend on this; it is a
// sibling capability exposed on the same surface.
type SessionState struct {
	Platform string `json:"platform"`
	LoggedIn bool   `json:"loggedIn"`
	UserID   string `json:"userId,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// SessionDetector probes a platform for an authenticated session.
type SessionDetector interface {
	// GetSessionState returns the session state for a platform id.
	// Returns ENOTFOUND for platforms the detector does not know.
	GetSessionState(ctx context.Context, platform string) (*SessionState, error)
}

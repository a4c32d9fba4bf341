package mock

import (
	"context"

	"github.com/mbalicki/webclip"
)

var _ webclip.SessionDetector = (*SessionDetector)(nil)

// SessionDetector is a mock implementation of webclip.SessionDetector.
type SessionDetector struct {
	GetSessionStateFn func(ctx context.Context, platform string) (*webclip.SessionState, error)
}

func (d *SessionDetector) GetSessionState(ctx context.Context, platform string) (*webclip.SessionState, error) {
	return d.GetSessionStateFn(ctx, platform)
}

package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mbalicki/webclip"
)

// Session probe timeout bounds. Probes are short-lived and issued
// sequentially per platform.
const (
	minProbeTimeout     = 1200 * time.Millisecond
	maxProbeTimeout     = 2500 * time.Millisecond
	defaultProbeTimeout = 2 * time.Second
)

// SessionEndpoint describes how to probe one platform: a profile API
// that returns user JSON only for an authenticated session.
type SessionEndpoint struct {
	Platform string
	URL      string
	Timeout  time.Duration
}

// DefaultSessionEndpoints returns probe endpoints for the built-in
// platforms.
func DefaultSessionEndpoints() []SessionEndpoint {
	return []SessionEndpoint{
		{Platform: "zhihu", URL: "https://www.zhihu.com/api/v4/me"},
		{Platform: "juejin", URL: "https://api.juejin.cn/user_api/v1/user/get"},
		{Platform: "segmentfault", URL: "https://segmentfault.com/api/user/me"},
		{Platform: "jianshu", URL: "https://www.jianshu.com/users/current"},
	}
}

// Ensure SessionProber implements webclip.SessionDetector at compile time.
var _ webclip.SessionDetector = (*SessionProber)(nil)

// SessionProber detects authenticated sessions by calling platform
// profile APIs with the ambient cookie jar. A failed or anonymous
// response is not an error: it reports LoggedIn=false.
type SessionProber struct {
	client    *http.Client
	endpoints map[string]SessionEndpoint
	order     []string
}

// ProberOption configures a SessionProber.
type ProberOption func(*SessionProber)

// WithClient replaces the HTTP client, e.g. to supply a cookie jar.
func WithClient(client *http.Client) ProberOption {
	return func(p *SessionProber) {
		p.client = client
	}
}

// NewSessionProber creates a prober for the given endpoints
// (DefaultSessionEndpoints when nil).
func NewSessionProber(endpoints []SessionEndpoint, opts ...ProberOption) *SessionProber {
	if endpoints == nil {
		endpoints = DefaultSessionEndpoints()
	}
	p := &SessionProber{
		client:    &http.Client{},
		endpoints: make(map[string]SessionEndpoint, len(endpoints)),
	}
	for _, ep := range endpoints {
		p.endpoints[ep.Platform] = ep
		p.order = append(p.order, ep.Platform)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetSessionState probes a single platform.
// Returns ENOTFOUND for platforms the prober does not know.
func (p *SessionProber) GetSessionState(ctx context.Context, platform string) (*webclip.SessionState, error) {
	ep, ok := p.endpoints[platform]
	if !ok {
		return nil, webclip.Errorf(webclip.ENOTFOUND, "unknown platform %q", platform)
	}

	state := &webclip.SessionState{Platform: platform}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout(ep.Timeout))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return state, nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return state, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return state, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return state, nil
	}
	fillProfile(state, body)
	return state, nil
}

// ProbeAll probes every known platform sequentially, in registration
// order. Probes are not parallelized: bursts of concurrent profile
// requests look like automation to the platforms being probed.
func (p *SessionProber) ProbeAll(ctx context.Context) []*webclip.SessionState {
	states := make([]*webclip.SessionState, 0, len(p.order))
	for _, platform := range p.order {
		if ctx.Err() != nil {
			break
		}
		state, err := p.GetSessionState(ctx, platform)
		if err != nil {
			continue
		}
		states = append(states, state)
	}
	return states
}

func probeTimeout(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return defaultProbeTimeout
	case d < minProbeTimeout:
		return minProbeTimeout
	case d > maxProbeTimeout:
		return maxProbeTimeout
	}
	return d
}

// profilePayload matches the common shape of platform profile APIs,
// including the data-envelope variant.
type profilePayload struct {
	ID        json.Number     `json:"id"`
	UID       string          `json:"uid"`
	Name      string          `json:"name"`
	Nickname  string          `json:"nickname"`
	UserName  string          `json:"user_name"`
	AvatarURL string          `json:"avatar_url"`
	Avatar    string          `json:"avatar"`
	Data      json.RawMessage `json:"data"`
}

func fillProfile(state *webclip.SessionState, body []byte) {
	var payload profilePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}
	if len(payload.Data) > 0 && payload.ID == "" && payload.UID == "" {
		// Envelope response: the profile lives one level down.
		inner := payload.Data
		payload = profilePayload{}
		if err := json.Unmarshal(inner, &payload); err != nil {
			return
		}
	}

	state.UserID = payload.UID
	if state.UserID == "" {
		state.UserID = payload.ID.String()
	}
	state.Nickname = firstNonEmpty(payload.Nickname, payload.Name, payload.UserName)
	state.Avatar = firstNonEmpty(payload.AvatarURL, payload.Avatar)
	state.LoggedIn = state.UserID != "" || state.Nickname != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

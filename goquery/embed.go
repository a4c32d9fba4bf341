package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// embedInfo describes a detected rich-media embed.
type embedInfo struct {
	Type     string // iframe, video, audio, linkCard
	URL      string
	Provider string
}

// providerHosts maps embed hostnames to provider tags. Subdomains match
// via suffix comparison.
var providerHosts = map[string]string{
	"youtube.com":          "youtube",
	"youtube-nocookie.com": "youtube",
	"youtu.be":             "youtube",
	"vimeo.com":            "vimeo",
	"bilibili.com":         "bilibili",
	"codepen.io":           "codepen",
	"jsfiddle.net":         "jsfiddle",
	"codesandbox.io":       "codesandbox",
	"twitter.com":          "twitter",
	"x.com":                "twitter",
	"open.spotify.com":     "spotify",
}

// detectEmbed recognizes iframe/video/audio elements and link-card
// anchors. Returns ok=false for everything else.
func detectEmbed(s *goquery.Selection) (embedInfo, bool) {
	switch nodeName(s) {
	case "iframe":
		src := s.AttrOr("src", "")
		if src == "" {
			return embedInfo{}, false
		}
		return embedInfo{Type: "iframe", URL: src, Provider: providerFor(src)}, true
	case "video", "audio":
		src := s.AttrOr("src", "")
		if src == "" {
			src = s.Find("source").First().AttrOr("src", "")
		}
		return embedInfo{Type: nodeName(s), URL: src, Provider: providerFor(src)}, true
	case "a":
		if !isLinkCard(s) {
			return embedInfo{}, false
		}
		href := s.AttrOr("href", "")
		return embedInfo{Type: "linkCard", URL: href, Provider: providerFor(href)}, true
	}
	return embedInfo{}, false
}

// isLinkCard matches platform link-card conventions: anchors rendered as
// rich preview cards rather than inline links.
func isLinkCard(s *goquery.Selection) bool {
	if s.AttrOr("data-draft-type", "") == "link-card" {
		return true
	}
	classes := " " + s.AttrOr("class", "") + " "
	for _, marker := range []string{"LinkCard", "link-card", "video-box", "bookmark"} {
		if strings.Contains(classes, " "+marker+" ") {
			return true
		}
	}
	return false
}

// providerFor matches a URL's hostname against the provider table.
func providerFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for candidate, provider := range providerHosts {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return provider
		}
	}
	return ""
}

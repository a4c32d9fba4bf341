package webclip

import "strings"

// PlatformRule describes how to locate article content on a known
// platform: a priority-ordered list of content selectors plus selectors
// for known noise to strip before extraction. Rules are configuration:
// loaded once, matched by URL substring, never mutated.
type PlatformRule struct {
	ID               string   `json:"id"`
	URLPatterns      []string `json:"urlPatterns"`
	ContentSelectors []string `json:"contentSelectors"`
	TitleSelector    string   `json:"titleSelector,omitempty"`
	RemoveSelectors  []string `json:"removeSelectors,omitempty"`
}

// Match reports whether pageURL belongs to this rule's platform.
func (r *PlatformRule) Match(pageURL string) bool {
	for _, pattern := range r.URLPatterns {
		if strings.Contains(pageURL, pattern) {
			return true
		}
	}
	return false
}

// MatchPlatformRule returns the first rule matching pageURL, or nil.
func MatchPlatformRule(rules []*PlatformRule, pageURL string) *PlatformRule {
	for _, rule := range rules {
		if rule.Match(pageURL) {
			return rule
		}
	}
	return nil
}

// DefaultPlatformRules returns the built-in rule table for platforms with
// known article markup. Selector order within a rule is significant: the
// first selector whose element exists and carries enough text wins.
func DefaultPlatformRules() []*PlatformRule {
	return []*PlatformRule{
		{
			ID:          "zhihu",
			URLPatterns: []string{"zhihu.com"},
			ContentSelectors: []string{
				".Post-RichTextContainer .RichText",
				".AnswerCard .RichContent-inner",
				".RichContent-inner .RichText",
			},
			TitleSelector: "h1.Post-Title, h1.QuestionHeader-title",
			RemoveSelectors: []string{
				".Reward", ".RichContent-actions", ".ContentItem-actions",
				".Recommendations-Main", ".Comments-container",
			},
		},
		{
			ID:          "juejin",
			URLPatterns: []string{"juejin.cn", "juejin.im"},
			ContentSelectors: []string{
				".article-viewer .markdown-body",
				"article.article .article-content",
			},
			TitleSelector: "h1.article-title",
			RemoveSelectors: []string{
				".article-suspended-panel", ".recommended-area", ".comment-list-box",
			},
		},
		{
			ID:          "csdn",
			URLPatterns: []string{"csdn.net"},
			ContentSelectors: []string{
				"#content_views",
				"article.baidu_pl",
			},
			TitleSelector: "h1.title-article",
			RemoveSelectors: []string{
				".hide-article-box", ".recommend-box", "#recommendNps", ".comment-box",
			},
		},
		{
			ID:          "jianshu",
			URLPatterns: []string{"jianshu.com"},
			ContentSelectors: []string{
				"article.article .show-content",
				"section article",
			},
			TitleSelector:   "h1.title, section h1",
			RemoveSelectors: []string{".support-author", ".follow-detail"},
		},
		{
			ID:          "segmentfault",
			URLPatterns: []string{"segmentfault.com"},
			ContentSelectors: []string{
				"article.article-content",
				".article.fmt",
			},
			TitleSelector:   "h1.h2",
			RemoveSelectors: []string{".article-bottom-actions", "#comments"},
		},
		{
			ID:          "weixin",
			URLPatterns: []string{"mp.weixin.qq.com"},
			ContentSelectors: []string{
				"#js_content",
				".rich_media_content",
			},
			TitleSelector:   "#activity-name",
			RemoveSelectors: []string{"#js_pc_qr_code", ".qr_code_pc_outer"},
		},
		{
			ID:          "medium",
			URLPatterns: []string{"medium.com"},
			ContentSelectors: []string{
				"article section",
				"article",
			},
			TitleSelector:   "article h1",
			RemoveSelectors: []string{".speechify-ignore"},
		},
		{
			ID:          "stackoverflow",
			URLPatterns: []string{"stackoverflow.com", "stackexchange.com"},
			ContentSelectors: []string{
				".answercell .s-prose",
				"#question .s-prose",
				".question .js-post-body",
			},
			TitleSelector: "#question-header h1",
			RemoveSelectors: []string{
				".js-post-menu", ".comments", ".bottom-notice", "#hot-network-questions",
			},
		},
		{
			ID:          "wikipedia",
			URLPatterns: []string{"wikipedia.org/wiki/"},
			ContentSelectors: []string{
				"#mw-content-text .mw-parser-output",
			},
			TitleSelector: "h1#firstHeading",
			RemoveSelectors: []string{
				".navbox", ".mw-editsection", ".reference", "#toc", ".sistersitebox",
			},
		},
	}
}

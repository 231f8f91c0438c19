// Package classify decides whether a pane URL is a feed/listing view or an
// individual content item. The judgment drives scroll-sync eligibility and
// focus dimming, so it fails open: anything we cannot parse or recognize is
// a feed, which never suppresses or dims.
package classify

import (
	"net/url"
	"strings"

	"github.com/bnema/socdeck/internal/domain/entity"
)

// authPrefixes are path prefixes for login and account flows. They are
// always classified as feed regardless of platform, so an auth redirect in
// the middle of reading never triggers dimming or sync suppression.
var authPrefixes = []string{
	"/login",
	"/signin",
	"/sign_in",
	"/sign-in",
	"/auth",
	"/oauth",
	"/i/flow",
	"/account",
	"/accounts",
	"/sessions",
	"/password",
}

// Classify returns the page kind for rawURL in the context of platform.
// Full navigations and same-document navigations classify identically.
func Classify(rawURL string, platform entity.Platform) entity.PageKind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return entity.PageFeed
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, prefix := range authPrefixes {
		if strings.HasPrefix(path, prefix) {
			return entity.PageFeed
		}
	}

	for _, pattern := range platform.DetailPatterns {
		if matchPattern(path, pattern) {
			return entity.PageDetail
		}
	}

	return entity.PageFeed
}

// matchPattern matches a URL path against a slash-separated pattern where
// "*" matches exactly one non-empty segment. The pattern matches as a
// prefix: "/r/*/comments/*" also matches the longer
// "/r/golang/comments/abc/some_title/".
func matchPattern(path, pattern string) bool {
	pathSegs := splitSegments(path)
	patSegs := splitSegments(pattern)

	if len(patSegs) == 0 || len(pathSegs) < len(patSegs) {
		return false
	}

	for i, pat := range patSegs {
		if pat == "*" {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if !matchSegment(pathSegs[i], pat) {
			return false
		}
	}
	return true
}

// matchSegment compares one path segment against one pattern segment,
// allowing an embedded "*" such as "@*" for Mastodon handles.
func matchSegment(seg, pat string) bool {
	star := strings.IndexByte(pat, '*')
	if star < 0 {
		return seg == pat
	}
	prefix, suffix := pat[:star], pat[star+1:]
	if len(seg) < len(prefix)+len(suffix) {
		return false
	}
	return strings.HasPrefix(seg, prefix) && strings.HasSuffix(seg, suffix)
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

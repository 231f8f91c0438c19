package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/socdeck/internal/domain/classify"
	"github.com/bnema/socdeck/internal/domain/entity"
)

func platformByName(t *testing.T, name string) entity.Platform {
	t.Helper()
	for _, p := range entity.DefaultPlatforms() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("unknown platform %q", name)
	return entity.Platform{}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		url      string
		want     entity.PageKind
	}{
		{name: "x home feed", platform: "x", url: "https://x.com/home", want: entity.PageFeed},
		{name: "x notifications", platform: "x", url: "https://x.com/notifications", want: entity.PageFeed},
		{name: "x status detail", platform: "x", url: "https://x.com/someuser/status/17283", want: entity.PageDetail},
		{name: "x status with photo suffix", platform: "x", url: "https://x.com/someuser/status/17283/photo/1", want: entity.PageDetail},
		{name: "x profile is feed", platform: "x", url: "https://x.com/someuser", want: entity.PageFeed},
		{name: "x login flow stays feed", platform: "x", url: "https://x.com/i/flow/login", want: entity.PageFeed},

		{name: "bluesky root", platform: "bluesky", url: "https://bsky.app/", want: entity.PageFeed},
		{name: "bluesky post detail", platform: "bluesky", url: "https://bsky.app/profile/ab.bsky.social/post/3kab", want: entity.PageDetail},
		{name: "bluesky profile is feed", platform: "bluesky", url: "https://bsky.app/profile/ab.bsky.social", want: entity.PageFeed},

		{name: "mastodon home", platform: "mastodon", url: "https://mastodon.social/home", want: entity.PageFeed},
		{name: "mastodon status detail", platform: "mastodon", url: "https://mastodon.social/@person/111234", want: entity.PageDetail},
		{name: "mastodon profile is feed", platform: "mastodon", url: "https://mastodon.social/@person", want: entity.PageFeed},

		{name: "reddit front page", platform: "reddit", url: "https://www.reddit.com/", want: entity.PageFeed},
		{name: "reddit subreddit listing", platform: "reddit", url: "https://www.reddit.com/r/golang/", want: entity.PageFeed},
		{name: "reddit comments detail", platform: "reddit", url: "https://www.reddit.com/r/golang/comments/abc123/title_text/", want: entity.PageDetail},

		{name: "hn front page", platform: "hackernews", url: "https://news.ycombinator.com/", want: entity.PageFeed},
		{name: "hn newest", platform: "hackernews", url: "https://news.ycombinator.com/newest", want: entity.PageFeed},
		{name: "hn item detail", platform: "hackernews", url: "https://news.ycombinator.com/item?id=39874", want: entity.PageDetail},

		{name: "auth prefix wins over detail pattern", platform: "reddit", url: "https://www.reddit.com/login/r/x/comments/1/t/", want: entity.PageFeed},
		{name: "unparseable fails open to feed", platform: "x", url: "http://%zz", want: entity.PageFeed},
		{name: "empty url is feed", platform: "x", url: "", want: entity.PageFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := platformByName(t, tt.platform)
			assert.Equal(t, tt.want, classify.Classify(tt.url, p))
		})
	}
}

// Package entity contains domain entities representing core business concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// Platform describes one feed source rendered in a pane.
// The set of platforms is fixed for the lifetime of the process.
type Platform struct {
	// Name is the short identifier used in config, logs and the UI.
	Name string
	// Origin is the URL loaded into the pane at startup. Navigation is
	// locked to this origin; anything else opens externally.
	Origin string
	// DetailPatterns are path patterns (see classify.Classify) that mark a
	// URL as an individual content item rather than a feed/listing view.
	DetailPatterns []string
}

// DefaultPlatforms returns the built-in platform set.
func DefaultPlatforms() []Platform {
	return []Platform{
		{
			Name:           "x",
			Origin:         "https://x.com/home",
			DetailPatterns: []string{"/*/status/*"},
		},
		{
			Name:           "bluesky",
			Origin:         "https://bsky.app",
			DetailPatterns: []string{"/profile/*/post/*"},
		},
		{
			Name:           "mastodon",
			Origin:         "https://mastodon.social/home",
			DetailPatterns: []string{"/@*/*", "/deck/@*/*"},
		},
		{
			Name:           "reddit",
			Origin:         "https://www.reddit.com",
			DetailPatterns: []string{"/r/*/comments/*", "/comments/*"},
		},
		{
			Name:           "hackernews",
			Origin:         "https://news.ycombinator.com",
			DetailPatterns: []string{"/item"},
		},
	}
}

// Package updater checks GitHub for newer socdeck releases.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/socdeck/internal/application/port"
	"github.com/bnema/socdeck/internal/logging"
)

const (
	// GitHub API endpoint for the latest release.
	githubAPIURL = "https://api.github.com/repos/bnema/socdeck/releases/latest"

	// Stable download URL for the latest release archive.
	downloadURL = "https://github.com/bnema/socdeck/releases/latest/download/socdeck_linux_amd64.tar.gz"

	apiTimeout = 10 * time.Second

	// Maximum API response size, well above any release document.
	maxResponseSize = 1 << 20
)

// githubRelease is the GitHub API response for a release.
type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
}

// GitHubChecker implements port.UpdateChecker against the GitHub API.
type GitHubChecker struct {
	client *http.Client
	apiURL string
	dlURL  string
}

var _ port.UpdateChecker = (*GitHubChecker)(nil)

// NewGitHubChecker creates a GitHub-based update checker.
func NewGitHubChecker() *GitHubChecker {
	return &GitHubChecker{
		client: &http.Client{Timeout: apiTimeout},
		apiURL: githubAPIURL,
		dlURL:  downloadURL,
	}
}

// CheckForUpdate fetches the latest release and compares versions. The
// release metadata and the asset probe run concurrently; an unreachable
// asset downgrades the report to "no update" since there is nothing to
// point the user at.
func (g *GitHubChecker) CheckForUpdate(ctx context.Context, currentVersion string) (*port.UpdateInfo, error) {
	log := logging.FromContext(ctx)

	// Dev builds have no meaningful version to compare.
	if currentVersion == "" || currentVersion == "dev" {
		log.Debug().Str("version", currentVersion).Msg("skipping update check for dev build")
		return &port.UpdateInfo{LatestVersion: currentVersion}, nil
	}

	var (
		release        githubRelease
		assetReachable bool
	)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		rel, err := g.fetchLatestRelease(grpCtx, currentVersion)
		if err != nil {
			return err
		}
		release = rel
		return nil
	})
	grp.Go(func() error {
		assetReachable = g.probeAsset(grpCtx)
		return nil
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")
	newer := compareVersions(current, latest) < 0

	if newer && !assetReachable {
		log.Debug().Str("latest", latest).Msg("release asset unreachable, suppressing update")
		newer = false
	}

	return &port.UpdateInfo{
		LatestVersion: latest,
		ReleaseURL:    release.HTMLURL,
		Notes:         release.Body,
		IsNewer:       newer,
	}, nil
}

func (g *GitHubChecker) fetchLatestRelease(ctx context.Context, currentVersion string) (githubRelease, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL, http.NoBody)
	if err != nil {
		return githubRelease{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "socdeck/"+currentVersion)

	resp, err := g.client.Do(req)
	if err != nil {
		return githubRelease{}, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return githubRelease{}, fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&release); err != nil {
		return githubRelease{}, fmt.Errorf("failed to decode release: %w", err)
	}
	return release, nil
}

// probeAsset checks that the latest release archive actually exists.
func (g *GitHubChecker) probeAsset(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, g.dlURL, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// compareVersions compares dotted versions, returning -1, 0 or 1. Missing
// parts count as zero; pre-release suffixes are stripped.
func compareVersions(v1, v2 string) int {
	p1 := versionParts(v1)
	p2 := versionParts(v2)

	for i := 0; i < 3; i++ {
		if p1[i] < p2[i] {
			return -1
		}
		if p1[i] > p2[i] {
			return 1
		}
	}
	return 0
}

func versionParts(v string) [3]int {
	if idx := strings.IndexAny(v, "-+"); idx >= 0 {
		v = v[:idx]
	}

	var parts [3]int
	for i, s := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(s)
		if err != nil {
			break
		}
		parts[i] = n
	}
	return parts
}

package port

import "context"

// UpdateInfo describes the latest available release.
type UpdateInfo struct {
	LatestVersion string
	ReleaseURL    string
	Notes         string
	IsNewer       bool
}

// UpdateChecker checks for available updates from a remote source.
//
// Check failures are a deliberate product choice, not an oversight: they
// are logged at debug level and never surfaced to the user. The shell is
// always-on; a broken update endpoint must not produce dialogs.
type UpdateChecker interface {
	CheckForUpdate(ctx context.Context, currentVersion string) (*UpdateInfo, error)
}

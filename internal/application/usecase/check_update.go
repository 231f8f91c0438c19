package usecase

import (
	"context"

	"github.com/bnema/socdeck/internal/application/port"
	"github.com/bnema/socdeck/internal/logging"
)

// CheckUpdateUseCase checks for a newer release in the background.
// Failures are swallowed after a debug log. Never surfacing update errors
// is the documented behavior of this shell, not a bug to fix.
type CheckUpdateUseCase struct {
	checker        port.UpdateChecker
	currentVersion string
}

// NewCheckUpdateUseCase creates a new check update use case.
func NewCheckUpdateUseCase(checker port.UpdateChecker, currentVersion string) *CheckUpdateUseCase {
	return &CheckUpdateUseCase{checker: checker, currentVersion: currentVersion}
}

// Execute runs the check. The returned info is nil when no update is
// available or the check failed.
func (uc *CheckUpdateUseCase) Execute(ctx context.Context) *port.UpdateInfo {
	log := logging.FromContext(ctx)

	if uc.checker == nil {
		return nil
	}

	info, err := uc.checker.CheckForUpdate(ctx, uc.currentVersion)
	if err != nil {
		log.Debug().Err(err).Msg("update check failed, suppressed")
		return nil
	}
	if info == nil || !info.IsNewer {
		return nil
	}

	log.Info().
		Str("current", uc.currentVersion).
		Str("latest", info.LatestVersion).
		Msg("update available")

	return info
}

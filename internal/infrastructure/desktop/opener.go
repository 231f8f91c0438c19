// Package desktop integrates with the user's desktop environment.
package desktop

import (
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/socdeck/internal/application/port"
	"github.com/bnema/socdeck/internal/logging"
)

const openTimeout = 10 * time.Second

// Opener hands URLs to xdg-open. Fire-and-forget: the deck never blocks on
// or surfaces launcher failures.
type Opener struct {
	logger zerolog.Logger
	// run is swappable for tests.
	run func(ctx context.Context, url string) error
}

var _ port.URLOpener = (*Opener)(nil)

// NewOpener creates an xdg-open based opener.
func NewOpener(ctx context.Context) *Opener {
	return &Opener{
		logger: logging.FromContext(ctx).With().Str("component", "desktop-opener").Logger(),
		run: func(ctx context.Context, url string) error {
			return exec.CommandContext(ctx, "xdg-open", url).Run()
		},
	}
}

// OpenExternal opens url in the user's default handler.
func (o *Opener) OpenExternal(url string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()

		if err := o.run(ctx, url); err != nil {
			o.logger.Warn().Err(err).Str("url", url).Msg("xdg-open failed")
			return
		}
		o.logger.Debug().Str("url", url).Msg("opened externally")
	}()
}

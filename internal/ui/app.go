// Package ui wires the GTK application, the main window and the pane
// coordinator together.
package ui

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/bnema/socdeck/internal/app/messaging"
	"github.com/bnema/socdeck/internal/application/usecase"
	"github.com/bnema/socdeck/internal/config"
	"github.com/bnema/socdeck/internal/domain/entity"
	"github.com/bnema/socdeck/internal/infrastructure/desktop"
	"github.com/bnema/socdeck/internal/infrastructure/settings"
	"github.com/bnema/socdeck/internal/infrastructure/updater"
	webkitinfra "github.com/bnema/socdeck/internal/infrastructure/webkit"
	"github.com/bnema/socdeck/internal/logging"
	"github.com/bnema/socdeck/internal/ui/coordinator"
	"github.com/bnema/socdeck/internal/ui/geometry"
	"github.com/bnema/socdeck/internal/ui/scrollsync"
	"github.com/bnema/socdeck/internal/ui/window"
)

// AppID is the application identifier for GTK.
const AppID = "com.github.bnema.socdeck"

// App wraps the GTK application and manages the deck's lifecycle.
type App struct {
	ctx        context.Context
	cfgManager *config.Manager
	version    string
	logger     zerolog.Logger

	gtkApp     *gtk.Application
	mainWindow *window.MainWindow
	coord      *coordinator.Coordinator
	panes      []*webkitinfra.Pane
}

// New creates the application shell. Run starts it.
func New(ctx context.Context, cfgManager *config.Manager, version string) *App {
	return &App{
		ctx:        ctx,
		cfgManager: cfgManager,
		version:    version,
		logger:     logging.FromContext(ctx).With().Str("component", "app").Logger(),
	}
}

// Run enters the GTK main loop and blocks until the window closes.
func (a *App) Run() int {
	a.gtkApp = gtk.NewApplication(AppID, gio.ApplicationFlagsNone)
	a.gtkApp.ConnectActivate(func() {
		if err := a.activate(); err != nil {
			a.logger.Error().Err(err).Msg("activation failed")
			a.gtkApp.Quit()
		}
	})
	a.gtkApp.ConnectShutdown(func() {
		if a.coord != nil {
			a.coord.Stop()
		}
	})

	return a.gtkApp.Run(nil)
}

func (a *App) activate() error {
	cfg := a.cfgManager.Get()
	platforms := cfg.PlatformEntities()
	set := entity.NewPaneSet(platforms)

	settingsPath, err := config.GetSettingsFile()
	if err != nil {
		return err
	}

	a.coord = coordinator.New(a.ctx, set, coordinator.Deps{
		Store:         settings.NewStore(a.ctx, settingsPath, len(platforms)),
		Opener:        desktop.NewOpener(a.ctx),
		Geometry:      geometry.New(cfg.Layout.GapPx, cfg.Layout.MinRenderWidthPx),
		ScrollConfig:  scrollConfig(cfg),
		HeaderHeight:  cfg.Layout.HeaderHeightPx,
		DimmedOpacity: cfg.Focus.DimmedOpacity,
	})

	a.mainWindow, err = window.New(a.ctx, a.gtkApp, a.coord)
	if err != nil {
		return err
	}

	for i := range platforms {
		if err := a.attachPane(i); err != nil {
			return err
		}
	}

	a.mainWindow.SyncToggleStates(a.coord.Flags())
	a.mainWindow.Show()

	a.cfgManager.OnConfigChange(func(*config.Config) {
		// Scroll timings and layout constants apply on next start; the
		// reload keeps long-running sessions from failing on save.
		a.logger.Info().Msg("config reloaded, restart to apply layout and timing changes")
	})
	a.cfgManager.Watch(a.ctx)

	if cfg.Update.CheckOnStartup {
		go a.checkForUpdate()
	}

	a.logger.Info().Int("panes", len(platforms)).Msg("deck ready")
	return nil
}

// attachPane creates the web view for source index and wires its bridge
// traffic into the coordinator.
func (a *App) attachPane(index int) error {
	pane, err := webkitinfra.NewPane(a.ctx, webkitinfra.Callbacks{
		OnMessage: func(raw string) {
			a.dispatchFromPane(index, raw)
		},
		DecideNavigation: func(url string) bool {
			return a.coord.DecideNavigation(a.ctx, index, url)
		},
		OnNavigated: func(url string) {
			a.coord.HandleNavigation(a.ctx, index, url)
		},
	})
	if err != nil {
		return err
	}

	pane.AttachTo(a.mainWindow.Canvas())
	a.coord.AttachPane(a.ctx, index, pane)
	a.panes = append(a.panes, pane)
	return nil
}

// dispatchFromPane routes a raw bridge envelope and, when the handler
// produced a response, sends it back to the originating pane under the
// same message type.
func (a *App) dispatchFromPane(index int, raw string) {
	var msg messaging.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		a.logger.Warn().Err(err).Int("pane_index", index).Msg("malformed bridge envelope")
		return
	}
	// The connection identifies the sender; never trust the JS-side index.
	msg.ViewIndex = index

	resp, ok := a.coord.Router().Dispatch(a.ctx, msg)
	if !ok || index >= len(a.panes) {
		return
	}

	reply, err := messaging.New(msg.Type, resp)
	if err != nil {
		a.logger.Error().Err(err).Str("type", msg.Type).Msg("failed to build response")
		return
	}
	a.panes[index].Send(reply)
}

func (a *App) checkForUpdate() {
	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	uc := usecase.NewCheckUpdateUseCase(updater.NewGitHubChecker(), a.version)
	if info := uc.Execute(ctx); info != nil {
		a.logger.Info().Str("url", info.ReleaseURL).Msg("a newer release is available")
	}
}

func scrollConfig(cfg *config.Config) scrollsync.Config {
	sc := scrollsync.DefaultConfig()
	sc.NoiseThreshold = cfg.Scroll.NoiseThreshold
	sc.SenderDebounce = time.Duration(cfg.Scroll.SenderDebounceMs) * time.Millisecond
	sc.ReceiverDebounce = time.Duration(cfg.Scroll.ReceiverDebounceMs) * time.Millisecond
	sc.AnimationDuration = time.Duration(cfg.Scroll.AnimationMs) * time.Millisecond
	sc.SyncedEpsilon = cfg.Scroll.SyncedEpsilon
	return sc
}

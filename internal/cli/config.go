package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/socdeck/internal/cli/styles"
	"github.com/bnema/socdeck/internal/config"
)

// newConfigCmd groups the configuration helpers.
func newConfigCmd(theme *styles.Theme) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage the configuration",
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the paths socdeck reads and writes",
		RunE: func(_ *cobra.Command, _ []string) error {
			configFile, err := config.GetConfigFile()
			if err != nil {
				return err
			}
			settingsFile, err := config.GetSettingsFile()
			if err != nil {
				return err
			}
			logDir, err := config.GetLogDir()
			if err != nil {
				return err
			}

			fmt.Println(theme.Subtle.Render("config:   ") + configFile)
			fmt.Println(theme.Subtle.Render("settings: ") + settingsFile)
			fmt.Println(theme.Subtle.Render("logs:     ") + logDir)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}
			if err := manager.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := manager.Get()

			fmt.Println(theme.Title.Render("Layout"))
			fmt.Printf("  gap %dpx, min render %dpx, header %dpx\n",
				cfg.Layout.GapPx, cfg.Layout.MinRenderWidthPx, cfg.Layout.HeaderHeightPx)
			fmt.Println(theme.Title.Render("Scroll"))
			fmt.Printf("  noise %.0fpx, sender debounce %dms, receiver debounce %dms, animation %dms, epsilon %.0fpx\n",
				cfg.Scroll.NoiseThreshold, cfg.Scroll.SenderDebounceMs,
				cfg.Scroll.ReceiverDebounceMs, cfg.Scroll.AnimationMs, cfg.Scroll.SyncedEpsilon)
			fmt.Println(theme.Title.Render("Focus"))
			fmt.Printf("  dimmed opacity %.2f\n", cfg.Focus.DimmedOpacity)
			fmt.Println(theme.Title.Render("Logging"))
			fmt.Printf("  level %s, format %s\n", cfg.Logging.Level, cfg.Logging.Format)
			fmt.Println(theme.Title.Render("Platforms"))
			for i, p := range cfg.PlatformEntities() {
				fmt.Printf("  %d  %s  %s\n", i, p.Name, p.Origin)
			}
			return nil
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Regenerate the JSON schema for the config file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.EnsureDirectories(); err != nil {
				return err
			}
			if err := config.GenerateSchemaFile(); err != nil {
				return err
			}
			configDir, _ := config.GetConfigDir()
			fmt.Println(theme.Highlight.Render("schema written to ") + configDir)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd, schemaCmd)
	return configCmd
}

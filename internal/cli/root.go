// Package cli provides the command-line interface for socdeck.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/socdeck/internal/cli/styles"
)

// BuildInfo carries version metadata set at link time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// NewRootCmd creates the root command. runGUI launches the deck window and
// returns its exit code; the CLI stays out of GTK entirely.
func NewRootCmd(info BuildInfo, runGUI func() int) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "socdeck",
		Short: "A multi-column social feed deck",
		Long:  "Socdeck renders your social feeds side by side in synchronized, resizable columns.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code := runGUI()
			if code != 0 {
				return fmt.Errorf("socdeck exited with code %d", code)
			}
			return nil
		},
	}

	theme := styles.NewTheme()

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(theme.Title.Render("socdeck ") + theme.Highlight.Render(info.Version))
			fmt.Println(theme.Subtle.Render("commit: ") + info.Commit)
			fmt.Println(theme.Subtle.Render("built:  ") + info.BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newPlatformsCmd(theme))
	rootCmd.AddCommand(newConfigCmd(theme))

	return rootCmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/socdeck/internal/cli/styles"
	"github.com/bnema/socdeck/internal/config"
)

// newPlatformsCmd lists the configured deck: each platform with its origin
// and detail patterns.
func newPlatformsCmd(theme *styles.Theme) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the configured feed columns",
		RunE: func(_ *cobra.Command, _ []string) error {
			manager, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}
			if err := manager.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			platforms := manager.Get().PlatformEntities()
			fmt.Println(theme.Title.Render("Deck"))
			for i, p := range platforms {
				badge := theme.Badge.Render(fmt.Sprintf(" %d ", i))
				fmt.Printf("%s %s\n", badge, theme.Highlight.Render(p.Name))
				fmt.Printf("    %s %s\n", theme.Subtle.Render("origin:"), p.Origin)
				if len(p.DetailPatterns) > 0 {
					fmt.Printf("    %s %s\n", theme.Subtle.Render("detail:"), strings.Join(p.DetailPatterns, ", "))
				}
			}
			return nil
		},
	}
}

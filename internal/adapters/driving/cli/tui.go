package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui"
	"github.com/custodia-labs/octoscope/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Type to search; results load as you type and more pages are fetched as you
scroll towards the end of the list.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Search / Open repository
  /        - New search
  h        - Hot this week
  s        - Star / unstar (detail view)
  o        - Open in browser (detail view)
  r        - Retry a failed page
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Repos:     repoService,
		NewDetail: newRepoDetail,
		Settings:  settingsService,
		Session:   sessionFeed,
		OpenURL:   openBrowser,
		Logger:    logger.Logger(),
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

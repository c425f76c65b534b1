// Package cli implements the octoscope command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
	"github.com/custodia-labs/octoscope/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	repoService     driving.RepoService
	issueService    driving.IssueService
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	newRepoDetail   func() driving.RepoDetail
	sessionFeed     tui.SessionFeed
	responseCache   CachePurger
)

// CachePurger removes every stored HTTP response and ETag.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// Services bundles the driving ports the commands use.
type Services struct {
	Repos    driving.RepoService
	Issues   driving.IssueService
	Session  driving.SessionService
	Settings driving.SettingsService

	// NewDetail returns an empty detail holder. Each command or screen that
	// shows a repository gets its own.
	NewDetail func() driving.RepoDetail

	// SessionFeed reports logins and logouts to long-running screens.
	SessionFeed tui.SessionFeed

	// Cache is the local HTTP response cache.
	Cache CachePurger
}

var rootCmd = &cobra.Command{
	Use:   "octoscope",
	Short: "Browse GitHub from the terminal",
	Long: `octoscope searches GitHub repositories, shows what is hot this week,
stars repositories and files issues from the terminal.

Search responses are cached locally and revalidated with ETags, so
repeated queries are cheap on your rate limit.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// SetServices configures the services used by the commands.
func SetServices(s Services) {
	repoService = s.Repos
	issueService = s.Issues
	sessionService = s.Session
	settingsService = s.Settings
	newRepoDetail = s.NewDetail
	sessionFeed = s.SessionFeed
	responseCache = s.Cache
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the octoscope version, the platform and the GitHub API it talks to.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("octoscope version %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		if settingsService != nil {
			cmd.Printf("api: %s\n", settingsService.Get().APIBaseURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"settings"},
	Short:   "Manage application settings",
	Long: `View and change octoscope settings.

Settings are stored in ~/.octoscope/config.toml. The environment variables
OCTOSCOPE_API_URL, OCTOSCOPE_CLIENT_ID and OCTOSCOPE_CLIENT_SECRET take
precedence over the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Run 'octoscope config keys' to list the keys.

Examples:
  octoscope config set pagination.page_size 50
  octoscope config set api.url https://github.example.com/api/v3/`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settable keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  URL: %s\n", settings.APIBaseURL)
	cmd.Printf("  Requests per second: %g\n", settings.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Pagination]")
	cmd.Printf("  Page size: %d\n", settings.PageSize)
	cmd.Printf("  Prefetch threshold: %d rows\n", settings.PrefetchThreshold)
	cmd.Printf("  Prefetch ratio: %g\n", settings.PrefetchRatio)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Debounce: %s\n", settings.Debounce)
	cmd.Printf("  Cache max age: %s\n", settings.CacheMaxAge)
	cmd.Println()

	cmd.Println("[OAuth]")
	if settings.ClientID != "" {
		cmd.Printf("  Client ID: %s\n", settings.ClientID)
	} else {
		cmd.Println("  Client ID: (not set)")
	}
	if settings.ClientSecret != "" {
		cmd.Printf("  Client secret: %s\n", maskSecret(settings.ClientSecret))
	} else {
		cmd.Println("  Client secret: (not set)")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

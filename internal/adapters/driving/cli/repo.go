package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

var repoJSON bool

var repoCmd = &cobra.Command{
	Use:   "repo <owner/name>",
	Short: "Show a repository",
	Long: `Shows a repository's details. When logged in, also shows whether you
have starred it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRepo,
}

var starCmd = &cobra.Command{
	Use:   "star <owner/name>",
	Short: "Star a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStar(cmd, args[0], true)
	},
}

var unstarCmd = &cobra.Command{
	Use:   "unstar <owner/name>",
	Short: "Remove your star from a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStar(cmd, args[0], false)
	},
}

func init() {
	repoCmd.Flags().BoolVar(&repoJSON, "json", false, "output the repository as JSON")
	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(starCmd)
	rootCmd.AddCommand(unstarCmd)
}

func loadRepo(cmd *cobra.Command, arg string) (driving.RepoDetail, domain.RepoSummary, error) {
	if newRepoDetail == nil {
		return nil, domain.RepoSummary{}, errors.New("repository service not configured")
	}
	ref, err := domain.ParseRepoRef(arg)
	if err != nil {
		return nil, domain.RepoSummary{}, err
	}

	detail := newRepoDetail()
	repo, err := detail.Load(cmd.Context(), ref)
	if err != nil {
		return nil, domain.RepoSummary{}, fmt.Errorf("failed to load repository: %w", err)
	}
	return detail, repo, nil
}

func runRepo(cmd *cobra.Command, args []string) error {
	_, repo, err := loadRepo(cmd, args[0])
	if err != nil {
		return err
	}

	if repoJSON {
		return outputJSON(cmd, repo)
	}

	cmd.Println(repo.FullName)
	if repo.Description != "" {
		cmd.Printf("  %s\n", repo.Description)
	}
	cmd.Println()
	cmd.Printf("  Stars:       %d\n", repo.Stars)
	cmd.Printf("  Forks:       %d\n", repo.Forks)
	cmd.Printf("  Open issues: %d\n", repo.OpenIssues)
	if repo.Language != "" {
		cmd.Printf("  Language:    %s\n", repo.Language)
	}
	if !repo.UpdatedAt.IsZero() {
		cmd.Printf("  Updated:     %s\n", repo.UpdatedAt.Format("2006-01-02"))
	}
	cmd.Printf("  URL:         %s\n", repo.HTMLURL)
	if sessionService != nil && sessionService.IsAuthenticated() {
		cmd.Printf("  Starred:     %s\n", yesNo(repo.IsStarred))
	}
	return nil
}

func setStar(cmd *cobra.Command, arg string, star bool) error {
	if sessionService != nil && !sessionService.IsAuthenticated() {
		return fmt.Errorf("starring requires login, run 'octoscope auth login': %w", domain.ErrAuth)
	}

	detail, repo, err := loadRepo(cmd, arg)
	if err != nil {
		return err
	}

	if repo.IsStarred == star {
		if star {
			cmd.Printf("%s is already starred.\n", repo.FullName)
		} else {
			cmd.Printf("%s is not starred.\n", repo.FullName)
		}
		return nil
	}

	repo, err = detail.ToggleStar(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to update star: %w", err)
	}

	if repo.IsStarred {
		cmd.Printf("Starred %s.\n", repo.FullName)
	} else {
		cmd.Printf("Unstarred %s.\n", repo.FullName)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

var (
	issueTitle string
	issueBody  string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Work with issues",
}

var issueCreateCmd = &cobra.Command{
	Use:   "create <owner/name>",
	Short: "Create an issue",
	Long: `Creates an issue in a repository. Requires login.

Example:
  octoscope issue create octocat/hello-world --title "Crash on start" --body "Steps to reproduce..."`,
	Args: cobra.ExactArgs(1),
	RunE: runIssueCreate,
}

func init() {
	issueCreateCmd.Flags().StringVarP(&issueTitle, "title", "t", "", "issue title (required)")
	issueCreateCmd.Flags().StringVarP(&issueBody, "body", "b", "", "issue body")
	issueCmd.AddCommand(issueCreateCmd)
	rootCmd.AddCommand(issueCmd)
}

func runIssueCreate(cmd *cobra.Command, args []string) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	ref, err := domain.ParseRepoRef(args[0])
	if err != nil {
		return err
	}

	issue, err := issueService.Create(cmd.Context(), ref, domain.IssueDraft{
		Title: issueTitle,
		Body:  issueBody,
	})
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	cmd.Printf("Created issue #%d in %s\n", issue.Number, ref)
	if issue.URL != "" {
		cmd.Printf("  %s\n", issue.URL)
	}
	return nil
}

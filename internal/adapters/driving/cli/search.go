package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/services"
	"github.com/custodia-labs/octoscope/internal/logger"
)

var (
	searchLimit int
	searchSort  string
	searchOrder string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search GitHub repositories",
	Long: `Searches public repositories using GitHub search syntax.

Examples:
  octoscope search bubbletea
  octoscope search "language:go stars:>1000" --sort stars`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var hotCmd = &cobra.Command{
	Use:   "hot",
	Short: "List repositories created this week, most starred first",
	Args:  cobra.NoArgs,
	RunE:  runHot,
}

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List your repositories, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  runRepos,
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, hotCmd, reposCmd} {
		c.Flags().IntVarP(&searchLimit, "limit", "n", 30, "maximum number of repositories")
		c.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
		rootCmd.AddCommand(c)
	}
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort by stars, forks or updated (default best match)")
	searchCmd.Flags().StringVar(&searchOrder, "order", domain.OrderDesc, "sort order, asc or desc")
}

func runSearch(cmd *cobra.Command, args []string) error {
	criteria := domain.SearchCriteria{
		Query: strings.Join(args, " "),
		Sort:  searchSort,
		Order: searchOrder,
	}
	if err := criteria.Validate(); err != nil {
		return err
	}
	return listSearch(cmd, criteria)
}

func runHot(cmd *cobra.Command, _ []string) error {
	return listSearch(cmd, domain.HotCriteria(time.Now()))
}

func listSearch(cmd *cobra.Command, criteria domain.SearchCriteria) error {
	if repoService == nil {
		return errors.New("repository service not configured")
	}

	p := services.NewPaginator[domain.RepoSummary, domain.SearchCriteria](repoService.Search, paginatorConfig())
	defer p.Close()

	st, err := collect(p, criteria, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return outputRepos(cmd, st)
}

func runRepos(cmd *cobra.Command, _ []string) error {
	if repoService == nil {
		return errors.New("repository service not configured")
	}
	if sessionService != nil && !sessionService.IsAuthenticated() {
		return fmt.Errorf("listing your repositories requires login, run 'octoscope auth login': %w", domain.ErrAuth)
	}

	fetch := func(ctx context.Context, _ struct{}, page, perPage int) (domain.Page[domain.RepoSummary], error) {
		return repoService.UserRepos(ctx, page, perPage)
	}
	p := services.NewPaginator[domain.RepoSummary, struct{}](fetch, paginatorConfig())
	defer p.Close()

	st, err := collect(p, struct{}{}, searchLimit)
	if err != nil {
		return fmt.Errorf("listing repositories failed: %w", err)
	}
	return outputRepos(cmd, st)
}

func paginatorConfig() services.PaginatorConfig {
	settings := domain.DefaultSettings()
	if settingsService != nil {
		settings = settingsService.Get()
	}
	return services.PaginatorConfigFrom(settings, logger.Logger())
}

// collect loads pages until limit items are held, the end is reached or a
// fetch fails. Items beyond limit are dropped.
func collect[C any](p *services.Paginator[domain.RepoSummary, C], criteria C, limit int) (domain.PageState[domain.RepoSummary], error) {
	p.Reset(criteria)
	p.Wait()
	for {
		st := p.State()
		if st.Err != nil {
			return st, st.Err
		}
		if limit > 0 && len(st.Items) >= limit {
			st.Items = st.Items[:limit]
			return st, nil
		}
		if st.EndReached || !p.LoadNext() {
			return st, nil
		}
		p.Wait()
	}
}

func outputRepos(cmd *cobra.Command, st domain.PageState[domain.RepoSummary]) error {
	if searchJSON {
		return outputJSON(cmd, st.Items)
	}

	if len(st.Items) == 0 {
		cmd.Println("No repositories found.")
		return nil
	}

	for i := range st.Items {
		repo := st.Items[i]
		cmd.Printf("  [%d] %s  ★ %d", i+1, repo.FullName, repo.Stars)
		if repo.Language != "" {
			cmd.Printf("  %s", repo.Language)
		}
		cmd.Println()
		if repo.Description != "" {
			cmd.Printf("      %s\n", truncate(repo.Description, 100))
		}
	}
	if st.FromCache {
		cmd.Println()
		cmd.Println("(served from local cache)")
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

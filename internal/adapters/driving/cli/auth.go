package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/oauth"
	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/logger"
)

// loginTimeout bounds the wait for the browser callback.
const loginTimeout = 5 * time.Minute

var (
	loginWithToken bool
	loginNoBrowser bool
)

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub login",
	Long: `Log in to GitHub, log out, and check the current login.

Browser login needs an OAuth application. Set its credentials with
'octoscope config set oauth.client_id <id>' and
'octoscope config set oauth.client_secret <secret>', or the
OCTOSCOPE_CLIENT_ID and OCTOSCOPE_CLIENT_SECRET environment variables.
The application's callback URL must be http://localhost:18080/callback.

Without an OAuth application, log in with a personal access token:
  octoscope auth login --with-token`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to GitHub",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current login",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show your GitHub profile",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	authLoginCmd.Flags().BoolVar(&loginWithToken, "with-token", false, "read a personal access token from stdin")
	authLoginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "print the authorization URL instead of opening a browser")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if loginWithToken {
		return loginToken(cmd)
	}
	return loginBrowser(cmd)
}

func loginToken(cmd *cobra.Command) error {
	cmd.Print("Paste a personal access token: ")
	token, err := readTokenInput(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return &domain.ValidationError{Field: "token", Message: "must not be empty"}
	}

	profile, err := sessionService.LoginWithToken(cmd.Context(), token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cmd.Printf("Logged in as %s.\n", profile.Login)
	return nil
}

func loginBrowser(cmd *cobra.Command) error {
	flow := &oauth.Flow{
		Session: sessionService,
		Open:    openBrowser,
		Notify: func(url string) {
			cmd.Println("Opening your browser to authorize octoscope.")
			cmd.Println("If it does not open, visit:")
			cmd.Printf("  %s\n", url)
			cmd.Println()
			cmd.Println("Waiting for authorization...")
		},
		Logger: logger.Logger(),
	}
	if loginNoBrowser {
		flow.Open = func(string) error { return nil }
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	if err := flow.Run(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	profile, err := sessionService.Profile(cmd.Context())
	if err != nil {
		cmd.Println("Logged in.")
		return nil //nolint:nilerr // the token is stored; the profile is informational
	}
	cmd.Printf("Logged in as %s.\n", profile.Login)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if !sessionService.IsAuthenticated() {
		cmd.Println("Not logged in.")
		return nil
	}
	if err := sessionService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if !sessionService.IsAuthenticated() {
		cmd.Println("Not logged in. Run 'octoscope auth login'.")
		return nil
	}

	profile, err := sessionService.Profile(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrAuth):
		cmd.Println("The stored token was rejected and has been removed. Run 'octoscope auth login'.")
		return nil
	case err != nil:
		return fmt.Errorf("checking login: %w", err)
	}
	cmd.Printf("Logged in as %s.\n", profile.Login)
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	profile, err := sessionService.Profile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	cmd.Println(profile.Login)
	if profile.Name != "" {
		cmd.Printf("  Name:         %s\n", profile.Name)
	}
	if profile.Bio != "" {
		cmd.Printf("  Bio:          %s\n", profile.Bio)
	}
	cmd.Printf("  Public repos: %d\n", profile.PublicRepos)
	cmd.Printf("  Followers:    %d\n", profile.Followers)
	cmd.Printf("  Following:    %d\n", profile.Following)
	return nil
}

// readTokenInput reads a token without echo when in is a terminal.
func readTokenInput(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

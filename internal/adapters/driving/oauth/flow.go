package oauth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

// Authorizer is the part of the session service the browser flow drives.
type Authorizer interface {
	AuthCodeURL(state, verifier, redirectURI string) string
	LoginWithCode(ctx context.Context, code, verifier, redirectURI string) error
}

// Flow runs a browser login: it starts the callback server, sends the user
// to GitHub and exchanges the returned code.
type Flow struct {
	Session Authorizer

	// Open opens url for the user. Defaults to OpenBrowser.
	Open func(url string) error

	// Notify is called with the authorization URL before Open, so the
	// caller can print it in case no browser is available.
	Notify func(url string)

	StartPort int
	EndPort   int
	Logger    *slog.Logger
}

// Run completes the login or returns the first error. ctx bounds the wait
// for the callback.
func (f *Flow) Run(ctx context.Context) error {
	start, end := f.StartPort, f.EndPort
	if start == 0 {
		start, end = DefaultStartPort, DefaultEndPort
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	port, err := FindAvailablePort(start, end)
	if err != nil {
		return err
	}

	state := NewState()
	verifier := oauth2.GenerateVerifier()

	server := NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop() //nolint:errcheck // best-effort shutdown

	redirectURI := server.RedirectURI()
	authURL := f.Session.AuthCodeURL(state, verifier, redirectURI)
	if authURL == "" {
		return fmt.Errorf("no OAuth application configured")
	}

	if f.Notify != nil {
		f.Notify(authURL)
	}
	open := f.Open
	if open == nil {
		open = OpenBrowser
	}
	if err := open(authURL); err != nil {
		logger.Warn("could not open browser", slog.String("error", err.Error()))
	}

	code, err := server.WaitForCode(ctx)
	if err != nil {
		return err
	}
	return f.Session.LoginWithCode(ctx, code, verifier, redirectURI)
}

package driven

import "context"

// TokenStorage persists the session token between runs.
type TokenStorage interface {
	// Load returns the persisted token. ok is false when none is stored.
	Load(ctx context.Context) (token string, ok bool, err error)

	// Save persists token, replacing any previous value.
	Save(ctx context.Context, token string) error

	// Clear removes the persisted token. Clearing an absent token is not an error.
	Clear(ctx context.Context) error
}

// TokenWatcher is implemented by storages that can report changes made by
// other processes.
type TokenWatcher interface {
	// Watch calls onChange after the persisted token changes, until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}

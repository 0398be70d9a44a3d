package ports

import "context"

// Identity resolves the authenticated user behind a request. It exists only
// to stamp game ownership; the engine never inspects credentials.
type Identity interface {
	// CurrentUserID returns the caller's stable user id, or "" when the
	// request is unauthenticated.
	CurrentUserID(ctx context.Context) string
}

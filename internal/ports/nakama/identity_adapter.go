package nakama

import (
	"context"

	"spades/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// callerID resolves the authenticated user id Nakama attaches to RPC and
// hook contexts. Empty for unauthenticated (server-to-server) calls.
func callerID(ctx context.Context) string {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return userID
}

// IdentityAdapter implements ports.Identity from the request context.
type IdentityAdapter struct{}

// NewIdentityAdapter creates a context-backed identity source.
func NewIdentityAdapter() *IdentityAdapter {
	return &IdentityAdapter{}
}

// CurrentUserID returns the calling user's id, or "" when absent.
func (a *IdentityAdapter) CurrentUserID(ctx context.Context) string {
	return callerID(ctx)
}

var _ ports.Identity = (*IdentityAdapter)(nil)

package nakama

import (
	"context"

	"spades/internal/ports"
)

// accountAPI is the slice of runtime.NakamaModule the account adapter needs.
type accountAPI interface {
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// AccountAdapter implements ports.Account over Nakama's account API.
type AccountAdapter struct {
	nk accountAPI
}

// NewAccountAdapter creates a new account adapter.
func NewAccountAdapter(nk accountAPI) *AccountAdapter {
	return &AccountAdapter{nk: nk}
}

// UpdateProfile sets username and display name, leaving all other account
// fields untouched.
func (a *AccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

var _ ports.Account = (*AccountAdapter)(nil)

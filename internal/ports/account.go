package ports

import "context"

// Account is the identity-provider surface for profile writes. Used only by
// onboarding to give fresh accounts a readable display name.
type Account interface {
	// UpdateProfile sets the username and display name on the given
	// account. Returns an error if the backend rejects the update.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}

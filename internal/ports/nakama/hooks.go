package nakama

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"spades/internal/app/onboarding"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice gives freshly created device-auth accounts a
// display name so their scorecards have a readable owner.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}
	return onboardFromSession(ctx, logger, nk, out)
}

// AfterAuthenticateEmail does the same for email/password sign-ups.
func AfterAuthenticateEmail(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateEmailRequest) error {
	if !out.Created {
		return nil
	}
	return onboardFromSession(ctx, logger, nk, out)
}

func onboardFromSession(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, out *api.Session) error {
	userID := callerID(ctx)
	if userID == "" {
		// Hook contexts sometimes lack the user id; fall back to the
		// session token claims.
		resolved, err := userIDFromToken(out.Token)
		if err != nil {
			logger.Error("onboarding: could not resolve user id: %v", err)
			return err
		}
		userID = resolved
	}

	service := onboarding.NewService(NewAccountAdapter(nk), nil)
	result, err := service.OnboardNewUser(ctx, userID)
	if result.ProfileUpdateErr != nil {
		logger.Warn("onboarding: display name for user %s not applied: %v", userID, result.ProfileUpdateErr)
	} else {
		logger.Info("onboarding: user %s named %s", userID, result.DisplayName)
	}
	return err
}

// userIDFromToken pulls the uid claim out of a session JWT without
// verifying it; the token was just issued by this server.
func userIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed session token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode token payload: %w", err)
	}

	var claims struct {
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("unmarshal token claims: %w", err)
	}
	if claims.UID == "" {
		return "", fmt.Errorf("token claims missing uid")
	}
	return claims.UID, nil
}

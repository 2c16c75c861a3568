package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/moodcare-backend/internal/pkg/ctxutil"
	"github.com/yungbote/moodcare-backend/internal/repos"
	"github.com/yungbote/moodcare-backend/internal/repos/testutil"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewAuthService(
		db, log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		repos.NewNotificationPrefRepo(db, log),
		repos.NewMusicProfileRepo(db, log),
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Person@Example.com ", "supersecret", "  Person ")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "person@example.com" {
		t.Fatalf("RegisterUser: email not normalized: %q", user.Email)
	}
	if user.Name != "Person" {
		t.Fatalf("RegisterUser: name not trimmed: %q", user.Name)
	}
	if user.Password == "supersecret" {
		t.Fatalf("RegisterUser: password stored in plain text")
	}

	if _, err := svc.RegisterUser(ctx, "person@example.com", "supersecret", "Again"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("RegisterUser: expected email taken, got %v", err)
	}
	if _, err := svc.RegisterUser(ctx, "short@example.com", "short", ""); err == nil {
		t.Fatalf("RegisterUser: expected error for short password")
	}

	if _, _, err := svc.LoginUser(ctx, "person@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("LoginUser: expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.LoginUser(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("LoginUser: expected invalid credentials for unknown user, got %v", err)
	}

	access, refresh, err := svc.LoginUser(ctx, "person@example.com", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("LoginUser: empty token pair")
	}

	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("SetContextFromToken: wrong request data: %+v", rd)
	}

	newAccess, newRefresh, err := svc.RefreshUser(ctx, refresh)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newRefresh == refresh {
		t.Fatalf("RefreshUser: refresh token not rotated")
	}
	// The old refresh token is revoked by the rotation.
	if _, _, err := svc.RefreshUser(ctx, refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("RefreshUser: expected old token rejected, got %v", err)
	}

	authedCtx, err = svc.SetContextFromToken(ctx, newAccess)
	if err != nil {
		t.Fatalf("SetContextFromToken (new): %v", err)
	}
	if err := svc.LogoutUser(authedCtx); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	// Logout revokes the session, so its refresh token dies with it.
	if _, _, err := svc.RefreshUser(ctx, newRefresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("RefreshUser: expected refresh rejected after logout, got %v", err)
	}

	if err := svc.LogoutUser(ctx); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("LogoutUser: expected token invalid without request data, got %v", err)
	}
}

func TestSetContextFromTokenRejectsForgeries(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.SetContextFromToken(ctx, "not-a-jwt"); err == nil {
		t.Fatalf("SetContextFromToken: expected error for garbage token")
	}

	other := newAuthService(t) // different database, same signing setup is what matters
	if _, err := other.RegisterUser(ctx, "forge@example.com", "supersecret", ""); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, _, err := other.LoginUser(ctx, "forge@example.com", "supersecret")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	// Same secret, so the token parses; the claims carry the other user.
	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if rd := ctxutil.GetRequestData(authedCtx); rd == nil || rd.TokenString != access {
		t.Fatalf("SetContextFromToken: request data not attached")
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	t.Setenv("PICTURES_DIR", t.TempDir())
	db := newTestDB(t)
	return NewAuthService(db, "test-secret", "test-refresh-secret", NewPictureStorage())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	userID, err := s.Register(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID == 0 {
		t.Error("expected a non-zero user id")
	}

	user, pair, err := s.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Errorf("expected user id %d, got %d", userID, user.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}

	claims, err := s.VerifyToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected claims for user %d, got %d", userID, claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username 'alice', got %s", claims.Username)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Register(ctx, "alice", "other"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown user and wrong password are indistinguishable.
	if _, _, err := s.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for a wrong password, got %v", err)
	}
	if _, _, err := s.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for an unknown user, got %v", err)
	}
}

func TestVerifyToken_RejectsGarbage(t *testing.T) {
	s := newTestAuthService(t)

	if _, err := s.VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	s := newTestAuthService(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, pair, err := s.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, err := s.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.VerifyToken(access); err != nil {
		t.Errorf("expected the refreshed token to verify: %v", err)
	}

	// An access token is signed with the wrong secret for refresh.
	if _, err := s.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for an access token, got %v", err)
	}
}

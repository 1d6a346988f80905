package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

func newTestAuthService(t *testing.T, secret string, ttl time.Duration) *authService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAuthService(nil, log, newFakeUserRepo(), secret, ttl).(*authService)
}

func TestTokenRoundtrip_PreservesSubjectAndAdminFlag(t *testing.T) {
	svc := newTestAuthService(t, "test-secret", time.Hour)
	user := &types.User{ID: uuid.New(), IsAdmin: true}

	token, err := svc.issueToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, isAdmin, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("subject mismatch: %s vs %s", userID, user.ID)
	}
	if !isAdmin {
		t.Fatalf("admin flag lost")
	}
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService(t, "secret-a", time.Hour)
	verifier := newTestAuthService(t, "secret-b", time.Hour)

	token, err := issuer.issueToken(&types.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := verifier.ParseToken(token); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestParseToken_RejectsExpiredToken(t *testing.T) {
	svc := newTestAuthService(t, "test-secret", -time.Minute)
	token, err := svc.issueToken(&types.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := svc.ParseToken(token); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for expired token, got %v", err)
	}
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, "test-secret", time.Hour)
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, _, err := svc.ParseToken(bad); !errors.Is(err, ErrForbidden) {
			t.Fatalf("%q: expected ErrForbidden, got %v", bad, err)
		}
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("secret", 5*time.Minute, time.Hour, "eventreg")
}

func TestIssuePairCarriesPrivilegeFlag(t *testing.T) {
	manager := newTestManager()
	pair, err := manager.IssuePair(&Actor{UserID: 7, Username: "root", Email: "root@example.com", IsSuperuser: true})
	require.NoError(t, err)

	claims, err := manager.Validate(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "root@example.com", claims.Email)
	assert.True(t, claims.IsSuperuser)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	manager := newTestManager()
	pair, err := manager.IssuePair(&Actor{UserID: 1, Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = manager.Validate(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	manager := newTestManager()
	pair, err := manager.IssuePair(&Actor{UserID: 3, Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	access, err := manager.Refresh(pair.Refresh)
	require.NoError(t, err)

	claims, err := manager.Validate(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
	assert.False(t, claims.IsSuperuser)
}

func TestValidateRejectsExpiredAndForeignTokens(t *testing.T) {
	manager := newTestManager()
	pair, err := manager.IssuePair(&Actor{UserID: 1, Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	manager.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = manager.Validate(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTManager("other-secret", time.Minute, time.Hour, "eventreg")
	_, err = other.Validate(pair.Refresh, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRequiresIdentity(t *testing.T) {
	manager := newTestManager()
	if _, err := manager.IssuePair(nil); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := manager.Validate("", TokenTypeAccess); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestTokenFromHeader(t *testing.T) {
	if _, err := TokenFromHeader("nope"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if token, err := TokenFromHeader("Bearer token"); err != nil || token != "token" {
		t.Fatalf("expected token, got %s err %v", token, err)
	}
}

package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessToken_ValidAt(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	testCases := []struct {
		name      string
		expiresAt *time.Time
		revokedAt *time.Time
		valid     bool
	}{
		{"non-expiring token", nil, nil, true},
		{"token expiring in the future", &future, nil, true},
		{"expired token", &past, nil, false},
		{"token expiring exactly now", &now, nil, false},
		{"revoked token", nil, &past, false},
		{"revoked token with future expiry", &future, &past, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token := &AccessToken{ExpiresAt: tc.expiresAt, RevokedAt: tc.revokedAt}
			assert.Equal(t, tc.valid, token.ValidAt(now))
		})
	}
}

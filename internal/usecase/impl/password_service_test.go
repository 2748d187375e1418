package impl

import (
	"context"
	"testing"
	"time"

	"freightdesk/internal/domain/entity"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyService(userRepo repository.UserRepository, expiryDays int, exempt ...string) usecase.PasswordUsecase {
	if userRepo == nil {
		userRepo = &fakeUserRepo{}
	}

	return NewPasswordService(PasswordServiceParams{
		UserRepo: userRepo,
		Config:   newTestPolicyConfig(expiryDays, exempt...),
		Logger:   newDiscardLogger(),
	})
}

func TestValidateComplexity_ValidPassword(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	result := service.ValidateComplexity("Xk9#Tq7!", "", "", "")

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateComplexity_StructuralRules(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	tests := []struct {
		name     string
		password string
		expected string
	}{
		{"too short", "Xk9#Tq7", msgTooShort},
		{"missing lowercase", "XK9#TQ7!WZ", msgMissingLowercase},
		{"missing uppercase", "xk9#tq7!wz", msgMissingUppercase},
		{"missing digit", "Xkz#Tqw!yv", msgMissingDigit},
		{"missing special", "Xk9zTq7wYv", msgMissingSpecial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.ValidateComplexity(tt.password, "", "", "")

			assert.False(t, result.Valid)
			assert.Contains(t, result.Errors, tt.expected)
		})
	}
}

func TestValidateComplexity_CollectsAllViolations(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	// Empty password breaks every structural rule at once.
	result := service.ValidateComplexity("", "", "", "")

	assert.False(t, result.Valid)
	assert.Equal(t, []string{
		msgTooShort,
		msgMissingLowercase,
		msgMissingUppercase,
		msgMissingDigit,
		msgMissingSpecial,
	}, result.Errors)
}

func TestValidateComplexity_PersonalInfoDenylist(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	// Shares characters with the first name, despite satisfying every
	// structural rule.
	result := service.ValidateComplexity("Ab1!defg", "John", "Doe", "john@company.com")

	assert.False(t, result.Valid)
	assert.Equal(t, []string{msgPersonalInfo}, result.Errors)
}

func TestValidateComplexity_PersonalInfoCaseInsensitive(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	// 'X' in the password matches 'x' in the last name.
	result := service.ValidateComplexity("X9#!%*?&", "", "xu", "")

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, msgPersonalInfo)
}

func TestValidateComplexity_EmailTLDNotForbidden(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	// The denylist covers the local part ("zq") and the first domain label
	// ("w"), not the TLD. "io"'s characters stay usable.
	result := service.ValidateComplexity("Oi1#%*?&", "", "", "zq@w.io")

	assert.True(t, result.Valid, "violations: %v", result.Errors)
}

func TestValidateComplexity_EmailWithoutAtSign(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	// No '@' means the whole string counts as local part.
	result := service.ValidateComplexity("Ab1!%*?&", "", "", "bad-address")

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, msgPersonalInfo)
}

func TestValidateComplexity_Deterministic(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")

	first := service.ValidateComplexity("Ab1!defg", "John", "Doe", "john@company.com")
	second := service.ValidateComplexity("Ab1!defg", "John", "Doe", "john@company.com")

	assert.Equal(t, first, second)
}

func TestIsExpired_DecisionOrder(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")
	now := time.Now()
	fresh := now.Add(-time.Hour)
	stale := now.Add(-91 * 24 * time.Hour)

	tests := []struct {
		name    string
		user    *entity.User
		expired bool
	}{
		{
			"exempt user never expires",
			&entity.User{Username: "admin", PasswordResetRequired: true, PasswordChangedAt: nil},
			false,
		},
		{
			"forced reset expires regardless of age",
			&entity.User{Username: "driver7", PasswordResetRequired: true, PasswordChangedAt: &fresh},
			true,
		},
		{
			"never-changed password is expired",
			&entity.User{Username: "driver7", PasswordChangedAt: nil},
			true,
		},
		{
			"stale password is expired",
			&entity.User{Username: "driver7", PasswordChangedAt: &stale},
			true,
		},
		{
			"fresh password is not expired",
			&entity.User{Username: "driver7", PasswordChangedAt: &fresh},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, service.IsExpired(tt.user, now))
		})
	}
}

func TestIsExpired_WholeDayBoundary(t *testing.T) {
	service := newPolicyService(nil, 90, "admin")
	now := time.Now()

	// 89 days and 23 hours is still 89 whole days.
	almost := now.Add(-(89*24 + 23) * time.Hour)
	assert.False(t, service.IsExpired(&entity.User{Username: "driver7", PasswordChangedAt: &almost}, now))

	// Exactly 90 whole days crosses the threshold.
	exact := now.Add(-90 * 24 * time.Hour)
	assert.True(t, service.IsExpired(&entity.User{Username: "driver7", PasswordChangedAt: &exact}, now))
}

func TestUpdatePassword_Success(t *testing.T) {
	userID := uuid.New()
	var gotHash string

	userRepo := &fakeUserRepo{
		updatePassword: func(_ context.Context, id uuid.UUID, passwordHash string, _ time.Time) error {
			assert.Equal(t, userID, id)
			gotHash = passwordHash

			return nil
		},
	}
	service := newPolicyService(userRepo, 90, "admin")

	err := service.UpdatePassword(context.Background(), userID, "new-hash")

	require.NoError(t, err)
	assert.Equal(t, "new-hash", gotHash)
}

func TestUpdatePassword_StoreFailure(t *testing.T) {
	userRepo := &fakeUserRepo{
		updatePassword: func(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
			return errors.New("disk full")
		},
	}
	service := newPolicyService(userRepo, 90, "admin")

	err := service.UpdatePassword(context.Background(), uuid.New(), "new-hash")

	assert.Error(t, err)
}

func TestForceResetAll_ReportsAffected(t *testing.T) {
	var gotExempt []string

	userRepo := &fakeUserRepo{
		bulkSetResetRequired: func(_ context.Context, exemptUsernames []string, _ time.Time) (int64, error) {
			gotExempt = exemptUsernames

			return 42, nil
		},
	}
	service := newPolicyService(userRepo, 90, "admin", "ops")

	output, err := service.ForceResetAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), output.Affected)
	assert.Equal(t, []string{"admin", "ops"}, gotExempt)
}

func TestForceResetAll_StoreFailure(t *testing.T) {
	userRepo := &fakeUserRepo{
		bulkSetResetRequired: func(_ context.Context, _ []string, _ time.Time) (int64, error) {
			return 0, errors.New("lock timeout")
		},
	}
	service := newPolicyService(userRepo, 90, "admin")

	_, err := service.ForceResetAll(context.Background())

	assert.Error(t, err)
}

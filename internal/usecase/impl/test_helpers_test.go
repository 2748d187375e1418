package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"freightdesk/config"
	"freightdesk/internal/domain/entity"
	"freightdesk/internal/domain/repository"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPolicyConfig(expiryDays int, exempt ...string) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 6,
			TokenTTL:   12 * time.Hour,
		},
		PasswordPolicy: &config.PasswordPolicyConfig{
			ExpiryDays:      expiryDays,
			ExemptUsernames: exempt,
		},
	}
}

// --- Hand-rolled repository fakes ---
// Unset function fields mean the test does not expect that call.

type fakeUserRepo struct {
	findByID             func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	findByUsername       func(ctx context.Context, username string) (*entity.User, error)
	create               func(ctx context.Context, user *entity.User) error
	updatePassword       func(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error
	bulkSetResetRequired func(ctx context.Context, exemptUsernames []string, now time.Time) (int64, error)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.findByID(ctx, id)
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return f.findByUsername(ctx, username)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	return f.create(ctx, user)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	return f.updatePassword(ctx, id, passwordHash, changedAt)
}

func (f *fakeUserRepo) BulkSetResetRequired(ctx context.Context, exemptUsernames []string, now time.Time) (int64, error) {
	return f.bulkSetResetRequired(ctx, exemptUsernames, now)
}

type fakeTokenRepo struct {
	create         func(ctx context.Context, token *entity.AccessToken) error
	findValidToken func(ctx context.Context, token string, now time.Time) (*entity.AccessToken, error)
	touchLastUsed  func(ctx context.Context, token string, now time.Time) error
	revoke         func(ctx context.Context, token string, now time.Time) error
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *entity.AccessToken) error {
	return f.create(ctx, token)
}

func (f *fakeTokenRepo) FindValidToken(ctx context.Context, token string, now time.Time) (*entity.AccessToken, error) {
	return f.findValidToken(ctx, token, now)
}

func (f *fakeTokenRepo) TouchLastUsed(ctx context.Context, token string, now time.Time) error {
	return f.touchLastUsed(ctx, token, now)
}

func (f *fakeTokenRepo) Revoke(ctx context.Context, token string, now time.Time) error {
	return f.revoke(ctx, token, now)
}

// fakeTxManager runs the callback immediately against the given repositories,
// with no real transaction semantics.
type fakeTxManager struct {
	userRepo  repository.UserRepository
	tokenRepo repository.AccessTokenRepository
}

func (f *fakeTxManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{userRepo: f.userRepo, tokenRepo: f.tokenRepo})
}

type fakeRepoFactory struct {
	userRepo  repository.UserRepository
	tokenRepo repository.AccessTokenRepository
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository {
	return f.userRepo
}

func (f *fakeRepoFactory) AccessTokenRepo() repository.AccessTokenRepository {
	return f.tokenRepo
}

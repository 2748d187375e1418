// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"freightdesk/internal/domain/entity"
	domainerrors "freightdesk/internal/domain/errors"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accessTokenRepository implements the domain.AccessTokenRepository interface using GORM.
type accessTokenRepository struct {
	db *gorm.DB
}

// NewAccessTokenRepository is the constructor for accessTokenRepository.
func NewAccessTokenRepository(db *gorm.DB) repository.AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

// Create persists a newly issued access token.
func (repo *accessTokenRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	tokenM := fromAccessTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("access token collision")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create access token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindValidToken retrieves the token matching the exact credential string,
// provided it is neither revoked nor expired at the given time. The validity
// conditions live in the WHERE clause, so "unknown", "expired" and "revoked"
// are indistinguishable in the result.
func (repo *accessTokenRepository) FindValidToken(ctx context.Context, token string, now time.Time) (*entity.AccessToken, error) {
	var tokenM model.AccessTokenModel
	if err := repo.db.WithContext(ctx).
		Where("token = ?", token).
		Where("revoked_at IS NULL").
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find access token")
	}

	return toAccessTokenDomain(&tokenM), nil
}

// TouchLastUsed stamps the token's last-used time.
func (repo *accessTokenRepository) TouchLastUsed(ctx context.Context, token string, now time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccessTokenModel{}).
		Where("token = ?", token).
		Update("last_used_at", now)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to stamp access token last-used time")
	}

	if result.RowsAffected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

// Revoke invalidates the token by stamping its revocation time. The row is
// kept for audit; only tokens not already revoked are touched, so revocation
// is idempotent from the store's point of view.
func (repo *accessTokenRepository) Revoke(ctx context.Context, token string, now time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccessTokenModel{}).
		Where("token = ?", token).
		Where("revoked_at IS NULL").
		Update("revoked_at", now)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to revoke access token")
	}

	if result.RowsAffected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toAccessTokenDomain converts a GORM AccessTokenModel to a domain AccessToken entity.
func toAccessTokenDomain(data *model.AccessTokenModel) *entity.AccessToken {
	if data == nil {
		return nil
	}

	return &entity.AccessToken{
		ID:         data.ID,
		Token:      data.Token,
		UserID:     data.UserID,
		ExpiresAt:  data.ExpiresAt,
		RevokedAt:  data.RevokedAt,
		LastUsedAt: data.LastUsedAt,
		CreatedAt:  data.CreatedAt,
	}
}

// fromAccessTokenDomain converts a domain AccessToken entity to a GORM AccessTokenModel.
func fromAccessTokenDomain(data *entity.AccessToken) *model.AccessTokenModel {
	if data == nil {
		return nil
	}

	return &model.AccessTokenModel{
		ID:         data.ID,
		Token:      data.Token,
		UserID:     data.UserID,
		ExpiresAt:  data.ExpiresAt,
		RevokedAt:  data.RevokedAt,
		LastUsedAt: data.LastUsedAt,
		CreatedAt:  data.CreatedAt,
	}
}

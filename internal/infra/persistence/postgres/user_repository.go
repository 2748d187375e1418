// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"freightdesk/internal/domain/entity"
	domainerrors "freightdesk/internal/domain/errors"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByUsername retrieves a single user by their login username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("username or email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpdatePassword sets the new password hash, stamps the change time and clears
// the forced-reset flag in a single UPDATE statement. All three columns move
// together; readers never observe a half-applied password change.
func (repo *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":           passwordHash,
			"password_changed_at":     changedAt,
			"password_reset_required": false,
			"updated_at":              changedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// BulkSetResetRequired flags every non-exempt user for a forced password
// reset. A single conditional UPDATE keeps the sweep atomic, and the flag
// guard in the WHERE clause makes the returned count the number of rows that
// actually flipped, so a repeated sweep reports zero.
func (repo *userRepository) BulkSetResetRequired(ctx context.Context, exemptUsernames []string, now time.Time) (int64, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("password_reset_required = ?", false)

	// An empty NOT IN list must mean "exempt nobody", not "match nobody".
	if len(exemptUsernames) > 0 {
		query = query.Where("username NOT IN ?", exemptUsernames)
	}

	result := query.Updates(map[string]any{
		"password_reset_required": true,
		"updated_at":              now,
	})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to flag users for password reset")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                    data.ID,
		Username:              data.Username,
		FirstName:             data.FirstName,
		LastName:              data.LastName,
		Email:                 data.Email,
		PasswordHash:          data.PasswordHash,
		PasswordChangedAt:     data.PasswordChangedAt,
		PasswordResetRequired: data.PasswordResetRequired,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:                    data.ID,
		Username:              data.Username,
		FirstName:             data.FirstName,
		LastName:              data.LastName,
		Email:                 data.Email,
		PasswordHash:          data.PasswordHash,
		PasswordChangedAt:     data.PasswordChangedAt,
		PasswordResetRequired: data.PasswordResetRequired,
	}
}

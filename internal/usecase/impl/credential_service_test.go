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
)

func newCredentialService(tokenRepo repository.AccessTokenRepository) usecase.AuthUsecase {
	return NewCredentialService(CredentialServiceParams{
		TokenRepo: tokenRepo,
		Logger:    newDiscardLogger(),
	})
}

func TestCredentialService_ValidToken(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	touched := false

	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, token string, _ time.Time) (*entity.AccessToken, error) {
			assert.Equal(t, "tok-123", token)

			return &entity.AccessToken{Token: "tok-123", UserID: userID}, nil
		},
		touchLastUsed: func(_ context.Context, token string, _ time.Time) error {
			touched = true

			return nil
		},
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "Bearer tok-123",
		Now:                 now,
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, usecase.AuthSourceToken, result.Source)
	assert.True(t, touched)
}

func TestCredentialService_BearerPrefixOptional(t *testing.T) {
	userID := uuid.New()

	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, token string, _ time.Time) (*entity.AccessToken, error) {
			assert.Equal(t, "tok-123", token)

			return &entity.AccessToken{Token: "tok-123", UserID: userID}, nil
		},
		touchLastUsed: func(_ context.Context, _ string, _ time.Time) error { return nil },
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "tok-123",
		Now:                 time.Now(),
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, usecase.AuthSourceToken, result.Source)
}

func TestCredentialService_TokenWinsOverSession(t *testing.T) {
	tokenUserID := uuid.New()
	sessionUserID := uuid.New()

	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, _ string, _ time.Time) (*entity.AccessToken, error) {
			return &entity.AccessToken{Token: "tok-123", UserID: tokenUserID}, nil
		},
		touchLastUsed: func(_ context.Context, _ string, _ time.Time) error { return nil },
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "Bearer tok-123",
		Session:             entity.Session{LoggedIn: true, UserID: sessionUserID},
		Now:                 time.Now(),
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, tokenUserID, result.UserID)
	assert.Equal(t, usecase.AuthSourceToken, result.Source)
}

func TestCredentialService_InvalidTokenFallsBackToSession(t *testing.T) {
	sessionUserID := uuid.New()

	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, _ string, _ time.Time) (*entity.AccessToken, error) {
			return nil, repository.ErrTokenNotFound
		},
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "Bearer garbage",
		Session:             entity.Session{LoggedIn: true, UserID: sessionUserID},
		Now:                 time.Now(),
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, sessionUserID, result.UserID)
	assert.Equal(t, usecase.AuthSourceSession, result.Source)
}

func TestCredentialService_StoreErrorFallsBackToSession(t *testing.T) {
	sessionUserID := uuid.New()

	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, _ string, _ time.Time) (*entity.AccessToken, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "Bearer tok-123",
		Session:             entity.Session{LoggedIn: true, UserID: sessionUserID},
		Now:                 time.Now(),
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, usecase.AuthSourceSession, result.Source)
}

func TestCredentialService_NoTokenLoggedInSession(t *testing.T) {
	sessionUserID := uuid.New()
	service := newCredentialService(&fakeTokenRepo{})

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		Session: entity.Session{LoggedIn: true, UserID: sessionUserID},
		Now:     time.Now(),
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, sessionUserID, result.UserID)
	assert.Equal(t, usecase.AuthSourceSession, result.Source)
}

func TestCredentialService_NeitherCredential(t *testing.T) {
	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, _ string, _ time.Time) (*entity.AccessToken, error) {
			return nil, repository.ErrTokenNotFound
		},
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "Bearer bad",
		Now:                 time.Now(),
	})

	assert.False(t, result.Authenticated)
	assert.Equal(t, uuid.Nil, result.UserID)
	assert.Empty(t, result.Source)
}

func TestCredentialService_TouchFailureDoesNotBlockAuth(t *testing.T) {
	userID := uuid.New()

	tokenRepo := &fakeTokenRepo{
		findValidToken: func(_ context.Context, _ string, _ time.Time) (*entity.AccessToken, error) {
			return &entity.AccessToken{Token: "tok-123", UserID: userID}, nil
		},
		touchLastUsed: func(_ context.Context, _ string, _ time.Time) error {
			return errors.New("write timeout")
		},
	}
	service := newCredentialService(tokenRepo)

	result := service.Authenticate(context.Background(), usecase.AuthenticateInput{
		AuthorizationHeader: "Bearer tok-123",
		Now:                 time.Now(),
	})

	assert.True(t, result.Authenticated)
	assert.Equal(t, usecase.AuthSourceToken, result.Source)
}

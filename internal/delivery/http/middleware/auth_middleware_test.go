package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freightdesk/config"
	"freightdesk/internal/domain/entity"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthUsecase struct {
	gotInput usecase.AuthenticateInput
	result   usecase.AuthResult
}

func (s *stubAuthUsecase) Authenticate(_ context.Context, input usecase.AuthenticateInput) usecase.AuthResult {
	s.gotInput = input

	return s.result
}

type stubSessionCodec struct {
	session entity.Session
}

func (s *stubSessionCodec) Encode(_ entity.Session) (string, error) { return "encoded", nil }

func (s *stubSessionCodec) Decode(_ string) entity.Session { return s.session }

func newTestContext(t *testing.T, header, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/account/password", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_AuthenticatedRequestPassesThrough(t *testing.T) {
	userID := uuid.New()
	authUC := &stubAuthUsecase{result: usecase.AuthResult{
		Authenticated: true,
		UserID:        userID,
		Source:        usecase.AuthSourceToken,
	}}
	m := NewAuthMiddleware(authUC, &stubSessionCodec{}, nil, &config.Config{})

	c, _ := newTestContext(t, "Bearer tok-123", "")

	called := false
	err := m.Authenticate(func(c echo.Context) error {
		called = true

		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, userID, c.Get(ContextKeyUserID))
	assert.Equal(t, usecase.AuthSourceToken, c.Get(ContextKeyAuthSource))
	assert.Equal(t, "Bearer tok-123", authUC.gotInput.AuthorizationHeader)
}

func TestAuthMiddleware_SessionCookieIsDecoded(t *testing.T) {
	sessionUserID := uuid.New()
	authUC := &stubAuthUsecase{result: usecase.AuthResult{
		Authenticated: true,
		UserID:        sessionUserID,
		Source:        usecase.AuthSourceSession,
	}}
	codec := &stubSessionCodec{session: entity.Session{LoggedIn: true, UserID: sessionUserID}}
	m := NewAuthMiddleware(authUC, codec, nil, &config.Config{})

	c, _ := newTestContext(t, "", "some-session-cookie")

	err := m.Authenticate(func(c echo.Context) error { return nil })(c)

	require.NoError(t, err)
	assert.True(t, authUC.gotInput.Session.LoggedIn)
	assert.Equal(t, sessionUserID, authUC.gotInput.Session.UserID)
}

func TestAuthMiddleware_UnauthenticatedRequestRejected(t *testing.T) {
	authUC := &stubAuthUsecase{result: usecase.AuthResult{}}
	m := NewAuthMiddleware(authUC, &stubSessionCodec{}, nil, &config.Config{})

	c, _ := newTestContext(t, "", "")

	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("handler must not run")

		return nil
	})(c)

	assert.Error(t, err)
}

func TestAuthMiddleware_MissingCookieIsLoggedOutSession(t *testing.T) {
	authUC := &stubAuthUsecase{result: usecase.AuthResult{}}
	m := NewAuthMiddleware(authUC, &stubSessionCodec{session: entity.Session{LoggedIn: true}}, nil, &config.Config{})

	c, _ := newTestContext(t, "", "")

	_ = m.Authenticate(func(c echo.Context) error { return nil })(c)

	// Without a cookie the codec is never consulted.
	assert.False(t, authUC.gotInput.Session.LoggedIn)
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	adminID := uuid.New()

	tests := []struct {
		name     string
		username string
		allowed  bool
	}{
		{"admin passes", "admin", true},
		{"regular user rejected", "driver7", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &fakeFindByIDRepo{user: &entity.User{ID: adminID, Username: tt.username}}
			m := NewAuthMiddleware(&stubAuthUsecase{}, &stubSessionCodec{}, userRepo, &config.Config{})

			c, _ := newTestContext(t, "", "")
			c.Set(ContextKeyUserID, adminID)

			called := false
			err := m.RequireAdmin(func(c echo.Context) error {
				called = true

				return nil
			})(c)

			if tt.allowed {
				require.NoError(t, err)
				assert.True(t, called)
			} else {
				assert.Error(t, err)
				assert.False(t, called)
			}
		})
	}
}

func TestAuthMiddleware_RequireAdminWithoutIdentity(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthUsecase{}, &stubSessionCodec{}, &fakeFindByIDRepo{}, &config.Config{})

	c, _ := newTestContext(t, "", "")

	err := m.RequireAdmin(func(c echo.Context) error { return nil })(c)

	assert.Error(t, err)
}

// fakeFindByIDRepo implements repository.UserRepository for lookups only.
type fakeFindByIDRepo struct {
	user *entity.User
}

func (f *fakeFindByIDRepo) FindByID(_ context.Context, _ uuid.UUID) (*entity.User, error) {
	if f.user == nil {
		return nil, repository.ErrUserNotFound
	}

	return f.user, nil
}

func (f *fakeFindByIDRepo) FindByUsername(_ context.Context, _ string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeFindByIDRepo) Create(_ context.Context, _ *entity.User) error { return nil }

func (f *fakeFindByIDRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (f *fakeFindByIDRepo) BulkSetResetRequired(_ context.Context, _ []string, _ time.Time) (int64, error) {
	return 0, nil
}

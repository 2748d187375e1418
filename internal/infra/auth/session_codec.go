// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"freightdesk/config"
	"freightdesk/internal/domain/entity"
	"freightdesk/internal/domain/service"
)

// jwtSessionCodec is a concrete implementation of the SessionCodec interface
// using signed JWTs as the cookie payload.
type jwtSessionCodec struct {
	secret     string
	sessionTTL time.Duration
}

// NewJWTSessionCodec is the constructor for jwtSessionCodec.
func NewJWTSessionCodec(cfg *config.Config) (service.SessionCodec, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	sessionTTL := config.DefaultSessionTTL
	if cfg.Auth != nil && cfg.Auth.SessionTTL > 0 {
		sessionTTL = cfg.Auth.SessionTTL
	}

	return &jwtSessionCodec{
		secret:     cfg.SecretKey.Session,
		sessionTTL: sessionTTL,
	}, nil
}

// Encode signs the session state into a compact token suitable for a cookie value.
func (s *jwtSessionCodec) Encode(session entity.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.UserID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Decode parses and verifies a session cookie value. Anything that does not
// verify cleanly decodes to the logged-out session; a garbled or forged
// cookie must behave exactly like no cookie at all.
func (s *jwtSessionCodec) Decode(raw string) entity.Session {
	if raw == "" {
		return entity.Session{}
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return entity.Session{}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Session{}
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return entity.Session{}
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return entity.Session{}
	}

	return entity.Session{
		LoggedIn: true,
		UserID:   userID,
	}
}

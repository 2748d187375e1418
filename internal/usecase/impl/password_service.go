// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"freightdesk/config"
	deliverycontext "freightdesk/internal/delivery/context"
	"freightdesk/internal/domain/entity"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const minPasswordLength = 8

// specialCharacters is the fixed set accepted by the complexity rules.
const specialCharacters = "@$!%*?&#^()_+-=[]{};:'\",.<>/\\|`~"

const hoursPerDay = 24

// Complexity violation messages, in rule order.
const (
	msgTooShort         = "password must be at least 8 characters long"
	msgMissingLowercase = "password must contain at least one lowercase letter"
	msgMissingUppercase = "password must contain at least one uppercase letter"
	msgMissingDigit     = "password must contain at least one number"
	msgMissingSpecial   = "password must contain at least one special character"
	msgPersonalInfo     = "password must not contain characters from your name or email address"
)

// passwordService implements the PasswordUsecase interface.
type passwordService struct {
	userRepo        repository.UserRepository
	expiryDays      int
	exemptUsernames []string
	logger          *slog.Logger
}

// PasswordServiceParams holds dependencies for passwordService, injected by Fx.
type PasswordServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Config   *config.Config
	Logger   *slog.Logger
}

// NewPasswordService is the constructor for passwordService.
func NewPasswordService(params PasswordServiceParams) usecase.PasswordUsecase {
	expiryDays := config.DefaultPasswordExpiryDays
	exempt := []string{config.DefaultExemptUsername}
	if params.Config != nil && params.Config.PasswordPolicy != nil {
		if params.Config.PasswordPolicy.ExpiryDays > 0 {
			expiryDays = params.Config.PasswordPolicy.ExpiryDays
		}
		if len(params.Config.PasswordPolicy.ExemptUsernames) > 0 {
			exempt = params.Config.PasswordPolicy.ExemptUsernames
		}
	}

	return &passwordService{
		userRepo:        params.UserRepo,
		expiryDays:      expiryDays,
		exemptUsernames: exempt,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *passwordService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ValidateComplexity checks the password against the five structural rules
// and the personal-information denylist. Every rule is evaluated; violations
// are collected in rule order rather than short-circuited.
func (srv *passwordService) ValidateComplexity(password, firstName, lastName, email string) usecase.ValidationResult {
	var violations []string

	if utf8.RuneCountInString(password) < minPasswordLength {
		violations = append(violations, msgTooShort)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specialCharacters, r):
			hasSpecial = true
		}
	}

	if !hasLower {
		violations = append(violations, msgMissingLowercase)
	}
	if !hasUpper {
		violations = append(violations, msgMissingUppercase)
	}
	if !hasDigit {
		violations = append(violations, msgMissingDigit)
	}
	if !hasSpecial {
		violations = append(violations, msgMissingSpecial)
	}

	// Single combined message for the denylist rule; the matching characters
	// are never enumerated back to the caller.
	if containsPersonalInfo(password, firstName, lastName, email) {
		violations = append(violations, msgPersonalInfo)
	}

	return usecase.ValidationResult{
		Valid:  len(violations) == 0,
		Errors: violations,
	}
}

// containsPersonalInfo reports whether the password contains any character
// from the denylist derived from the user's personal information.
//
// The denylist is built from single characters, which makes this rule
// extremely strict: any password sharing one letter with the user's name is
// rejected.
func containsPersonalInfo(password, firstName, lastName, email string) bool {
	forbidden := personalCharacterSet(firstName, lastName, email)
	if len(forbidden) == 0 {
		return false
	}

	for _, r := range strings.ToLower(password) {
		if forbidden[r] {
			return true
		}
	}

	return false
}

// personalCharacterSet builds the forbidden-character set: the lower-cased
// characters of the first name, last name, email local part and first domain
// label, deduplicated and restricted to ASCII letters and digits. Iteration
// is by Unicode code point so multi-byte characters count as one unit (and
// then fall out of the set, being non-ASCII).
func personalCharacterSet(firstName, lastName, email string) map[rune]bool {
	local, domainLabel := splitEmail(strings.ToLower(email))
	sources := []string{
		strings.ToLower(firstName),
		strings.ToLower(lastName),
		local,
		domainLabel,
	}

	set := make(map[rune]bool)
	for _, source := range sources {
		for _, r := range source {
			if isASCIIAlphanumeric(r) {
				set[r] = true
			}
		}
	}

	return set
}

// splitEmail returns the local part and the domain label before the first
// dot (excluding the TLD and any subsequent labels). An address without '@'
// is treated as all local part.
func splitEmail(email string) (local, domainLabel string) {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email, ""
	}

	local = email[:at]
	domain := email[at+1:]
	if dot := strings.IndexByte(domain, '.'); dot >= 0 {
		domain = domain[:dot]
	}

	return local, domain
}

func isASCIIAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsExpired reports whether the user's password is expired at the given
// time. Decision order, first match wins: exemption allow-list, forced-reset
// flag, never-changed password, whole-day age against the threshold.
func (srv *passwordService) IsExpired(user *entity.User, now time.Time) bool {
	if srv.isExempt(user.Username) {
		return false
	}

	if user.PasswordResetRequired {
		return true
	}

	if user.PasswordChangedAt == nil {
		return true
	}

	ageDays := int(now.Sub(*user.PasswordChangedAt).Hours() / hoursPerDay)

	return ageDays >= srv.expiryDays
}

func (srv *passwordService) isExempt(username string) bool {
	for _, exempt := range srv.exemptUsernames {
		if username == exempt {
			return true
		}
	}

	return false
}

// UpdatePassword atomically sets the new hash, stamps the change time and
// clears the forced-reset flag. Store failure comes back as an error result
// for the caller to surface; it is never escalated to a panic.
func (srv *passwordService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	if err := srv.userRepo.UpdatePassword(ctx, userID, newPasswordHash, time.Now()); err != nil {
		srv.log(ctx).Error("Failed to update password", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password updated", slog.Any("userID", userID))

	return nil
}

// ForceResetAll flags every non-exempt user for a forced password reset as a
// single bulk conditional update, so concurrent logins observe either the
// pre- or post-state per row, never a torn intermediate state.
func (srv *passwordService) ForceResetAll(ctx context.Context) (*usecase.ForceResetOutput, error) {
	affected, err := srv.userRepo.BulkSetResetRequired(ctx, srv.exemptUsernames, time.Now())
	if err != nil {
		srv.log(ctx).Error("Failed to force password reset for all users", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to force password reset for all users")
	}

	srv.log(ctx).Info("Forced password reset for all users", slog.Int64("affected", affected))

	return &usecase.ForceResetOutput{Affected: affected}, nil
}

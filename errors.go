package auth

import "github.com/goliatone/go-errors"

const (
	TextCodeDuplicateEmail     = "duplicate_email"
	TextCodeNotificationFailed = "notification_failed"
	TextCodeInvalidToken       = "invalid_token"
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeEmailNotVerified   = "email_not_verified"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeMissingSigningKey  = "missing_signing_key"
)

// ErrDuplicateEmail is returned when an account with the email already exists.
var ErrDuplicateEmail = errors.New("email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrNotificationFailed is returned when the verification email could not be
// dispatched. Registration is aborted and nothing is persisted.
var ErrNotificationFailed = errors.New("failed to send verification email", errors.CategoryOperation).
	WithTextCode(TextCodeNotificationFailed).
	WithCode(errors.CodeInternal)

// ErrInvalidToken is returned when a verification token matches no pending
// account, including tokens that were already consumed.
var ErrInvalidToken = errors.New("invalid token", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials is returned for unknown emails and for password
// mismatches alike, so callers cannot probe which emails are registered.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrEmailNotVerified is returned when an unverified account attempts to log in.
var ErrEmailNotVerified = errors.New("email not verified", errors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token fails to parse or verify.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMissingSigningKey is returned when the token service has no secret. The
// service fails closed: it will neither sign nor accept tokens.
var ErrMissingSigningKey = errors.New("signing key is not configured", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeInternal)

// ErrMismatchedHashAndPassword is the stable mismatch error surfaced by the
// password hasher.
var ErrMismatchedHashAndPassword = errors.New("hashed password mismatch", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty input where a value is mandatory.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

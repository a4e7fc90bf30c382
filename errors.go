package goVerify

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the verification engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUnauthorized is an exported constant or variable used by the verification engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is an exported constant or variable used by the verification engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the verification engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is an exported constant or variable used by the verification engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountDisabled is an exported constant or variable used by the verification engine.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrEmailInvalid is an exported constant or variable used by the verification engine.
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrCodeInvalid is an exported constant or variable used by the verification engine.
	ErrCodeInvalid = errors.New("verification code invalid")
	// ErrCodeExpired is an exported constant or variable used by the verification engine.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrVerifyRateLimited is an exported constant or variable used by the verification engine.
	ErrVerifyRateLimited = errors.New("verification attempts rate limited")
	// ErrVerifyUnavailable is an exported constant or variable used by the verification engine.
	ErrVerifyUnavailable = errors.New("verification limiter backend unavailable")
	// ErrTokenUnavailable is an exported constant or variable used by the verification engine.
	ErrTokenUnavailable = errors.New("verification token backend unavailable")
	// ErrResendAmbiguous is an exported constant or variable used by the verification engine.
	ErrResendAmbiguous = errors.New("resend target cannot be determined")
	// ErrNoPendingProfile is an exported constant or variable used by the verification engine.
	ErrNoPendingProfile = errors.New("no pending profile update")
	// ErrProfileConflict is an exported constant or variable used by the verification engine.
	ErrProfileConflict = errors.New("profile update conflicts with an existing account")
	// ErrPasswordMismatch is an exported constant or variable used by the verification engine.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrPasswordPolicy is an exported constant or variable used by the verification engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordReuse is an exported constant or variable used by the verification engine.
	ErrPasswordReuse = errors.New("new password must be different from current password")
	// ErrResetGrantInvalid is an exported constant or variable used by the verification engine.
	ErrResetGrantInvalid = errors.New("password reset grant invalid")
	// ErrTOTPInvalid is an exported constant or variable used by the verification engine.
	ErrTOTPInvalid = errors.New("invalid totp code")
	// ErrTOTPNotConfigured is an exported constant or variable used by the verification engine.
	ErrTOTPNotConfigured = errors.New("totp not configured")
	// ErrTOTPUnavailable is an exported constant or variable used by the verification engine.
	ErrTOTPUnavailable = errors.New("totp backend unavailable")
	// ErrTwoFactorModeInvalid is an exported constant or variable used by the verification engine.
	ErrTwoFactorModeInvalid = errors.New("invalid two-factor mode")
	// ErrProviderDuplicateEmail is an exported constant or variable used by the verification engine.
	ErrProviderDuplicateEmail = errors.New("provider duplicate email")
)

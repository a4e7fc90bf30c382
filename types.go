package goVerify

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/MrEthical07/goVerify/internal/audit"
)

// Purpose identifies the security action a verification code is bound to.
// Exactly one live code exists per (subject, purpose) pair.
type Purpose uint8

const (
	// PurposeActivation is an exported constant or variable used by the verification engine.
	PurposeActivation Purpose = iota
	// PurposePasswordReset is an exported constant or variable used by the verification engine.
	PurposePasswordReset
	// PurposeLogin2FA is an exported constant or variable used by the verification engine.
	PurposeLogin2FA
	// PurposeProfileUpdate is an exported constant or variable used by the verification engine.
	PurposeProfileUpdate

	purposeCount
)

// String returns the canonical wire name for the purpose.
func (p Purpose) String() string {
	switch p {
	case PurposeActivation:
		return "activation"
	case PurposePasswordReset:
		return "password_reset"
	case PurposeLogin2FA:
		return "login_2fa"
	case PurposeProfileUpdate:
		return "profile_update"
	default:
		return "unknown"
	}
}

// ParsePurpose maps a stored purpose name to its [Purpose] value. Legacy
// names from older deployments ("validation", "reinitialisation", "2FA")
// are accepted and normalized.
func ParsePurpose(s string) (Purpose, bool) {
	switch s {
	case "activation", "validation":
		return PurposeActivation, true
	case "password_reset", "reinitialisation":
		return PurposePasswordReset, true
	case "login_2fa", "2FA", "2fa":
		return PurposeLogin2FA, true
	case "profile_update":
		return PurposeProfileUpdate, true
	default:
		return 0, false
	}
}

// TwoFactorMode is the second-factor setting stored on an account.
type TwoFactorMode uint8

const (
	// TwoFactorNone is an exported constant or variable used by the verification engine.
	TwoFactorNone TwoFactorMode = iota
	// TwoFactorEmail is an exported constant or variable used by the verification engine.
	TwoFactorEmail
	// TwoFactorApp is an exported constant or variable used by the verification engine.
	TwoFactorApp
)

// String returns the canonical wire name for the mode.
func (m TwoFactorMode) String() string {
	switch m {
	case TwoFactorEmail:
		return "email"
	case TwoFactorApp:
		return "app"
	default:
		return "none"
	}
}

// ParseTwoFactorMode maps a stored mode name to its [TwoFactorMode] value.
// The legacy synonym "2fa" normalizes to email.
func ParseTwoFactorMode(s string) (TwoFactorMode, bool) {
	switch s {
	case "", "none":
		return TwoFactorNone, true
	case "email", "2fa", "2FA":
		return TwoFactorEmail, true
	case "app":
		return TwoFactorApp, true
	default:
		return 0, false
	}
}

// AccountStatus represents the lifecycle state of a user account.
type AccountStatus uint8

const (
	// AccountPendingVerification is an exported constant or variable used by the verification engine.
	AccountPendingVerification AccountStatus = iota
	// AccountActive is an exported constant or variable used by the verification engine.
	AccountActive
	// AccountDisabled is an exported constant or variable used by the verification engine.
	AccountDisabled
)

// Token is a single-use verification code row as resolved from storage.
type Token struct {
	SubjectID string
	Code      string
	Purpose   Purpose
	CreatedAt time.Time
	ExpiresAt time.Time
}

// UserRecord is the account record returned by [UserProvider].
type UserRecord struct {
	UserID        string
	Email         string
	PasswordHash  string
	Status        AccountStatus
	Role          string
	TwoFactorMode TwoFactorMode
}

// CreateUserInput is the input for [UserProvider.CreateUser].
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         string
	Status       AccountStatus
}

// ProfileEdit is the full buffered field set of a staged profile update.
// None of these fields are applied until the confirmation code for the
// current address is verified.
type ProfileEdit struct {
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	AddressLine string
	ZipCode     string
	City        string
}

// UserProvider is the primary interface that callers must implement to
// integrate goVerify with their user database. It covers account lookup,
// creation, activation, password rotation, two-factor settings, TOTP secret
// storage, and staged profile application.
//
// Implementations must return [ErrUserNotFound] for missing accounts,
// [ErrProviderDuplicateEmail] from CreateUser for duplicate addresses, and
// [ErrProfileConflict] from ApplyProfileEdit when the new email is already
// taken. ApplyProfileEdit must be atomic: either every field lands or none.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	ActivateUser(ctx context.Context, userID string) error
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
	SetTwoFactorMode(ctx context.Context, userID string, mode TwoFactorMode) error
	GetTOTPSecret(ctx context.Context, userID string) (string, error)
	SetTOTPSecret(ctx context.Context, userID string, secretBase32 string) error
	ApplyProfileEdit(ctx context.Context, userID string, edit ProfileEdit) error
}

// NotificationOutcome reports whether a notification was handed off.
// Failures are logged and counted; they never abort the issuing operation.
type NotificationOutcome struct {
	OK     bool
	Reason string
}

// Notifier delivers verification codes and account mail. Implementations
// own transport, templating, and retries; the engine treats Send as
// fire-and-forget.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) NotificationOutcome
}

// NotifierFunc adapts a function to the [Notifier] interface.
type NotifierFunc func(ctx context.Context, to, subject, body string) NotificationOutcome

// Send describes the send operation and its observable behavior.
func (f NotifierFunc) Send(ctx context.Context, to, subject, body string) NotificationOutcome {
	return f(ctx, to, subject, body)
}

// VerifyOutcome is returned by [Engine.SubmitCode] on success. It tells the
// caller which action completed so the right redirect or flash can be
// rendered.
type VerifyOutcome struct {
	Purpose Purpose
	UserID  string

	// LoggedIn is set when the submission finalized an authenticated
	// session (login 2FA, app TOTP login).
	LoggedIn bool

	// AccountActivated is set for activation codes.
	AccountActivated bool

	// ResetGrant carries the short-lived signed ticket that authorizes
	// [Engine.CompletePasswordReset]. Set only for password reset codes.
	ResetGrant string

	// ProfileApplied is set when a staged profile update landed.
	ProfileApplied bool
}

// LoginResult is returned by [Engine.Login]. When TwoFactorRequired is set
// the session is not yet authenticated and the caller must collect a code.
type LoginResult struct {
	TwoFactorRequired bool
	Method            TwoFactorMode
}

// TOTPSetup holds the base32 secret and otpauth:// URI returned by
// [Engine.SetupTOTP] for QR rendering.
type TOTPSetup struct {
	SecretBase32 string
	URI          string
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

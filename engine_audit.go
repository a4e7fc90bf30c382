package goVerify

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/goVerify/internal/audit"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventTwoFactorRequired      = "two_factor_required"
	auditEventTwoFactorModeChanged   = "two_factor_mode_changed"
	auditEventCodeIssued             = "code_issued"
	auditEventCodeResent             = "code_resent"
	auditEventResendAmbiguous        = "resend_ambiguous"
	auditEventVerifySuccess          = "verify_success"
	auditEventVerifyInvalid          = "verify_invalid"
	auditEventVerifyExpired          = "verify_expired"
	auditEventVerifyRateLimited      = "verify_rate_limited"
	auditEventAccountCreated         = "account_created"
	auditEventAccountDuplicate       = "account_creation_duplicate"
	auditEventAccountActivated       = "account_activated"
	auditEventResetRequested         = "password_reset_requested"
	auditEventResetGranted           = "password_reset_granted"
	auditEventResetCompleted         = "password_reset_completed"
	auditEventProfileUpdateRequested = "profile_update_requested"
	auditEventProfileApplied         = "profile_applied"
	auditEventProfileConflict        = "profile_conflict"
	auditEventTOTPSetupRequested     = "totp_setup_requested"
	auditEventTOTPSetupCancelled     = "totp_setup_cancelled"
	auditEventTOTPEnabled            = "totp_enabled"
	auditEventTOTPSuccess            = "totp_success"
	auditEventTOTPFailure            = "totp_failure"
	auditEventNotifyFailure          = "notification_failure"
)

// AuditErrorCode defines a public type used by goVerify APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthorized       AuditErrorCode = "unauthorized"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrAccountDisabled    AuditErrorCode = "account_disabled"
	auditErrCodeInvalid        AuditErrorCode = "code_invalid"
	auditErrCodeExpired        AuditErrorCode = "code_expired"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrResendAmbiguous    AuditErrorCode = "resend_ambiguous"
	auditErrNoPendingProfile   AuditErrorCode = "no_pending_profile"
	auditErrProfileConflict    AuditErrorCode = "profile_conflict"
	auditErrEmailInvalid       AuditErrorCode = "email_invalid"
	auditErrPasswordMismatch   AuditErrorCode = "password_mismatch"
	auditErrPasswordPolicy     AuditErrorCode = "password_policy"
	auditErrPasswordReuse      AuditErrorCode = "password_reuse"
	auditErrResetGrantInvalid  AuditErrorCode = "reset_grant_invalid"
	auditErrTOTPInvalid        AuditErrorCode = "totp_invalid"
	auditErrModeInvalid        AuditErrorCode = "two_factor_mode_invalid"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *internalaudit.Dispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrAccountDisabled):
		return auditErrAccountDisabled
	case errors.Is(err, ErrCodeInvalid):
		return auditErrCodeInvalid
	case errors.Is(err, ErrCodeExpired):
		return auditErrCodeExpired
	case errors.Is(err, ErrVerifyRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrResendAmbiguous):
		return auditErrResendAmbiguous
	case errors.Is(err, ErrNoPendingProfile):
		return auditErrNoPendingProfile
	case errors.Is(err, ErrProfileConflict):
		return auditErrProfileConflict
	case errors.Is(err, ErrEmailInvalid):
		return auditErrEmailInvalid
	case errors.Is(err, ErrPasswordMismatch):
		return auditErrPasswordMismatch
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, ErrPasswordReuse):
		return auditErrPasswordReuse
	case errors.Is(err, ErrResetGrantInvalid):
		return auditErrResetGrantInvalid
	case errors.Is(err, ErrTOTPInvalid),
		errors.Is(err, ErrTOTPNotConfigured):
		return auditErrTOTPInvalid
	case errors.Is(err, ErrTwoFactorModeInvalid):
		return auditErrModeInvalid
	case errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrProviderDuplicateEmail):
		return auditErrDuplicate
	case errors.Is(err, ErrTokenUnavailable),
		errors.Is(err, ErrVerifyUnavailable),
		errors.Is(err, ErrTOTPUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

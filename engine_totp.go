package goVerify

import (
	"context"
	"time"
)

// SetupTOTP returns the enrollment secret and otpauth:// URI for QR
// rendering, generating and storing a secret on first call. The account's
// two-factor mode does not change until the first code confirms.
func (e *Engine) SetupTOTP(ctx context.Context, sess *Session) (*TOTPSetup, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, ErrUnauthorized
	}

	secret, err := e.userProvider.GetTOTPSecret(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		secret, err = e.totp.GenerateSecret()
		if err != nil {
			return nil, err
		}
		if err := e.userProvider.SetTOTPSecret(ctx, sess.UserID, secret); err != nil {
			return nil, err
		}
	}

	sess.PendingTOTPSetup = true

	e.metricInc(MetricTOTPSetupRequested)
	e.emitAudit(ctx, auditEventTOTPSetupRequested, true, sess.UserID, sess.SessionID, nil, nil)

	return &TOTPSetup{
		SecretBase32: secret,
		URI:          e.totp.ProvisionURI(secret, sess.Email),
	}, nil
}

// ConfirmTOTPSetup verifies the first authenticator code and flips the
// account to app mode.
func (e *Engine) ConfirmTOTPSetup(ctx context.Context, sess *Session, code string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}

	secret, err := e.userProvider.GetTOTPSecret(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrTOTPNotConfigured
	}

	if !e.totp.VerifyCode(secret, code, time.Now()) {
		// Enrollment stays pending so the user can retry.
		e.metricInc(MetricTOTPFailure)
		e.emitAudit(ctx, auditEventTOTPFailure, false, sess.UserID, sess.SessionID, ErrTOTPInvalid, nil)
		return ErrTOTPInvalid
	}

	if err := e.userProvider.SetTwoFactorMode(ctx, sess.UserID, TwoFactorApp); err != nil {
		return err
	}

	sess.TwoFactorMode = TwoFactorApp
	sess.PendingTOTPSetup = false

	e.metricInc(MetricTOTPEnabled)
	e.emitAudit(ctx, auditEventTOTPEnabled, true, sess.UserID, sess.SessionID, nil, nil)

	return nil
}

// CancelTOTPSetup abandons an in-progress enrollment. The unconfirmed
// secret stays on the account: it is inert while the mode is not app, and
// the next setup reuses it.
func (e *Engine) CancelTOTPSetup(ctx context.Context, sess *Session) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}

	sess.PendingTOTPSetup = false
	e.emitAudit(ctx, auditEventTOTPSetupCancelled, true, sess.UserID, sess.SessionID, nil, nil)

	return nil
}

// SetTwoFactorMode switches between none and email. App mode is only
// reachable through [Engine.ConfirmTOTPSetup].
func (e *Engine) SetTwoFactorMode(ctx context.Context, sess *Session, mode TwoFactorMode) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}
	if mode != TwoFactorNone && mode != TwoFactorEmail {
		return ErrTwoFactorModeInvalid
	}

	if err := e.userProvider.SetTwoFactorMode(ctx, sess.UserID, mode); err != nil {
		return err
	}

	sess.TwoFactorMode = mode
	sess.PendingTOTPSetup = false

	e.emitAudit(ctx, auditEventTwoFactorModeChanged, true, sess.UserID, sess.SessionID, nil, func() map[string]string {
		return map[string]string{"mode": mode.String()}
	})

	return nil
}

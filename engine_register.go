package goVerify

import (
	"context"
	"errors"
)

const defaultRole = "user"

// Register creates a pending account and mails an activation code. The
// session remembers the address so the verify page can resend it.
func (e *Engine) Register(ctx context.Context, sess *Session, email, pw, confirm string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if sess == nil || e.passwordHash == nil {
		return ErrEngineNotReady
	}

	if !validEmail(email) {
		return ErrEmailInvalid
	}
	if pw != confirm {
		return ErrPasswordMismatch
	}
	if !passwordMeetsPolicy(pw, e.config.Password.MinLengthRegister) {
		return ErrPasswordPolicy
	}

	hash, err := e.passwordHash.Hash(pw)
	if err != nil {
		return err
	}

	user, err := e.userProvider.CreateUser(ctx, CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Role:         defaultRole,
		Status:       AccountPendingVerification,
	})
	if err != nil {
		if errors.Is(err, ErrProviderDuplicateEmail) {
			e.metricInc(MetricAccountDuplicate)
			e.emitAudit(ctx, auditEventAccountDuplicate, false, "", sess.SessionID, ErrAccountExists, nil)
			return ErrAccountExists
		}
		e.emitAudit(ctx, auditEventAccountCreated, false, "", sess.SessionID, err, nil)
		return err
	}

	sess.Email = user.Email

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, auditEventAccountCreated, true, user.UserID, sess.SessionID, nil, nil)

	return e.issueAndNotify(ctx, user, PurposeActivation, auditEventCodeIssued)
}

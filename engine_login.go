package goVerify

import (
	"context"
	"errors"
)

// Login checks credentials and either finalizes the session or parks it
// half-authenticated pending a second factor. Email-mode accounts get a
// login code mailed; app-mode accounts are prompted for their
// authenticator and nothing is mailed.
func (e *Engine) Login(ctx context.Context, sess *Session, email, pw string) (*LoginResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if sess == nil || e.passwordHash == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.userProvider.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", sess.SessionID, ErrInvalidCredentials, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := e.passwordHash.Verify(pw, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, sess.SessionID, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	if user.Status == AccountDisabled {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, sess.SessionID, ErrAccountDisabled, nil)
		return nil, ErrAccountDisabled
	}

	switch user.TwoFactorMode {
	case TwoFactorEmail:
		sess.setTemp2FA(user)
		if err := e.issueAndNotify(ctx, user, PurposeLogin2FA, auditEventCodeIssued); err != nil {
			sess.clearTemp2FA()
			return nil, err
		}
		e.metricInc(MetricTwoFactorRequired)
		e.emitAudit(ctx, auditEventTwoFactorRequired, true, user.UserID, sess.SessionID, nil, func() map[string]string {
			return map[string]string{"method": TwoFactorEmail.String()}
		})
		return &LoginResult{TwoFactorRequired: true, Method: TwoFactorEmail}, nil

	case TwoFactorApp:
		sess.setTemp2FA(user)
		e.metricInc(MetricTwoFactorRequired)
		e.emitAudit(ctx, auditEventTwoFactorRequired, true, user.UserID, sess.SessionID, nil, func() map[string]string {
			return map[string]string{"method": TwoFactorApp.String()}
		})
		return &LoginResult{TwoFactorRequired: true, Method: TwoFactorApp}, nil

	default:
		e.finalizeLogin(sess, user)
		e.metricInc(MetricLoginSuccess)
		e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, sess.SessionID, nil, nil)
		return &LoginResult{}, nil
	}
}

// Logout drops every identity field and pending action from the session.
func (e *Engine) Logout(sess *Session) {
	if sess == nil {
		return
	}
	*sess = Session{}
}

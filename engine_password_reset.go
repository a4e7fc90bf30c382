package goVerify

import "context"

// RequestPasswordReset mails a reset code. Pass the email for the
// logged-out flow; with an empty email the signed-in session's account is
// used.
func (e *Engine) RequestPasswordReset(ctx context.Context, sess *Session, email string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if sess == nil {
		return ErrEngineNotReady
	}

	var (
		user UserRecord
		err  error
	)
	switch {
	case email != "":
		user, err = e.userProvider.GetUserByEmail(ctx, email)
	case sess.Authenticated():
		user, err = e.userProvider.GetUserByID(ctx, sess.UserID)
	default:
		return ErrUserNotFound
	}
	if err != nil {
		e.emitAudit(ctx, auditEventResetRequested, false, "", sess.SessionID, err, nil)
		return err
	}

	sess.Email = user.Email

	e.metricInc(MetricResetRequested)
	e.emitAudit(ctx, auditEventResetRequested, true, user.UserID, sess.SessionID, nil, nil)

	return e.issueAndNotify(ctx, user, PurposePasswordReset, auditEventCodeIssued)
}

// CompletePasswordReset rotates the password for the grant's subject. The
// grant is the ticket handed out by [Engine.SubmitCode] after a reset code
// verified; nothing else authorizes this call. The new password must meet
// the reset policy and differ from the current one.
func (e *Engine) CompletePasswordReset(ctx context.Context, sess *Session, grant, newPassword, confirm string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.passwordHash == nil || e.resetGrants == nil {
		return ErrEngineNotReady
	}

	sessionID := ""
	if sess != nil {
		sessionID = sess.SessionID
	}

	userID, err := e.resetGrants.Parse(grant)
	if err != nil {
		e.emitAudit(ctx, auditEventResetCompleted, false, "", sessionID, err, nil)
		return err
	}

	if newPassword != confirm {
		e.emitAudit(ctx, auditEventResetCompleted, false, userID, sessionID, ErrPasswordMismatch, nil)
		return ErrPasswordMismatch
	}
	if !passwordMeetsPolicy(newPassword, e.config.Password.MinLengthReset) {
		e.emitAudit(ctx, auditEventResetCompleted, false, userID, sessionID, ErrPasswordPolicy, nil)
		return ErrPasswordPolicy
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	same, err := e.passwordHash.Verify(newPassword, user.PasswordHash)
	if err == nil && same {
		e.metricInc(MetricResetReuseRejected)
		e.emitAudit(ctx, auditEventResetCompleted, false, userID, sessionID, ErrPasswordReuse, nil)
		return ErrPasswordReuse
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := e.userProvider.UpdatePasswordHash(ctx, userID, hash); err != nil {
		e.emitAudit(ctx, auditEventResetCompleted, false, userID, sessionID, err, nil)
		return err
	}

	if sess != nil && sess.ResetUserID == userID {
		sess.ResetUserID = ""
	}

	e.metricInc(MetricResetCompleted)
	e.emitAudit(ctx, auditEventResetCompleted, true, userID, sessionID, nil, nil)

	return nil
}

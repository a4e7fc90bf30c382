package goVerify

import "context"

// RequestProfileUpdate stages the full edit in the session and mails a
// confirmation code to the account's current address, never the new one,
// so a session hijacker cannot redirect the confirmation. Nothing persists
// until the code verifies.
func (e *Engine) RequestProfileUpdate(ctx context.Context, sess *Session, edit ProfileEdit) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}

	if edit.Email != "" && !validEmail(edit.Email) {
		return ErrEmailInvalid
	}

	staged := edit
	sess.PendingProfile = &staged

	e.metricInc(MetricProfileRequested)
	e.emitAudit(ctx, auditEventProfileUpdateRequested, true, sess.UserID, sess.SessionID, nil, nil)

	user := UserRecord{UserID: sess.UserID, Email: sess.Email}
	return e.issueAndNotify(ctx, user, PurposeProfileUpdate, auditEventCodeIssued)
}

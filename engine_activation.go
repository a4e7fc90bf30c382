package goVerify

import "context"

// RequestActivation mails a fresh activation code to the signed-in
// account. No-op for accounts that already verified.
func (e *Engine) RequestActivation(ctx context.Context, sess *Session) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !sess.Authenticated() {
		return ErrUnauthorized
	}

	user, err := e.userProvider.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if user.Status != AccountPendingVerification {
		return nil
	}

	return e.issueAndNotify(ctx, user, PurposeActivation, auditEventCodeIssued)
}

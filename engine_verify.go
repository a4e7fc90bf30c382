package goVerify

import (
	"context"
	"errors"
	"time"
)

func mailSubjectForPurpose(p Purpose) string {
	switch p {
	case PurposeActivation:
		return "Activate your account"
	case PurposePasswordReset:
		return "Reset your password"
	case PurposeLogin2FA:
		return "Your login verification code"
	case PurposeProfileUpdate:
		return "Confirm your profile update"
	default:
		return "Your verification code"
	}
}

func codeMailBody(code string) string {
	return "Your verification code is: " + code + "\nIt expires in one minute."
}

// issueAndNotify mints a code for (user, purpose) and mails it. Issuance
// failures surface; delivery failures do not.
func (e *Engine) issueAndNotify(ctx context.Context, user UserRecord, purpose Purpose, event string) error {
	code, err := e.tokens.Issue(ctx, user.UserID, purpose)
	if err != nil {
		e.emitAudit(ctx, event, false, user.UserID, "", err, nil)
		return err
	}

	e.metricInc(MetricCodeIssued)
	e.emitAudit(ctx, event, true, user.UserID, "", nil, func() map[string]string {
		return map[string]string{"purpose": purpose.String()}
	})

	e.notify(ctx, user.UserID, user.Email, mailSubjectForPurpose(purpose), codeMailBody(code))
	return nil
}

// SubmitCode is the single entry point for every code submission. It
// resolves the code, consumes it, and dispatches on the stored purpose:
// activation, password reset grant, login 2FA finalization, or staged
// profile application. When the session holds an app-mode login and the
// code matches no stored token, the code is checked against the
// authenticator secret instead.
//
// Expired and invalid codes return [ErrCodeExpired] and [ErrCodeInvalid]
// respectively; neither grants anything.
func (e *Engine) SubmitCode(ctx context.Context, sess *Session, code string) (*VerifyOutcome, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricSubmitLatency, time.Since(start))
		}
	}()

	subject := sess.subjectHint()
	if e.limiter != nil && subject != "" {
		if err := e.limiter.Check(ctx, subject); err != nil {
			if errors.Is(err, errVerifyRateLimited) {
				e.metricInc(MetricVerifyRateLimited)
				e.emitAudit(ctx, auditEventVerifyRateLimited, false, subject, sess.SessionID, ErrVerifyRateLimited, nil)
				return nil, ErrVerifyRateLimited
			}
			return nil, err
		}
	}

	tok, err := e.tokens.ResolveValid(ctx, code)
	if err != nil {
		if !errors.Is(err, errTokenNotFound) {
			return nil, err
		}
		// No live token under this code. App-mode logins verify against
		// the authenticator instead of a mailed code.
		if sess.TwoFactorPending() && sess.Temp2FAMode == TwoFactorApp {
			return e.submitAppTOTP(ctx, sess, code)
		}
		return nil, e.rejectCode(ctx, sess, subject, code)
	}

	// Consume before any side effect so a replayed code can never run the
	// action twice, then sweep what has lapsed while we are here.
	if err := e.tokens.Consume(ctx, tok.Code); err != nil {
		return nil, err
	}
	if _, err := e.tokens.SweepExpired(ctx); err != nil {
		// Best effort: lapsed rows are invisible to lookups either way.
		_ = err
	}

	if e.limiter != nil && subject != "" {
		_ = e.limiter.Reset(ctx, subject)
	}

	switch tok.Purpose {
	case PurposeActivation:
		return e.completeActivation(ctx, sess, tok)
	case PurposePasswordReset:
		return e.grantPasswordReset(ctx, sess, tok)
	case PurposeLogin2FA:
		return e.completeLogin2FA(ctx, sess, tok)
	case PurposeProfileUpdate:
		return e.completeProfileUpdate(ctx, sess, tok)
	default:
		return nil, ErrCodeInvalid
	}
}

func (e *Engine) rejectCode(ctx context.Context, sess *Session, subject, code string) error {
	if e.limiter != nil && subject != "" {
		if err := e.limiter.RecordFailure(ctx, subject); err != nil && !errors.Is(err, errVerifyRateLimited) {
			return err
		}
	}

	expired, err := e.tokens.IsExpired(ctx, code)
	if err != nil {
		return err
	}
	if expired {
		e.metricInc(MetricVerifyExpired)
		e.emitAudit(ctx, auditEventVerifyExpired, false, subject, sess.SessionID, ErrCodeExpired, nil)
		return ErrCodeExpired
	}

	e.metricInc(MetricVerifyInvalid)
	e.emitAudit(ctx, auditEventVerifyInvalid, false, subject, sess.SessionID, ErrCodeInvalid, nil)
	return ErrCodeInvalid
}

func (e *Engine) submitAppTOTP(ctx context.Context, sess *Session, code string) (*VerifyOutcome, error) {
	userID := sess.Temp2FAUserID

	secret, err := e.userProvider.GetTOTPSecret(ctx, userID)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, ErrTOTPNotConfigured
	}

	if !e.totp.VerifyCode(secret, code, time.Now()) {
		// Temp login state stays so the user can retry.
		if e.limiter != nil {
			if err := e.limiter.RecordFailure(ctx, userID); err != nil && !errors.Is(err, errVerifyRateLimited) {
				return nil, err
			}
		}
		e.metricInc(MetricTOTPFailure)
		e.emitAudit(ctx, auditEventTOTPFailure, false, userID, sess.SessionID, ErrTOTPInvalid, nil)
		return nil, ErrTOTPInvalid
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if e.limiter != nil {
		_ = e.limiter.Reset(ctx, userID)
	}

	e.finalizeLogin(sess, user)
	e.metricInc(MetricTOTPSuccess)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventTOTPSuccess, true, user.UserID, sess.SessionID, nil, nil)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, sess.SessionID, nil, nil)

	return &VerifyOutcome{
		Purpose:  PurposeLogin2FA,
		UserID:   user.UserID,
		LoggedIn: true,
	}, nil
}

func (e *Engine) completeActivation(ctx context.Context, sess *Session, tok Token) (*VerifyOutcome, error) {
	if err := e.userProvider.ActivateUser(ctx, tok.SubjectID); err != nil {
		e.emitAudit(ctx, auditEventAccountActivated, false, tok.SubjectID, sess.SessionID, err, nil)
		return nil, err
	}

	if sess.Authenticated() && sess.UserID == tok.SubjectID {
		sess.Status = AccountActive
	}

	e.metricInc(MetricVerifySuccess)
	e.metricInc(MetricAccountActivated)
	e.emitAudit(ctx, auditEventAccountActivated, true, tok.SubjectID, sess.SessionID, nil, nil)

	return &VerifyOutcome{
		Purpose:          PurposeActivation,
		UserID:           tok.SubjectID,
		AccountActivated: true,
		LoggedIn:         sess.Authenticated(),
	}, nil
}

func (e *Engine) grantPasswordReset(ctx context.Context, sess *Session, tok Token) (*VerifyOutcome, error) {
	grant, err := e.resetGrants.Issue(tok.SubjectID)
	if err != nil {
		e.emitAudit(ctx, auditEventResetGranted, false, tok.SubjectID, sess.SessionID, err, nil)
		return nil, err
	}

	// Narrow marker only. The grant, not the session, authorizes
	// CompletePasswordReset.
	sess.ResetUserID = tok.SubjectID

	e.metricInc(MetricVerifySuccess)
	e.metricInc(MetricResetGranted)
	e.emitAudit(ctx, auditEventResetGranted, true, tok.SubjectID, sess.SessionID, nil, nil)

	return &VerifyOutcome{
		Purpose:    PurposePasswordReset,
		UserID:     tok.SubjectID,
		ResetGrant: grant,
	}, nil
}

func (e *Engine) completeLogin2FA(ctx context.Context, sess *Session, tok Token) (*VerifyOutcome, error) {
	user, err := e.userProvider.GetUserByID(ctx, tok.SubjectID)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, tok.SubjectID, sess.SessionID, err, nil)
		return nil, err
	}

	e.finalizeLogin(sess, user)
	e.metricInc(MetricVerifySuccess)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventVerifySuccess, true, user.UserID, sess.SessionID, nil, func() map[string]string {
		return map[string]string{"purpose": PurposeLogin2FA.String()}
	})
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, sess.SessionID, nil, nil)

	return &VerifyOutcome{
		Purpose:  PurposeLogin2FA,
		UserID:   user.UserID,
		LoggedIn: true,
	}, nil
}

func (e *Engine) completeProfileUpdate(ctx context.Context, sess *Session, tok Token) (*VerifyOutcome, error) {
	// The staged edit clears terminally: success or conflict, the flow
	// ends here and a new update must be requested from scratch.
	edit := sess.takePendingProfile()
	if edit == nil {
		e.emitAudit(ctx, auditEventProfileApplied, false, tok.SubjectID, sess.SessionID, ErrNoPendingProfile, nil)
		return nil, ErrNoPendingProfile
	}

	if err := e.userProvider.ApplyProfileEdit(ctx, tok.SubjectID, *edit); err != nil {
		if errors.Is(err, ErrProfileConflict) {
			e.metricInc(MetricProfileConflict)
			e.emitAudit(ctx, auditEventProfileConflict, false, tok.SubjectID, sess.SessionID, ErrProfileConflict, nil)
			return nil, ErrProfileConflict
		}
		e.emitAudit(ctx, auditEventProfileApplied, false, tok.SubjectID, sess.SessionID, err, nil)
		return nil, err
	}

	if sess.Authenticated() && sess.UserID == tok.SubjectID && edit.Email != "" {
		sess.Email = edit.Email
	}

	e.metricInc(MetricVerifySuccess)
	e.metricInc(MetricProfileApplied)
	e.emitAudit(ctx, auditEventProfileApplied, true, tok.SubjectID, sess.SessionID, nil, nil)

	return &VerifyOutcome{
		Purpose:        PurposeProfileUpdate,
		UserID:         tok.SubjectID,
		ProfileApplied: true,
		LoggedIn:       sess.Authenticated(),
	}, nil
}

// ResendCode re-issues the code for the action the session is most
// plausibly in the middle of: a half-authenticated email login first, then
// a staged profile update, then an email-keyed flow disambiguated by
// account status (pending accounts get activation, active ones get a
// reset). When no target can be determined it fails without minting
// anything.
func (e *Engine) ResendCode(ctx context.Context, sess *Session) (Purpose, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, ErrEngineNotReady
	}

	switch {
	case sess.TwoFactorPending():
		if sess.Temp2FAMode != TwoFactorEmail {
			// App logins have no mailed code to resend.
			return 0, e.rejectResend(ctx, sess)
		}
		user := UserRecord{UserID: sess.Temp2FAUserID, Email: sess.Temp2FAEmail}
		if err := e.issueAndNotify(ctx, user, PurposeLogin2FA, auditEventCodeResent); err != nil {
			return 0, err
		}
		e.metricInc(MetricCodeResent)
		return PurposeLogin2FA, nil

	case sess.Authenticated() && sess.PendingProfile != nil:
		user := UserRecord{UserID: sess.UserID, Email: sess.Email}
		if err := e.issueAndNotify(ctx, user, PurposeProfileUpdate, auditEventCodeResent); err != nil {
			return 0, err
		}
		e.metricInc(MetricCodeResent)
		return PurposeProfileUpdate, nil

	case sess.Email != "":
		user, err := e.userProvider.GetUserByEmail(ctx, sess.Email)
		if err != nil {
			e.emitAudit(ctx, auditEventCodeResent, false, "", sess.SessionID, err, nil)
			return 0, err
		}
		purpose := PurposePasswordReset
		if user.Status == AccountPendingVerification {
			purpose = PurposeActivation
		}
		if err := e.issueAndNotify(ctx, user, purpose, auditEventCodeResent); err != nil {
			return 0, err
		}
		e.metricInc(MetricCodeResent)
		return purpose, nil

	default:
		return 0, e.rejectResend(ctx, sess)
	}
}

func (e *Engine) rejectResend(ctx context.Context, sess *Session) error {
	e.metricInc(MetricResendAmbiguous)
	e.emitAudit(ctx, auditEventResendAmbiguous, false, sess.subjectHint(), sess.SessionID, ErrResendAmbiguous, nil)
	return ErrResendAmbiguous
}

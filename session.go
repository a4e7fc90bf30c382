package goVerify

// Session is the caller-owned conversational state the engine reads and
// writes across a verification flow. Callers persist it however they like
// (cookie store, server-side session); the engine only mutates the fields
// below and never stores a Session itself.
//
// A Session is not safe for concurrent use. Serialize access per visitor,
// the way web session middleware already does.
type Session struct {
	// Authenticated identity. Empty UserID means not logged in.
	UserID        string
	Email         string
	Role          string
	Status        AccountStatus
	TwoFactorMode TwoFactorMode
	SessionID     string

	// Half-authenticated login state: credentials checked, second factor
	// outstanding. Cleared on finalization.
	Temp2FAUserID string
	Temp2FAEmail  string
	Temp2FAMode   TwoFactorMode

	// ResetUserID marks a consumed password-reset code. It is a narrow
	// marker only; [Engine.CompletePasswordReset] authenticates with the
	// signed reset grant, not with this field.
	ResetUserID string

	// Staged profile update, applied only after code confirmation.
	PendingProfile *ProfileEdit

	// TOTP enrollment in progress: a secret exists on the account but has
	// not been confirmed with a first code.
	PendingTOTPSetup bool
}

// Authenticated reports whether the session carries a logged-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// TwoFactorPending reports whether a login passed the credential check and
// is waiting on a second factor.
func (s *Session) TwoFactorPending() bool {
	return s != nil && s.Temp2FAUserID != ""
}

func (s *Session) setTemp2FA(user UserRecord) {
	s.Temp2FAUserID = user.UserID
	s.Temp2FAEmail = user.Email
	s.Temp2FAMode = user.TwoFactorMode
}

func (s *Session) clearTemp2FA() {
	s.Temp2FAUserID = ""
	s.Temp2FAEmail = ""
	s.Temp2FAMode = TwoFactorNone
}

// takePendingProfile returns the staged edit and clears the slot. The slot
// is cleared terminally whether or not the apply succeeds.
func (s *Session) takePendingProfile() *ProfileEdit {
	edit := s.PendingProfile
	s.PendingProfile = nil
	return edit
}

// subjectHint returns the best available identity for attempt limiting:
// the half-authenticated login subject, then the authenticated user, then
// the remembered email.
func (s *Session) subjectHint() string {
	if s == nil {
		return ""
	}
	if s.Temp2FAUserID != "" {
		return s.Temp2FAUserID
	}
	if s.UserID != "" {
		return s.UserID
	}
	return s.Email
}

package goVerify

import (
	"context"
	"errors"
	"testing"
)

func TestRequestPasswordResetByEmail(t *testing.T) {
	te := newTestEngine(t)
	te.provider.addUser("a@example.com", "hash", AccountActive, TwoFactorNone)

	expectIssue(te.mock)

	sess := &Session{}
	if err := te.engine.RequestPasswordReset(context.Background(), sess, "a@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}

	if sess.Email != "a@example.com" {
		t.Fatal("session email not remembered for resend")
	}
	mails := te.notifier.sent()
	if len(mails) != 1 || mails[0].subject != "Reset your password" {
		t.Fatalf("mails = %+v", mails)
	}
	if te.metric(MetricResetRequested) != 1 {
		t.Fatal("reset requested not counted")
	}
}

func TestRequestPasswordResetForSignedInAccount(t *testing.T) {
	te := newTestEngine(t)
	user := te.provider.addUser("a@example.com", "hash", AccountActive, TwoFactorNone)

	expectIssue(te.mock)

	sess := &Session{UserID: user.UserID, Email: user.Email}
	if err := te.engine.RequestPasswordReset(context.Background(), sess, ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(te.notifier.sent()) != 1 {
		t.Fatal("no mail sent")
	}
}

func TestRequestPasswordResetWithoutIdentity(t *testing.T) {
	te := newTestEngine(t)

	err := te.engine.RequestPasswordReset(context.Background(), &Session{}, "")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	te := newTestEngine(t)

	err := te.engine.RequestPasswordReset(context.Background(), &Session{}, "ghost@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if len(te.notifier.sent()) != 0 {
		t.Fatal("unknown address got mail")
	}
}

func TestCompletePasswordReset(t *testing.T) {
	te := newTestEngine(t)
	oldHash := te.hash(t, "Old-Secret-Pass1")
	user := te.provider.addUser("a@example.com", oldHash, AccountActive, TwoFactorNone)

	grant, err := te.engine.resetGrants.Issue(user.UserID)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	sess := &Session{ResetUserID: user.UserID}
	const newPw = "New-Secret-Pass1"
	if err := te.engine.CompletePasswordReset(context.Background(), sess, grant, newPw, newPw); err != nil {
		t.Fatalf("complete: %v", err)
	}

	stored := te.provider.user(user.UserID).PasswordHash
	if ok, _ := te.engine.passwordHash.Verify(newPw, stored); !ok {
		t.Fatal("new password does not verify")
	}
	if ok, _ := te.engine.passwordHash.Verify("Old-Secret-Pass1", stored); ok {
		t.Fatal("old password still verifies")
	}
	if sess.ResetUserID != "" {
		t.Fatal("reset marker not cleared")
	}
	if te.metric(MetricResetCompleted) != 1 {
		t.Fatal("reset completed not counted")
	}
}

func TestCompletePasswordResetInvalidGrant(t *testing.T) {
	te := newTestEngine(t)

	err := te.engine.CompletePasswordReset(context.Background(), &Session{}, "garbage", "New-Secret-Pass1", "New-Secret-Pass1")
	if !errors.Is(err, ErrResetGrantInvalid) {
		t.Fatalf("err = %v, want ErrResetGrantInvalid", err)
	}
}

func TestCompletePasswordResetValidation(t *testing.T) {
	te := newTestEngine(t)
	oldHash := te.hash(t, "Old-Secret-Pass1")
	user := te.provider.addUser("a@example.com", oldHash, AccountActive, TwoFactorNone)

	grant, err := te.engine.resetGrants.Issue(user.UserID)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	cases := []struct {
		name    string
		pw      string
		confirm string
		want    error
	}{
		{"mismatch", "New-Secret-Pass1", "Other-Secret-Pass1", ErrPasswordMismatch},
		{"below reset minimum", "Aa1!Aa1!Aa1", "Aa1!Aa1!Aa1", ErrPasswordPolicy},
		{"missing classes", "newsecretpassword", "newsecretpassword", ErrPasswordPolicy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := te.engine.CompletePasswordReset(context.Background(), &Session{}, grant, tc.pw, tc.confirm)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	// Password unchanged through all rejections.
	if te.provider.user(user.UserID).PasswordHash != oldHash {
		t.Fatal("rejected reset changed the password")
	}
}

func TestCompletePasswordResetRejectsReuse(t *testing.T) {
	te := newTestEngine(t)
	const current = "Same-Secret-Pass1"
	hash := te.hash(t, current)
	user := te.provider.addUser("a@example.com", hash, AccountActive, TwoFactorNone)

	grant, err := te.engine.resetGrants.Issue(user.UserID)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	err = te.engine.CompletePasswordReset(context.Background(), &Session{}, grant, current, current)
	if !errors.Is(err, ErrPasswordReuse) {
		t.Fatalf("err = %v, want ErrPasswordReuse", err)
	}
	if te.metric(MetricResetReuseRejected) != 1 {
		t.Fatal("reuse rejection not counted")
	}
}

func TestCompletePasswordResetWorksWithNilSession(t *testing.T) {
	// The grant alone authorizes the reset; no session is required.
	te := newTestEngine(t)
	oldHash := te.hash(t, "Old-Secret-Pass1")
	user := te.provider.addUser("a@example.com", oldHash, AccountActive, TwoFactorNone)

	grant, err := te.engine.resetGrants.Issue(user.UserID)
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}

	const newPw = "New-Secret-Pass1"
	if err := te.engine.CompletePasswordReset(context.Background(), nil, grant, newPw, newPw); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ok, _ := te.engine.passwordHash.Verify(newPw, te.provider.user(user.UserID).PasswordHash); !ok {
		t.Fatal("new password does not verify")
	}
}

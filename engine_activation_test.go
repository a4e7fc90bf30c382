package goVerify

import (
	"context"
	"errors"
	"testing"
)

func TestRequestActivationRequiresAuth(t *testing.T) {
	te := newTestEngine(t)

	err := te.engine.RequestActivation(context.Background(), &Session{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestRequestActivationMailsPendingAccount(t *testing.T) {
	te := newTestEngine(t)
	user := te.provider.addUser("a@example.com", "hash", AccountPendingVerification, TwoFactorNone)

	expectIssue(te.mock)

	sess := &Session{UserID: user.UserID, Email: user.Email}
	if err := te.engine.RequestActivation(context.Background(), sess); err != nil {
		t.Fatalf("request: %v", err)
	}

	mails := te.notifier.sent()
	if len(mails) != 1 || mails[0].subject != "Activate your account" {
		t.Fatalf("mails = %+v", mails)
	}
}

func TestRequestActivationNoOpForActiveAccount(t *testing.T) {
	te := newTestEngine(t)
	user := te.provider.addUser("a@example.com", "hash", AccountActive, TwoFactorNone)

	sess := &Session{UserID: user.UserID, Email: user.Email}
	if err := te.engine.RequestActivation(context.Background(), sess); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(te.notifier.sent()) != 0 {
		t.Fatal("active account got an activation mail")
	}
	if err := te.mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

package goVerify

import (
	"context"
	"errors"
	"testing"
)

func newAuditedEngine(t *testing.T, sink AuditSink) *testEngine {
	t.Helper()
	return newTestEngine(t, func(b *Builder) {
		cfg := testConfig()
		cfg.Audit.Enabled = true
		cfg.Audit.BufferSize = 64
		b.WithConfig(cfg).WithAuditSink(sink)
	})
}

func drainEvents(sink *ChannelSink) map[string][]AuditEvent {
	byType := make(map[string][]AuditEvent)
	for {
		select {
		case ev := <-sink.Events():
			byType[ev.EventType] = append(byType[ev.EventType], ev)
		default:
			return byType
		}
	}
}

func TestRegisterEmitsAuditTrail(t *testing.T) {
	sink := NewChannelSink(64)
	te := newAuditedEngine(t, sink)

	expectIssue(te.mock)

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	if err := te.engine.Register(ctx, &Session{}, "a@example.com", "Sup3r-Secret", "Sup3r-Secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Close flushes the dispatcher before we read.
	te.engine.Close()
	events := drainEvents(sink)

	created := events["account_created"]
	if len(created) != 1 || !created[0].Success {
		t.Fatalf("account_created events = %+v", created)
	}
	if created[0].IP != "203.0.113.7" {
		t.Fatalf("event IP = %q", created[0].IP)
	}

	issued := events["code_issued"]
	if len(issued) != 1 || issued[0].Metadata["purpose"] != "activation" {
		t.Fatalf("code_issued events = %+v", issued)
	}
}

func TestFailedLoginEmitsErrorCode(t *testing.T) {
	sink := NewChannelSink(64)
	te := newAuditedEngine(t, sink)

	_, err := te.engine.Login(context.Background(), &Session{}, "ghost@example.com", "Sup3r-Secret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}

	te.engine.Close()
	events := drainEvents(sink)

	failures := events["login_failure"]
	if len(failures) != 1 {
		t.Fatalf("login_failure events = %+v", failures)
	}
	if failures[0].Success || failures[0].Error != "invalid_credentials" {
		t.Fatalf("event = %+v", failures[0])
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	sink := NewChannelSink(64)
	te := newTestEngine(t, func(b *Builder) {
		b.WithAuditSink(sink) // audit stays disabled in config
	})

	expectIssue(te.mock)
	if err := te.engine.Register(context.Background(), &Session{}, "a@example.com", "Sup3r-Secret", "Sup3r-Secret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	te.engine.Close()
	if events := drainEvents(sink); len(events) != 0 {
		t.Fatalf("disabled audit emitted %+v", events)
	}
}

func TestAuditErrorCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want AuditErrorCode
	}{
		{nil, ""},
		{ErrUnauthorized, auditErrUnauthorized},
		{ErrCodeInvalid, auditErrCodeInvalid},
		{ErrCodeExpired, auditErrCodeExpired},
		{ErrVerifyRateLimited, auditErrRateLimited},
		{ErrPasswordReuse, auditErrPasswordReuse},
		{ErrTOTPInvalid, auditErrTOTPInvalid},
		{ErrTokenUnavailable, auditErrUnavailable},
		{errors.New("surprise"), auditErrInternal},
	}

	for _, tc := range cases {
		if got := auditErrorCode(tc.err); got != tc.want {
			t.Errorf("auditErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestClientIPContext(t *testing.T) {
	ctx := context.Background()
	if got := clientIPFromContext(ctx); got != "" {
		t.Fatalf("empty context ip = %q", got)
	}

	ctx = WithClientIP(ctx, "198.51.100.9")
	if got := clientIPFromContext(ctx); got != "198.51.100.9" {
		t.Fatalf("ip = %q", got)
	}
}

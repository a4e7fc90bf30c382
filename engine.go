package goVerify

import (
	"context"

	"github.com/MrEthical07/goVerify/password"
	internalaudit "github.com/MrEthical07/goVerify/internal/audit"

	"github.com/google/uuid"
)

// Engine defines a public type used by goVerify APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	tokens       *tokenStore
	totp         *totpManager
	limiter      *verifyLimiter
	resetGrants  *resetGrantManager
	passwordHash *password.Argon2
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
	userProvider UserProvider
	notifier     Notifier
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() error {
	if e == nil || e.tokens == nil || e.userProvider == nil || e.notifier == nil {
		return ErrEngineNotReady
	}
	return nil
}

// notify delivers mail fire-and-forget. A failed send is counted and
// audited but never fails the calling operation: the code is already
// issued and resend covers the gap.
func (e *Engine) notify(ctx context.Context, userID, to, subject, body string) {
	outcome := e.notifier.Send(ctx, to, subject, body)
	if outcome.OK {
		return
	}

	e.metricInc(MetricNotifyFailure)
	e.emitAudit(ctx, auditEventNotifyFailure, false, userID, "", nil, func() map[string]string {
		return map[string]string{
			"subject": subject,
			"reason":  outcome.Reason,
		}
	})
}

// finalizeLogin promotes sess to fully authenticated from the given record
// and clears any half-authenticated state.
func (e *Engine) finalizeLogin(sess *Session, user UserRecord) {
	sess.UserID = user.UserID
	sess.Email = user.Email
	sess.Role = user.Role
	sess.Status = user.Status
	sess.TwoFactorMode = user.TwoFactorMode
	sess.SessionID = uuid.NewString()
	sess.clearTemp2FA()
}

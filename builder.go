package goVerify

import (
	"crypto/rand"
	"database/sql"
	"errors"

	"github.com/MrEthical07/goVerify/password"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goVerify APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	db     *sql.DB
	redis  *redis.Client

	userProvider UserProvider
	notifier     Notifier
	auditSink    AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithDB wires the SQL database that owns the verification_tokens table.
// Required.
func (b *Builder) WithDB(db *sql.DB) *Builder {
	b.db = db
	return b
}

// WithRedis wires the Redis client backing the submission attempt limiter.
// Optional: without it, attempt limiting is disabled.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserProvider describes the withuserprovider operation and its observable behavior.
//
// WithUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithNotifier describes the withnotifier operation and its observable behavior.
//
// WithNotifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.db == nil {
		return nil, errors.New("sql database required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}
	if b.notifier == nil {
		return nil, errors.New("notifier required")
	}

	if len(cfg.ResetGrant.SigningKey) == 0 {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		cfg.ResetGrant.SigningKey = key
	}

	engine := &Engine{
		config:       cfg,
		tokens:       newTokenStore(b.db, cfg.Token),
		totp:         newTOTPManager(cfg.TOTP),
		resetGrants:  newResetGrantManager(cfg.ResetGrant.SigningKey, cfg.ResetGrant.TTL),
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
		userProvider: b.userProvider,
		notifier:     b.notifier,
	}

	if b.redis != nil {
		engine.limiter = newVerifyLimiter(b.redis, cfg.Verify)
	}

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	b.built = true

	return engine, nil
}

package goVerify

import (
	"errors"
	"time"
)

// Config defines a public type used by goVerify APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	TOTP       TOTPConfig
	Password   PasswordConfig
	ResetGrant ResetGrantConfig
	Verify     VerifyConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by goVerify APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// TTL is the validity window of an issued code. Default 60s.
	TTL time.Duration
	// Digits is the code length. Default 6, zero-padded.
	Digits int
}

/*
====================================
TOTP CONFIG
====================================
*/

// TOTPConfig defines a public type used by goVerify APIs.
//
// TOTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TOTPConfig struct {
	Issuer       string
	Digits       int
	Period       int // seconds
	Skew         int // accepted steps on each side of now
	SecretLength int // base32 symbols
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by goVerify APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// MinLengthRegister applies at account creation, MinLengthReset at
	// password reset completion. Both require upper, lower, digit, and
	// symbol classes.
	MinLengthRegister int
	MinLengthReset    int
}

/*
====================================
RESET GRANT CONFIG
====================================
*/

// ResetGrantConfig defines a public type used by goVerify APIs.
//
// ResetGrantConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetGrantConfig struct {
	// TTL bounds the window between code verification and password
	// completion. Default 10 minutes.
	TTL time.Duration
	// SigningKey signs grant tickets (HS256). When empty, Build generates
	// an ephemeral key; set it explicitly to survive restarts.
	SigningKey []byte
}

/*
====================================
VERIFY CONFIG
====================================
*/

// VerifyConfig defines a public type used by goVerify APIs.
//
// VerifyConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type VerifyConfig struct {
	// MaxAttempts caps failed code submissions per subject within
	// AttemptWindow. Enforced only when a Redis client is wired.
	MaxAttempts   int
	AttemptWindow time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by goVerify APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goVerify APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the engine defaults: 60s / 6-digit codes, RFC 6238
// TOTP with one step of skew, argon2id hashing, and a 5-attempts-per-minute
// submission limiter.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:    60 * time.Second,
			Digits: 6,
		},
		TOTP: TOTPConfig{
			Issuer:       "goVerify",
			Digits:       6,
			Period:       30,
			Skew:         1,
			SecretLength: 16,
		},
		Password: PasswordConfig{
			Memory:            64 * 1024,
			Time:              3,
			Parallelism:       2,
			SaltLength:        16,
			KeyLength:         32,
			MinLengthRegister: 8,
			MinLengthReset:    12,
		},
		ResetGrant: ResetGrantConfig{
			TTL: 10 * time.Minute,
		},
		Verify: VerifyConfig{
			MaxAttempts:   5,
			AttemptWindow: time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.ResetGrant.SigningKey = cloneBytes(cfg.ResetGrant.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Token.TTL <= 0 {
		return errors.New("Token TTL must be positive")
	}
	if c.Token.Digits < 6 || c.Token.Digits > 10 {
		return errors.New("Token Digits must be between 6 and 10")
	}
	if c.TOTP.Digits < 6 || c.TOTP.Digits > 8 {
		return errors.New("TOTP Digits must be between 6 and 8")
	}
	if c.TOTP.Period <= 0 {
		return errors.New("TOTP Period must be positive")
	}
	if c.TOTP.Skew < 0 || c.TOTP.Skew > 2 {
		return errors.New("TOTP Skew must be between 0 and 2")
	}
	if c.TOTP.SecretLength < 16 {
		return errors.New("TOTP SecretLength must be >= 16")
	}
	if c.Password.MinLengthRegister < 8 {
		return errors.New("Password MinLengthRegister must be >= 8")
	}
	if c.Password.MinLengthReset < c.Password.MinLengthRegister {
		return errors.New("Password MinLengthReset must be >= MinLengthRegister")
	}
	if c.ResetGrant.TTL <= 0 {
		return errors.New("ResetGrant TTL must be positive")
	}
	if len(c.ResetGrant.SigningKey) > 0 && len(c.ResetGrant.SigningKey) < 32 {
		return errors.New("ResetGrant SigningKey must be >= 32 bytes when set")
	}
	if c.Verify.MaxAttempts <= 0 {
		return errors.New("Verify MaxAttempts must be positive")
	}
	if c.Verify.AttemptWindow <= 0 {
		return errors.New("Verify AttemptWindow must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be positive when audit is enabled")
	}

	return nil
}

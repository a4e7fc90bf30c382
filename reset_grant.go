package goVerify

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetGrantPurpose = "password_reset"

type resetGrantClaims struct {
	Purpose string `json:"prp"`
	jwt.RegisteredClaims
}

// resetGrantManager mints and validates the narrow elevation handed out
// after a password-reset code verifies. The grant authorizes exactly one
// thing, completing a password reset for its subject, and expires on its
// own clock independent of the code TTL.
type resetGrantManager struct {
	key []byte
	ttl time.Duration
}

func newResetGrantManager(key []byte, ttl time.Duration) *resetGrantManager {
	return &resetGrantManager{key: key, ttl: ttl}
}

func (m *resetGrantManager) Issue(userID string) (string, error) {
	if m == nil || len(m.key) == 0 {
		return "", ErrEngineNotReady
	}

	now := time.Now()
	claims := resetGrantClaims{
		Purpose: resetGrantPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResetGrantInvalid, err)
	}
	return signed, nil
}

// Parse validates the grant signature, expiry, and purpose claim, and
// returns the subject user ID.
func (m *resetGrantManager) Parse(grant string) (string, error) {
	if m == nil || len(m.key) == 0 {
		return "", ErrEngineNotReady
	}

	var claims resetGrantClaims
	_, err := jwt.ParseWithClaims(grant, &claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResetGrantInvalid, err)
	}
	if claims.Purpose != resetGrantPurpose || claims.Subject == "" {
		return "", ErrResetGrantInvalid
	}

	return claims.Subject, nil
}

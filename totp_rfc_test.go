package goVerify

import (
	"strings"
	"testing"
	"time"
)

// Base32 encoding of the 20-byte ASCII seed "12345678901234567890" used by
// the RFC 6238 appendix B test vectors.
const rfcSeedBase32 = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func rfcManager(digits, skew int) *totpManager {
	return newTOTPManager(TOTPConfig{
		Issuer:       "goVerify",
		Digits:       digits,
		Period:       30,
		Skew:         skew,
		SecretLength: 16,
	})
}

func TestVerifyCodeRFCVectors(t *testing.T) {
	cases := []struct {
		unix int64
		code string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1111111111, "14050471"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
		{20000000000, "65353130"},
	}

	m := rfcManager(8, 0)
	for _, tc := range cases {
		now := time.Unix(tc.unix, 0).UTC()
		if !m.VerifyCode(rfcSeedBase32, tc.code, now) {
			t.Errorf("t=%d: code %s rejected", tc.unix, tc.code)
		}
	}
}

func TestVerifyCodeSixDigitTruncation(t *testing.T) {
	// 6-digit codes are the low-order digits of the 8-digit vectors.
	m := rfcManager(6, 0)
	cases := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, tc := range cases {
		now := time.Unix(tc.unix, 0).UTC()
		if !m.VerifyCode(rfcSeedBase32, tc.code, now) {
			t.Errorf("t=%d: code %s rejected", tc.unix, tc.code)
		}
	}
}

func TestVerifyCodeSkewWindow(t *testing.T) {
	now := time.Unix(1111111111, 0).UTC()
	counter := now.Unix() / 30

	secretRaw := []byte("12345678901234567890")
	prev := hotpCode(secretRaw, counter-1, 6)
	next := hotpCode(secretRaw, counter+1, 6)

	strict := rfcManager(6, 0)
	if strict.VerifyCode(rfcSeedBase32, prev, now) {
		t.Error("skew 0 accepted previous step")
	}
	if strict.VerifyCode(rfcSeedBase32, next, now) {
		t.Error("skew 0 accepted next step")
	}

	loose := rfcManager(6, 1)
	if !loose.VerifyCode(rfcSeedBase32, prev, now) {
		t.Error("skew 1 rejected previous step")
	}
	if !loose.VerifyCode(rfcSeedBase32, next, now) {
		t.Error("skew 1 rejected next step")
	}
	far := hotpCode(secretRaw, counter+2, 6)
	if loose.VerifyCode(rfcSeedBase32, far, now) {
		t.Error("skew 1 accepted step +2")
	}
}

func TestVerifyCodeRejectsMalformedInput(t *testing.T) {
	m := rfcManager(6, 1)
	now := time.Unix(1111111111, 0).UTC()

	cases := []struct {
		name   string
		secret string
		code   string
	}{
		{"empty code", rfcSeedBase32, ""},
		{"short code", rfcSeedBase32, "12345"},
		{"long code", rfcSeedBase32, "1234567"},
		{"non numeric", rfcSeedBase32, "12a456"},
		{"empty secret", "", "050471"},
		{"undecodable secret", "not base32 at all!!", "050471"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if m.VerifyCode(tc.secret, tc.code, now) {
				t.Error("malformed input accepted")
			}
		})
	}
}

func TestVerifyCodeNormalizesSecret(t *testing.T) {
	m := rfcManager(6, 0)
	now := time.Unix(59, 0).UTC()

	// Lowercase and trailing padding both appear in the wild.
	if !m.VerifyCode(strings.ToLower(rfcSeedBase32), "287082", now) {
		t.Error("lowercase secret rejected")
	}
	if !m.VerifyCode(rfcSeedBase32+"======", "287082", now) {
		t.Error("padded secret rejected")
	}
}

func TestVerifyCodeTrimsWhitespace(t *testing.T) {
	m := rfcManager(6, 0)
	now := time.Unix(59, 0).UTC()
	if !m.VerifyCode(rfcSeedBase32, "  287082  ", now) {
		t.Error("whitespace-wrapped code rejected")
	}
}

func TestGenerateSecret(t *testing.T) {
	m := rfcManager(6, 1)

	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		secret, err := m.GenerateSecret()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(secret) != 16 {
			t.Fatalf("secret length = %d, want 16", len(secret))
		}
		for _, r := range secret {
			if !strings.ContainsRune(totpSecretAlphabet, r) {
				t.Fatalf("secret %q contains %q outside base32 alphabet", secret, r)
			}
		}
		seen[secret] = true
	}
	if len(seen) < 2 {
		t.Error("secrets not random")
	}
}

func TestProvisionURI(t *testing.T) {
	m := rfcManager(6, 1)
	uri := m.ProvisionURI(rfcSeedBase32, "user@example.com")

	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("uri = %q, want otpauth://totp/ prefix", uri)
	}
	for _, want := range []string{
		"secret=" + rfcSeedBase32,
		"issuer=goVerify",
		"period=30",
		"digits=6",
		"algorithm=SHA1",
	} {
		if !strings.Contains(uri, want) {
			t.Errorf("uri %q missing %q", uri, want)
		}
	}
}

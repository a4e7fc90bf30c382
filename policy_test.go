package goVerify

import "testing"

func TestPasswordMeetsPolicy(t *testing.T) {
	cases := []struct {
		name   string
		pw     string
		minLen int
		want   bool
	}{
		{"all classes", "Sup3r-Secret", 8, true},
		{"exact length", "Aa1!Aa1!", 8, true},
		{"too short", "Aa1!", 8, false},
		{"no upper", "sup3r-secret", 8, false},
		{"no lower", "SUP3R-SECRET", 8, false},
		{"no digit", "Super-Secret", 8, false},
		{"no symbol", "Sup3rSecret1", 8, false},
		{"reset minimum", "Aa1!Aa1!Aa1", 12, false},
		{"reset minimum met", "Aa1!Aa1!Aa1!", 12, true},
		{"unicode symbol counts", "Passw0rdé", 8, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := passwordMeetsPolicy(tc.pw, tc.minLen); got != tc.want {
				t.Fatalf("passwordMeetsPolicy(%q, %d) = %v, want %v", tc.pw, tc.minLen, got, tc.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"a@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"not-an-email", false},
		{"a@", false},
		{"@example.com", false},
		{"Name <a@example.com>", false},
		{"a@example.com ", false},
	}

	for _, tc := range cases {
		if got := validEmail(tc.addr); got != tc.want {
			t.Errorf("validEmail(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestParsePurposeLegacyNames(t *testing.T) {
	cases := []struct {
		in   string
		want Purpose
		ok   bool
	}{
		{"activation", PurposeActivation, true},
		{"validation", PurposeActivation, true},
		{"password_reset", PurposePasswordReset, true},
		{"reinitialisation", PurposePasswordReset, true},
		{"login_2fa", PurposeLogin2FA, true},
		{"2FA", PurposeLogin2FA, true},
		{"2fa", PurposeLogin2FA, true},
		{"profile_update", PurposeProfileUpdate, true},
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParsePurpose(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParsePurpose(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPurposeStringRoundTrip(t *testing.T) {
	for p := Purpose(0); p < purposeCount; p++ {
		got, ok := ParsePurpose(p.String())
		if !ok || got != p {
			t.Errorf("round trip failed for %v", p)
		}
	}
}

func TestParseTwoFactorMode(t *testing.T) {
	cases := []struct {
		in   string
		want TwoFactorMode
		ok   bool
	}{
		{"", TwoFactorNone, true},
		{"none", TwoFactorNone, true},
		{"email", TwoFactorEmail, true},
		{"2fa", TwoFactorEmail, true},
		{"2FA", TwoFactorEmail, true},
		{"app", TwoFactorApp, true},
		{"sms", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseTwoFactorMode(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseTwoFactorMode(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

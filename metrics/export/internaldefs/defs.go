package internaldefs

import (
	goVerify "github.com/MrEthical07/goVerify"
)

// CounterDef defines a public type used by goVerify APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goVerify.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goVerify APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goVerify.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the verification engine.
var CounterDefs = []CounterDef{
	{ID: goVerify.MetricLoginSuccess, Name: "goverify_login_success_total", Help: "Successful logins."},
	{ID: goVerify.MetricLoginFailure, Name: "goverify_login_failure_total", Help: "Failed login attempts."},
	{ID: goVerify.MetricTwoFactorRequired, Name: "goverify_two_factor_required_total", Help: "Logins parked pending a second factor."},
	{ID: goVerify.MetricCodeIssued, Name: "goverify_code_issued_total", Help: "Verification codes issued."},
	{ID: goVerify.MetricCodeResent, Name: "goverify_code_resent_total", Help: "Verification codes re-issued on request."},
	{ID: goVerify.MetricResendAmbiguous, Name: "goverify_resend_ambiguous_total", Help: "Resend requests with no determinable target."},
	{ID: goVerify.MetricVerifySuccess, Name: "goverify_verify_success_total", Help: "Successful code verifications."},
	{ID: goVerify.MetricVerifyInvalid, Name: "goverify_verify_invalid_total", Help: "Submissions matching no live code."},
	{ID: goVerify.MetricVerifyExpired, Name: "goverify_verify_expired_total", Help: "Submissions matching only a lapsed code."},
	{ID: goVerify.MetricVerifyRateLimited, Name: "goverify_verify_rate_limited_total", Help: "Rate-limited code submissions."},
	{ID: goVerify.MetricAccountCreated, Name: "goverify_account_created_total", Help: "Accounts created pending activation."},
	{ID: goVerify.MetricAccountDuplicate, Name: "goverify_account_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: goVerify.MetricAccountActivated, Name: "goverify_account_activated_total", Help: "Accounts activated by code."},
	{ID: goVerify.MetricResetRequested, Name: "goverify_reset_requested_total", Help: "Password reset requests."},
	{ID: goVerify.MetricResetGranted, Name: "goverify_reset_granted_total", Help: "Reset grants issued after code verification."},
	{ID: goVerify.MetricResetCompleted, Name: "goverify_reset_completed_total", Help: "Completed password resets."},
	{ID: goVerify.MetricResetReuseRejected, Name: "goverify_reset_reuse_rejected_total", Help: "Reset completions rejected for password reuse."},
	{ID: goVerify.MetricProfileRequested, Name: "goverify_profile_requested_total", Help: "Staged profile updates."},
	{ID: goVerify.MetricProfileApplied, Name: "goverify_profile_applied_total", Help: "Profile updates applied after confirmation."},
	{ID: goVerify.MetricProfileConflict, Name: "goverify_profile_conflict_total", Help: "Profile updates rejected on email conflict."},
	{ID: goVerify.MetricTOTPSetupRequested, Name: "goverify_totp_setup_requested_total", Help: "Authenticator enrollments started."},
	{ID: goVerify.MetricTOTPEnabled, Name: "goverify_totp_enabled_total", Help: "Accounts switched to app-mode two-factor."},
	{ID: goVerify.MetricTOTPSuccess, Name: "goverify_totp_success_total", Help: "Successful TOTP verifications."},
	{ID: goVerify.MetricTOTPFailure, Name: "goverify_totp_failure_total", Help: "Failed TOTP verifications."},
	{ID: goVerify.MetricNotifyFailure, Name: "goverify_notify_failure_total", Help: "Notification deliveries reported failed."},
}

// HistogramDefs is an exported constant or variable used by the verification engine.
var HistogramDefs = []HistogramDef{
	{ID: goVerify.MetricSubmitLatency, Name: "goverify_submit_latency_seconds", Help: "SubmitCode latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the verification engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the verification engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

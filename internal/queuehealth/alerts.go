// Package queuehealth turns a dispatch-queue diagnostics snapshot into a
// severity-tagged alert list for the cutover readiness evaluator.
package queuehealth

import "fmt"

// Level is an alert severity.
type Level string

const (
	LevelWarn     Level = "warn"
	LevelCritical Level = "critical"
)

// Alert codes, stable for operator tooling and tests.
const (
	CodeLeaseExpired              = "processing_lease_expired"
	CodeDeadLetterRecent          = "dead_letter_recent"
	CodeClaimableAgeSLOBreached   = "claimable_age_slo_breached"
	CodeClaimableAgeAboveTarget   = "claimable_age_above_target"
	CodeRetryableDueNowBacklog    = "retryable_due_now_backlog"
	CodeHighRetryAttempts         = "high_retry_attempts"
	CodeRetriesWithoutRecentSends = "retries_without_recent_success"
)

// Claim-latency thresholds in seconds.
const (
	claimableAgeTargetSeconds = 10
	claimableAgeSLOSeconds    = 60
)

// Snapshot carries externally supplied dispatch-queue counters. Pure
// input; absent optional counters are zero.
type Snapshot struct {
	ExpiredLeases              int      `json:"expired_leases" yaml:"expired_leases"`
	DeadLettersLastHour        int      `json:"dead_letters_last_hour" yaml:"dead_letters_last_hour"`
	OldestClaimableAgeSeconds  *float64 `json:"oldest_claimable_age_seconds,omitempty" yaml:"oldest_claimable_age_seconds,omitempty"`
	RetryableDueNow            int      `json:"retryable_due_now" yaml:"retryable_due_now"`
	HighRetryAttempts          int      `json:"high_retry_attempts" yaml:"high_retry_attempts"`
	RetryableFailuresLast10Min int      `json:"retryable_failures_last_10m" yaml:"retryable_failures_last_10m"`
	SuccessfulSendsLast10Min   int      `json:"successful_sends_last_10m" yaml:"successful_sends_last_10m"`
}

// Alert is one triggered queue-health condition.
type Alert struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Build evaluates each health condition independently; several alerts
// can fire for one snapshot. A nil snapshot yields no alerts.
func Build(s *Snapshot) []Alert {
	if s == nil {
		return nil
	}

	var alerts []Alert

	if s.ExpiredLeases > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Code:    CodeLeaseExpired,
			Message: fmt.Sprintf("%d notification(s) stuck with an expired processing lease", s.ExpiredLeases),
		})
	}

	if s.DeadLettersLastHour > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Code:    CodeDeadLetterRecent,
			Message: fmt.Sprintf("%d notification(s) dead-lettered in the last hour", s.DeadLettersLastHour),
		})
	}

	// The two age tiers are mutually exclusive with each other but
	// independent of every other check.
	if age := s.OldestClaimableAgeSeconds; age != nil {
		switch {
		case *age > claimableAgeSLOSeconds:
			alerts = append(alerts, Alert{
				Level:   LevelCritical,
				Code:    CodeClaimableAgeSLOBreached,
				Message: fmt.Sprintf("oldest claimable notification is %.0fs old (SLO %ds)", *age, claimableAgeSLOSeconds),
			})
		case *age > claimableAgeTargetSeconds:
			alerts = append(alerts, Alert{
				Level:   LevelWarn,
				Code:    CodeClaimableAgeAboveTarget,
				Message: fmt.Sprintf("oldest claimable notification is %.0fs old (target %ds)", *age, claimableAgeTargetSeconds),
			})
		}
	}

	if s.RetryableDueNow > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelWarn,
			Code:    CodeRetryableDueNowBacklog,
			Message: fmt.Sprintf("%d retryable notification(s) due for redelivery now", s.RetryableDueNow),
		})
	}

	if s.HighRetryAttempts > 0 {
		alerts = append(alerts, Alert{
			Level:   LevelWarn,
			Code:    CodeHighRetryAttempts,
			Message: fmt.Sprintf("%d notification(s) at a high retry attempt count", s.HighRetryAttempts),
		})
	}

	if s.RetryableFailuresLast10Min > 0 && s.SuccessfulSendsLast10Min == 0 {
		alerts = append(alerts, Alert{
			Level:   LevelWarn,
			Code:    CodeRetriesWithoutRecentSends,
			Message: fmt.Sprintf("%d retryable failure(s) in the last 10m with zero successful sends", s.RetryableFailuresLast10Min),
		})
	}

	return alerts
}

// HasLevel reports whether any alert in the list carries the level.
func HasLevel(alerts []Alert, level Level) bool {
	for _, a := range alerts {
		if a.Level == level {
			return true
		}
	}
	return false
}

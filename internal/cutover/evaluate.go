package cutover

import (
	"fmt"

	"github.com/hailer-chat/pushgate/internal/parity"
	"github.com/hailer-chat/pushgate/internal/queuehealth"
)

// Status is the operator-facing readiness classification.
type Status string

const (
	StatusReady   Status = "ready"
	StatusCaution Status = "caution"
	StatusBlocked Status = "blocked"
	StatusActive  Status = "active"
)

// Action is the recommended next operator step.
type Action string

const (
	ActionFixAlertsFirst        Action = "fix_alerts_first"
	ActionRollbackToShadow      Action = "rollback_to_shadow"
	ActionEnableShadowWakeups   Action = "enable_shadow_wakeups"
	ActionMonitorLiveWakeup     Action = "monitor_live_wakeup"
	ActionCollectShadowParity   Action = "collect_shadow_parity"
	ActionStartCutoverRehearsal Action = "start_cutover_rehearsal"
)

// driftDetailRows caps how many drift rows surface in details lines.
const driftDetailRows = 3

// WakeupState is the wakeup scheduler configuration as reported by the
// backend. A nil *WakeupState means diagnostics are unavailable.
type WakeupState struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	ShadowMode bool `json:"shadow_mode" yaml:"shadow_mode"`

	// IntervalSeconds is the scheduler tick, surfaced in details only.
	IntervalSeconds int `json:"interval_seconds,omitempty" yaml:"interval_seconds,omitempty"`
}

// Live reports whether wakeup sends are actually reaching users.
func (w WakeupState) Live() bool {
	return w.Enabled && !w.ShadowMode
}

// Readiness is the derived, stateless cutover classification.
type Readiness struct {
	Status            Status   `json:"status"`
	Summary           string   `json:"summary"`
	Details           []string `json:"details"`
	RecommendedAction Action   `json:"recommended_action"`
}

// Evaluate combines the wakeup scheduler state, queue-health alerts, and
// the parity aggregation into one readiness verdict.
//
// Branches are evaluated top-to-bottom; the first match returns.
func Evaluate(w *WakeupState, alerts []queuehealth.Alert, summary parity.Summary, drift []parity.DriftRow) Readiness {
	// 1. No scheduler state at all: nothing below can be trusted.
	if w == nil {
		return Readiness{
			Status:            StatusBlocked,
			Summary:           "wakeup scheduler diagnostics unavailable",
			Details:           []string{"scheduler state could not be read; resolve diagnostics before any cutover step"},
			RecommendedAction: ActionFixAlertsFirst,
		}
	}

	// 2. Critical queue health blocks everything. Live + critical is
	// worse than shadow + critical: recommend rolling back.
	if queuehealth.HasLevel(alerts, queuehealth.LevelCritical) {
		details := alertDetails(alerts, queuehealth.LevelCritical)
		if w.Live() {
			return Readiness{
				Status:            StatusBlocked,
				Summary:           "critical queue alerts while wakeup sends are live",
				Details:           details,
				RecommendedAction: ActionRollbackToShadow,
			}
		}
		return Readiness{
			Status:            StatusBlocked,
			Summary:           "critical queue alerts present",
			Details:           details,
			RecommendedAction: ActionFixAlertsFirst,
		}
	}

	// 3. Scheduler off entirely: no shadow data will ever accumulate.
	if !w.Enabled {
		return Readiness{
			Status:            StatusCaution,
			Summary:           "wakeup scheduler is disabled",
			Details:           []string{"enable the scheduler in shadow mode to start collecting parity traces"},
			RecommendedAction: ActionEnableShadowWakeups,
		}
	}

	// 4-5. Live sends active: warnings demote to caution, otherwise the
	// cutover is simply running. Drift no longer changes status once
	// live; it is surfaced in details only.
	if w.Live() {
		if queuehealth.HasLevel(alerts, queuehealth.LevelWarn) {
			return Readiness{
				Status:            StatusCaution,
				Summary:           "wakeup sends are live with queue warnings",
				Details:           alertDetails(alerts, queuehealth.LevelWarn),
				RecommendedAction: ActionMonitorLiveWakeup,
			}
		}
		r := Readiness{
			Status:            StatusActive,
			Summary:           "wakeup sends are live",
			Details:           []string{schedulerDetail(*w)},
			RecommendedAction: ActionMonitorLiveWakeup,
		}
		r.Details = append(r.Details, driftDetails(drift)...)
		return r
	}

	shadowTotal := summary.Total(parity.SourceShadow)
	cronTotal := summary.Total(parity.SourceCron)
	wakeupTotal := summary.Total(parity.SourceWakeup)

	// 6. Shadow mode with no shadow traces yet.
	if shadowTotal == 0 {
		return Readiness{
			Status:            StatusCaution,
			Summary:           "shadow mode active but no shadow traces recorded yet",
			Details:           []string{schedulerDetail(*w), "wait for the scheduler to produce shadow traces"},
			RecommendedAction: ActionCollectShadowParity,
		}
	}

	// 7. Shadow traces exist but there is no baseline to compare against.
	if cronTotal == 0 && wakeupTotal == 0 {
		return Readiness{
			Status:  StatusCaution,
			Summary: "shadow traces present but no cron or wakeup baseline to compare",
			Details: []string{
				fmt.Sprintf("shadow traces: %d", shadowTotal),
				"no cron or wakeup traces in the batch; parity cannot be established",
			},
			RecommendedAction: ActionCollectShadowParity,
		}
	}

	// 8. Comparable traces but the reason-code mix disagrees.
	if len(drift) > 0 {
		details := []string{fmt.Sprintf("%d reason code(s) drift between shadow and its baselines", len(drift))}
		details = append(details, driftDetails(drift)...)
		return Readiness{
			Status:            StatusCaution,
			Summary:           "parity drift between shadow and baseline paths",
			Details:           details,
			RecommendedAction: ActionCollectShadowParity,
		}
	}

	// 9. Parity holds; only queue warnings stand between here and ready.
	if queuehealth.HasLevel(alerts, queuehealth.LevelWarn) {
		return Readiness{
			Status:            StatusCaution,
			Summary:           "parity holds but queue warnings are present",
			Details:           alertDetails(alerts, queuehealth.LevelWarn),
			RecommendedAction: ActionStartCutoverRehearsal,
		}
	}

	// 10. Clean bill of health.
	return Readiness{
		Status:  StatusReady,
		Summary: "shadow parity holds with a healthy queue",
		Details: []string{
			fmt.Sprintf("shadow traces: %d", shadowTotal),
			fmt.Sprintf("cron traces: %d", cronTotal),
			fmt.Sprintf("wakeup traces: %d", wakeupTotal),
		},
		RecommendedAction: ActionStartCutoverRehearsal,
	}
}

func alertDetails(alerts []queuehealth.Alert, level queuehealth.Level) []string {
	var out []string
	for _, a := range alerts {
		if a.Level == level {
			out = append(out, fmt.Sprintf("[%s] %s: %s", a.Level, a.Code, a.Message))
		}
	}
	return out
}

func driftDetails(drift []parity.DriftRow) []string {
	var out []string
	for i, d := range drift {
		if i >= driftDetailRows {
			break
		}
		out = append(out, fmt.Sprintf("drift %s: shadow-cron %+d, shadow-wakeup %+d",
			d.Reason, d.ShadowMinusCron, d.ShadowMinusWakeup))
	}
	return out
}

func schedulerDetail(w WakeupState) string {
	mode := "live"
	if w.ShadowMode {
		mode = "shadow"
	}
	if w.IntervalSeconds > 0 {
		return fmt.Sprintf("scheduler enabled (%s mode, %ds interval)", mode, w.IntervalSeconds)
	}
	return fmt.Sprintf("scheduler enabled (%s mode)", mode)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/hailer-chat/pushgate/internal/cutover"
	"github.com/hailer-chat/pushgate/internal/parity"
	"github.com/hailer-chat/pushgate/internal/policy"
	"github.com/hailer-chat/pushgate/internal/queuehealth"
)

// renderDecision formats a route decision for text output.
func renderDecision(d policy.RouteDecision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "route mode:        %s\n", d.RouteMode)
	fmt.Fprintf(&b, "push capable:      %t\n", d.PushCapable)
	fmt.Fprintf(&b, "in-app visual:     %t\n", d.AllowInAppVisual)
	fmt.Fprintf(&b, "in-app sound:      %t\n", d.AllowInAppSound)
	fmt.Fprintf(&b, "os push display:   %t\n", d.AllowOSPushDisplay)
	b.WriteString("reasons:\n")
	for _, r := range d.Reasons {
		fmt.Fprintf(&b, "  - %s\n", r)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderParity formats the bucket totals plus the comparison and drift
// tables for text output.
func renderParity(sum parity.Summary) string {
	var b strings.Builder

	b.WriteString("wake source buckets:\n")
	fmt.Fprintf(&b, "  %-10s %7s %7s %7s %7s\n", "source", "total", "send", "skip", "defer")
	for _, bucket := range sum.Buckets {
		fmt.Fprintf(&b, "  %-10s %7d %7d %7d %7d\n",
			bucket.Source, bucket.Total, bucket.Send, bucket.Skip, bucket.Defer)
	}

	b.WriteString("\nreason comparison (top 8):\n")
	if len(sum.Comparison) == 0 {
		b.WriteString("  (no comparable reason codes)\n")
	} else {
		fmt.Fprintf(&b, "  %-32s %7s %7s %7s %7s %7s\n",
			"reason", "shadow", "cron", "wakeup", "manual", "total")
		for _, row := range sum.Comparison {
			fmt.Fprintf(&b, "  %-32s %7d %7d %7d %7d %7d\n",
				row.Reason, row.Shadow, row.Cron, row.Wakeup, row.Manual, row.Total)
		}
	}

	b.WriteString("\nshadow drift:\n")
	if len(sum.Drift) == 0 {
		b.WriteString("  (none)\n")
	} else {
		fmt.Fprintf(&b, "  %-32s %12s %14s\n", "reason", "vs cron", "vs wakeup")
		for _, row := range sum.Drift {
			fmt.Fprintf(&b, "  %-32s %+12d %+14d\n",
				row.Reason, row.ShadowMinusCron, row.ShadowMinusWakeup)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderAlerts formats a queue health alert list for text output.
func renderAlerts(alerts []queuehealth.Alert) string {
	if len(alerts) == 0 {
		return "queue health: ok (no alerts)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "queue health: %d alert(s)\n", len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&b, "  [%-8s] %s: %s\n", a.Level, a.Code, a.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderReadiness formats the cutover verdict for text output.
func renderReadiness(r cutover.Readiness) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status:  %s\n", r.Status)
	fmt.Fprintf(&b, "summary: %s\n", r.Summary)
	fmt.Fprintf(&b, "action:  %s\n", r.RecommendedAction)
	b.WriteString("details:\n")
	for _, d := range r.Details {
		fmt.Fprintf(&b, "  - %s\n", d)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Package parity compares delivery trace volume and reason-code mix
// across the independent wake sources (shadow, cron, wakeup, manual)
// that can trigger a push dispatch. Shadow-vs-baseline drift in this
// comparison is the pre-cutover safety signal: the shadow path should
// make the same decisions, for the same reasons, as the paths it is
// about to replace.
//
// Aggregation is pure and deterministic: identical input always yields
// identical output ordering. Ties break lexicographically by reason code.
package parity

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hailer-chat/pushgate/internal/tracelog"
)

// The four known wake sources, in fixed presentation order.
const (
	SourceShadow  = "shadow"
	SourceCron    = "cron"
	SourceWakeup  = "wakeup"
	SourceManual  = "manual"
	SourceUnknown = "unknown"
)

// KnownSources lists the wake sources the comparison table spans.
var KnownSources = []string{SourceShadow, SourceCron, SourceWakeup, SourceManual}

// TopN caps the comparison and drift tables.
const TopN = 8

// Bucket tallies one wake source.
type Bucket struct {
	Source  string         `json:"source"`
	Total   int            `json:"total"`
	Send    int            `json:"send"`
	Skip    int            `json:"skip"`
	Defer   int            `json:"defer"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

// ComparisonRow is one reason code's count in each known bucket.
type ComparisonRow struct {
	Reason string `json:"reason"`
	Shadow int    `json:"shadow"`
	Cron   int    `json:"cron"`
	Wakeup int    `json:"wakeup"`
	Manual int    `json:"manual"`
	Total  int    `json:"total"`
}

// DriftRow measures shadow deviation from its two legacy baselines for
// one reason code.
type DriftRow struct {
	Reason            string `json:"reason"`
	ShadowMinusCron   int    `json:"shadow_minus_cron"`
	ShadowMinusWakeup int    `json:"shadow_minus_wakeup"`
}

// AbsDrift is the row's total absolute deviation, used for ordering.
func (r DriftRow) AbsDrift() int {
	return abs(r.ShadowMinusCron) + abs(r.ShadowMinusWakeup)
}

// Summary is the full parity aggregation output.
type Summary struct {
	Buckets    []Bucket        `json:"buckets"`
	Comparison []ComparisonRow `json:"comparison"`
	Drift      []DriftRow      `json:"drift"`
}

// Total returns the record count for a wake source, zero when absent.
func (s Summary) Total(source string) int {
	key := canonicalKey(source)
	for _, b := range s.Buckets {
		if b.Source == key {
			return b.Total
		}
	}
	return 0
}

// canonicalKey folds a wake-source or reason key for grouping: NFC
// normalized, trimmed, lowercased. Empty folds to "unknown".
func canonicalKey(s string) string {
	key := strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
	if key == "" {
		return SourceUnknown
	}
	return key
}

// wakeSourceOf classifies a record by details.wakeSource. Absent or
// non-string values classify as "unknown".
func wakeSourceOf(rec tracelog.Record) string {
	v, ok := rec.Details[tracelog.DetailWakeSource]
	if !ok {
		return SourceUnknown
	}
	str, ok := v.(string)
	if !ok {
		return SourceUnknown
	}
	return canonicalKey(str)
}

// Aggregate builds the parity summary from a flat batch of trace
// records. Only web_push records participate; everything else is
// ignored. The four known buckets are always present, zero-filled when
// empty, followed by any ad-hoc sources in lexicographic order.
func Aggregate(records []tracelog.Record) Summary {
	buckets := make(map[string]*Bucket)
	for _, src := range KnownSources {
		buckets[src] = &Bucket{Source: src, Reasons: map[string]int{}}
	}

	for _, rec := range records {
		if rec.Transport != tracelog.TransportWebPush {
			continue
		}
		src := wakeSourceOf(rec)
		b, ok := buckets[src]
		if !ok {
			b = &Bucket{Source: src, Reasons: map[string]int{}}
			buckets[src] = b
		}
		b.Total++
		switch rec.Decision {
		case tracelog.DecisionSend:
			b.Send++
		case tracelog.DecisionSkip:
			b.Skip++
		case tracelog.DecisionDefer:
			b.Defer++
		}
		if rec.Reason != "" {
			b.Reasons[canonicalKey(rec.Reason)]++
		}
	}

	comparison := buildComparison(buckets)
	return Summary{
		Buckets:    orderBuckets(buckets),
		Comparison: comparison,
		Drift:      buildDrift(comparison),
	}
}

// orderBuckets returns known sources in fixed order, then ad-hoc
// sources lexicographically.
func orderBuckets(buckets map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))
	for _, src := range KnownSources {
		out = append(out, *buckets[src])
	}
	var extras []string
	for src := range buckets {
		if !isKnownSource(src) {
			extras = append(extras, src)
		}
	}
	sort.Strings(extras)
	for _, src := range extras {
		out = append(out, *buckets[src])
	}
	return out
}

func isKnownSource(src string) bool {
	for _, known := range KnownSources {
		if src == known {
			return true
		}
	}
	return false
}

// buildComparison unions reason codes across the four known buckets and
// keeps the TopN rows by total descending, reason ascending.
func buildComparison(buckets map[string]*Bucket) []ComparisonRow {
	union := make(map[string]bool)
	for _, src := range KnownSources {
		for reason := range buckets[src].Reasons {
			union[reason] = true
		}
	}

	rows := make([]ComparisonRow, 0, len(union))
	for reason := range union {
		row := ComparisonRow{
			Reason: reason,
			Shadow: buckets[SourceShadow].Reasons[reason],
			Cron:   buckets[SourceCron].Reasons[reason],
			Wakeup: buckets[SourceWakeup].Reasons[reason],
			Manual: buckets[SourceManual].Reasons[reason],
		}
		row.Total = row.Shadow + row.Cron + row.Wakeup + row.Manual
		if row.Total > 0 {
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Reason < rows[j].Reason
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	return rows
}

// buildDrift derives shadow-vs-baseline deviations from the comparison
// table, dropping rows with no deviation.
func buildDrift(comparison []ComparisonRow) []DriftRow {
	var rows []DriftRow
	for _, c := range comparison {
		d := DriftRow{
			Reason:            c.Reason,
			ShadowMinusCron:   c.Shadow - c.Cron,
			ShadowMinusWakeup: c.Shadow - c.Wakeup,
		}
		if d.ShadowMinusCron != 0 || d.ShadowMinusWakeup != 0 {
			rows = append(rows, d)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AbsDrift() != rows[j].AbsDrift() {
			return rows[i].AbsDrift() > rows[j].AbsDrift()
		}
		return rows[i].Reason < rows[j].Reason
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	return rows
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

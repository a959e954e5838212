// Package cutover classifies whether the wakeup notification dispatch
// path is ready to take live sends over from the legacy cron path.
//
// Evaluate is a priority-ordered decision tree: branches are checked
// top-to-bottom and the first match wins. The ordering is total and
// mutually exclusive, so every combination of inputs lands in exactly
// one branch. Evaluation is a full recomputation over the latest
// snapshot of its inputs - nothing is incrementally updated.
//
// OPERATOR CAVEAT: once wakeup sends are live with no warning alerts,
// the verdict is "active" even when parity drift is present; drift is
// demoted to detail text. An already-cutover system is not pushed back
// to caution by a diagnostics artifact.
package cutover

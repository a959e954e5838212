// Package policy implements the notification route policy resolver.
//
// The resolver is the heart of delivery routing - given a snapshot of
// client focus state, push-capability state, and user sound preferences,
// it decides which transports (in-app visual, in-app sound, OS-level push)
// are allowed to fire for a notification event, and why.
//
// ARCHITECTURE:
//
// Pure Decision Core:
// Resolve is a pure, total, deterministic function. It performs no I/O,
// holds no state, and never returns an error - malformed or absent
// optional fields default instead of failing. This makes it safe to call
// concurrently from any number of callers with no coordination.
//
// Override Layer:
// Developer overrides (used for testing routing behavior on live clients)
// are merged onto the raw input by ApplyOverrides before Resolve runs.
// The decision core itself never inspects override fields.
//
// Evaluation order:
//  1. Merge developer overrides (caller responsibility, ApplyOverrides).
//  2. Compute pushCapable: six conditions AND-ed, each failing condition
//     contributing its own reason code independently.
//  3. Three-way focus branch selects the route mode.
//  4. Sound preference overlay, which can only ever disable sound.
//
// Reason codes are a closed vocabulary. The emitted list is de-duplicated
// preserving first-occurrence order, so output ordering is stable and
// test expectations are exact.
package policy

// Package swroute is the service-worker side of delivery routing.
//
// The background execution context has no direct view of page focus
// state; the router approximates "is any same-origin window focused or
// visible" by enumerating window clients through an injected capability
// interface. When enumeration fails or is inconclusive, the router
// assumes background - an inherent platform constraint, not a bug.
//
// Decide is a restricted two-branch mirror of the full route policy
// resolver: a focused client suppresses the OS notification, otherwise
// the push displays. On every incoming push the router broadcasts a
// delivery-trace message to all open window clients unconditionally,
// then shows the OS notification only when the decision allows it.
//
// There is no retry anywhere: a failed notification display completes
// the push handler without it, and a failed focus/navigate on click
// falls through to opening a new window. Errors never propagate back to
// the push service.
package swroute

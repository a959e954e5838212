package policy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

// fullPushInput returns a snapshot where all six push conditions hold.
func fullPushInput(focused bool) RoutePolicyInput {
	return RoutePolicyInput{
		HasFocus:                focused,
		PushSupported:           true,
		Permission:              PermissionGranted,
		ServiceWorkerRegistered: true,
		PushSubscriptionActive:  true,
		SoundEnabled:            true,
	}
}

func TestResolve_FocusedFullyCapable(t *testing.T) {
	d := Resolve(fullPushInput(true))

	assert.Equal(t, RouteForegroundInApp, d.RouteMode)
	assert.False(t, d.AllowOSPushDisplay)
	assert.True(t, d.AllowInAppSound)
	assert.True(t, d.AllowInAppVisual)
	assert.True(t, d.PushCapable)
	assert.True(t, d.HasReason(ReasonFocusedWindowSuppressed))
	assert.True(t, d.HasReason(ReasonAppFocused))
	assert.False(t, d.HasReason(ReasonAppBackgrounded))
}

func TestResolve_BackgroundedFullyCapable(t *testing.T) {
	d := Resolve(fullPushInput(false))

	assert.Equal(t, RouteBackgroundOSPush, d.RouteMode)
	assert.True(t, d.AllowOSPushDisplay)
	assert.False(t, d.AllowInAppSound, "OS push owns the sound channel")
	assert.True(t, d.AllowInAppVisual)
	assert.True(t, d.HasReason(ReasonAppBackgrounded))
	assert.True(t, d.HasReason(ReasonInAppSuppressedPushActive))
}

func TestResolve_BackgroundedPushUnavailable(t *testing.T) {
	in := RoutePolicyInput{
		HasFocus:      false,
		PushSupported: true,
		Permission:    PermissionDefault,
		SoundEnabled:  true,
	}
	d := Resolve(in)

	assert.Equal(t, RouteFallbackInApp, d.RouteMode,
		"background-but-no-push always falls back to in-app")
	assert.False(t, d.AllowOSPushDisplay)
	assert.True(t, d.HasReason(ReasonNoActivePushSubscription))
	assert.True(t, d.HasReason(ReasonPermissionNotGranted))
	assert.True(t, d.HasReason(ReasonServiceWorkerNotReady))
	assert.True(t, d.HasReason(ReasonPushSubscriptionInactive))
}

func TestResolve_FocusedUnsupportedWithSoundPref(t *testing.T) {
	in := RoutePolicyInput{
		HasFocus:              true,
		PushSupported:         false,
		SoundEnabled:          true,
		PlaySoundsWhenFocused: boolPtr(false),
	}
	d := Resolve(in)

	assert.Equal(t, RouteUnsupportedPush, d.RouteMode)
	assert.False(t, d.AllowInAppSound)
	assert.True(t, d.HasReason(ReasonSoundPrefDisabled))
	assert.True(t, d.HasReason(ReasonBrowserPushUnsupported))
}

func TestResolve_MasterSoundDisabled(t *testing.T) {
	in := fullPushInput(true)
	in.SoundEnabled = false
	d := Resolve(in)

	assert.False(t, d.AllowInAppSound)
	assert.True(t, d.HasReason(ReasonSoundPrefDisabled))
}

func TestResolve_SoundOverlayNeverReenables(t *testing.T) {
	// Background + push capable disables sound; a permissive sound pref
	// must not turn it back on.
	in := fullPushInput(false)
	in.PlaySoundsWhenFocused = boolPtr(true)
	d := Resolve(in)

	assert.False(t, d.AllowInAppSound)
}

func TestResolve_PlaySoundsWhenFocusedOnlyAppliesFocused(t *testing.T) {
	in := RoutePolicyInput{
		HasFocus:              false,
		PushSupported:         false,
		SoundEnabled:          true,
		PlaySoundsWhenFocused: boolPtr(false),
	}
	d := Resolve(in)

	assert.True(t, d.AllowInAppSound, "focused-only pref ignored while backgrounded")
	assert.False(t, d.HasReason(ReasonSoundPrefDisabled))
}

func TestResolve_KillSwitchesDefaultEnabled(t *testing.T) {
	// Absent kill-switch pointers behave as enabled.
	d := Resolve(fullPushInput(false))
	require.True(t, d.PushCapable)

	in := fullPushInput(false)
	in.PushSyncEnabled = boolPtr(false)
	d = Resolve(in)
	assert.False(t, d.PushCapable)
	assert.True(t, d.HasReason(ReasonPushSyncDisabled))
	assert.Equal(t, RouteFallbackInApp, d.RouteMode)

	in = fullPushInput(false)
	in.ServiceWorkerRegistrationEnabled = boolPtr(false)
	d = Resolve(in)
	assert.False(t, d.PushCapable)
	assert.True(t, d.HasReason(ReasonServiceWorkerNotReady))
}

func TestResolve_ServiceWorkerNotReadyEmittedOnce(t *testing.T) {
	// Kill-switch off AND registration missing still emit the code once.
	in := fullPushInput(false)
	in.ServiceWorkerRegistered = false
	in.ServiceWorkerRegistrationEnabled = boolPtr(false)
	d := Resolve(in)

	count := 0
	for _, r := range d.Reasons {
		if r == ReasonServiceWorkerNotReady {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolve_UnsupportedShortCircuitsSubReasons(t *testing.T) {
	in := RoutePolicyInput{
		HasFocus:      false,
		PushSupported: false,
		Permission:    PermissionDenied,
		SoundEnabled:  true,
	}
	d := Resolve(in)

	assert.True(t, d.HasReason(ReasonBrowserPushUnsupported))
	assert.False(t, d.HasReason(ReasonPermissionNotGranted))
	assert.False(t, d.HasReason(ReasonServiceWorkerNotReady))
	assert.Equal(t, RouteUnsupportedPush, d.RouteMode)
}

// allInputs enumerates every combination of the boolean fields plus the
// four permission states, exercising the resolver's invariants totally.
func allInputs() []RoutePolicyInput {
	bools := []bool{false, true}
	perms := []Permission{PermissionGranted, PermissionDenied, PermissionDefault, PermissionUnsupported}
	tri := []*bool{nil, boolPtr(false), boolPtr(true)}

	var inputs []RoutePolicyInput
	for _, focus := range bools {
		for _, supported := range bools {
			for _, perm := range perms {
				for _, swReg := range bools {
					for _, sub := range bools {
						for _, sync := range tri {
							for _, sound := range bools {
								inputs = append(inputs, RoutePolicyInput{
									HasFocus:                focus,
									PushSupported:           supported,
									Permission:              perm,
									ServiceWorkerRegistered: swReg,
									PushSubscriptionActive:  sub,
									PushSyncEnabled:         sync,
									SoundEnabled:            sound,
								})
							}
						}
					}
				}
			}
		}
	}
	return inputs
}

func TestResolve_Invariants(t *testing.T) {
	for _, in := range allInputs() {
		d := Resolve(in)

		require.True(t, d.AllowInAppVisual, "visual in-app is never suppressed: %+v", in)
		require.NotEmpty(t, d.Reasons, "reason set is never empty: %+v", in)

		if in.HasFocus {
			require.False(t, d.AllowOSPushDisplay,
				"OS push display never allowed while focused: %+v", in)
		}
		if !in.PushSupported {
			require.NotEqual(t, RouteBackgroundOSPush, d.RouteMode)
		}

		seen := make(map[ReasonCode]bool)
		for _, r := range d.Reasons {
			require.False(t, seen[r], "duplicate reason %q: %+v", r, in)
			seen[r] = true
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for _, in := range allInputs() {
		first := Resolve(in)
		second := Resolve(in)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("resolve not idempotent (-first +second):\n%s", diff)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	base := fullPushInput(true)
	perm := PermissionDenied
	merged := ApplyOverrides(base, Overrides{
		HasFocus:               boolPtr(false),
		Permission:             &perm,
		PushSubscriptionActive: boolPtr(false),
	})

	assert.False(t, merged.HasFocus)
	assert.Equal(t, PermissionDenied, merged.Permission)
	assert.False(t, merged.PushSubscriptionActive)
	// Untouched fields pass through.
	assert.True(t, merged.PushSupported)
	assert.True(t, merged.ServiceWorkerRegistered)

	// Empty overrides are the identity.
	same := ApplyOverrides(base, Overrides{})
	if diff := cmp.Diff(base, same); diff != "" {
		t.Fatalf("empty overrides changed input:\n%s", diff)
	}
}

func TestResolve_ReasonOrderStable(t *testing.T) {
	in := fullPushInput(false)
	in.PushSubscriptionActive = false
	in.SoundEnabled = false
	d := Resolve(in)

	assert.Equal(t, []ReasonCode{
		ReasonPushSubscriptionInactive,
		ReasonAppBackgrounded,
		ReasonNoActivePushSubscription,
		ReasonSoundPrefDisabled,
	}, d.Reasons)
}

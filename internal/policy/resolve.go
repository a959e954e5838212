package policy

// ApplyOverrides merges developer overrides onto a raw input snapshot,
// returning the canonical input for Resolve. Override wins when present.
func ApplyOverrides(in RoutePolicyInput, ov Overrides) RoutePolicyInput {
	out := in
	if ov.HasFocus != nil {
		out.HasFocus = *ov.HasFocus
	}
	if ov.PushSupported != nil {
		out.PushSupported = *ov.PushSupported
	}
	if ov.Permission != nil {
		out.Permission = *ov.Permission
	}
	if ov.ServiceWorkerRegistered != nil {
		out.ServiceWorkerRegistered = *ov.ServiceWorkerRegistered
	}
	if ov.PushSubscriptionActive != nil {
		out.PushSubscriptionActive = *ov.PushSubscriptionActive
	}
	if ov.PushSyncEnabled != nil {
		out.PushSyncEnabled = ov.PushSyncEnabled
	}
	if ov.ServiceWorkerRegistrationEnabled != nil {
		out.ServiceWorkerRegistrationEnabled = ov.ServiceWorkerRegistrationEnabled
	}
	if ov.SoundEnabled != nil {
		out.SoundEnabled = *ov.SoundEnabled
	}
	if ov.PlaySoundsWhenFocused != nil {
		out.PlaySoundsWhenFocused = ov.PlaySoundsWhenFocused
	}
	return out
}

// boolOrDefault resolves a tri-state pointer field.
func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// reasonList accumulates reason codes, collapsing duplicates while
// preserving first-occurrence order.
type reasonList struct {
	codes []ReasonCode
	seen  map[ReasonCode]bool
}

func (l *reasonList) add(code ReasonCode) {
	if l.seen == nil {
		l.seen = make(map[ReasonCode]bool)
	}
	if l.seen[code] {
		return
	}
	l.seen[code] = true
	l.codes = append(l.codes, code)
}

// Resolve maps a client state snapshot to a delivery decision.
//
// Pure and total: no input combination errors or panics. Callers apply
// developer overrides with ApplyOverrides before calling.
//
// INVARIANTS:
//   - AllowInAppVisual is always true.
//   - AllowOSPushDisplay and HasFocus are mutually exclusive.
//   - The sound overlay only ever turns sound off.
//   - Reasons is non-empty and duplicate-free.
func Resolve(in RoutePolicyInput) RouteDecision {
	pushSyncEnabled := boolOrDefault(in.PushSyncEnabled, true)
	swRegEnabled := boolOrDefault(in.ServiceWorkerRegistrationEnabled, true)

	pushCapable := in.PushSupported &&
		in.Permission == PermissionGranted &&
		in.ServiceWorkerRegistered &&
		pushSyncEnabled &&
		swRegEnabled &&
		in.PushSubscriptionActive

	var reasons reasonList

	// Push-unavailability reasons accumulate independently; several can
	// apply at once. Lack of browser support subsumes the sub-reasons.
	if !in.PushSupported {
		reasons.add(ReasonBrowserPushUnsupported)
	} else {
		if in.Permission != PermissionGranted {
			reasons.add(ReasonPermissionNotGranted)
		}
		// Emitted once whether the kill-switch is off or the actual
		// registration is missing.
		if !swRegEnabled || !in.ServiceWorkerRegistered {
			reasons.add(ReasonServiceWorkerNotReady)
		}
		if !pushSyncEnabled {
			reasons.add(ReasonPushSyncDisabled)
		}
		if !in.PushSubscriptionActive {
			reasons.add(ReasonPushSubscriptionInactive)
		}
	}

	d := RouteDecision{
		AllowInAppVisual: true,
		AllowInAppSound:  true,
		PushCapable:      pushCapable,
	}

	switch {
	case in.HasFocus:
		reasons.add(ReasonAppFocused)
		if pushCapable {
			reasons.add(ReasonFocusedWindowSuppressed)
			d.RouteMode = RouteForegroundInApp
		} else if in.PushSupported {
			d.RouteMode = RouteFallbackInApp
		} else {
			d.RouteMode = RouteUnsupportedPush
		}
		// OS push display is never allowed while focused.
		d.AllowOSPushDisplay = false

	case pushCapable:
		reasons.add(ReasonAppBackgrounded)
		reasons.add(ReasonInAppSuppressedPushActive)
		d.RouteMode = RouteBackgroundOSPush
		d.AllowOSPushDisplay = true
		// OS push owns the sound channel.
		d.AllowInAppSound = false

	default:
		reasons.add(ReasonAppBackgrounded)
		reasons.add(ReasonNoActivePushSubscription)
		if in.PushSupported {
			d.RouteMode = RouteFallbackInApp
		} else {
			d.RouteMode = RouteUnsupportedPush
		}
		d.AllowOSPushDisplay = false
	}

	// Sound preference overlay. Can only disable, never re-enable.
	if !in.SoundEnabled {
		d.AllowInAppSound = false
		reasons.add(ReasonSoundPrefDisabled)
	} else if in.HasFocus && in.PlaySoundsWhenFocused != nil && !*in.PlaySoundsWhenFocused {
		d.AllowInAppSound = false
		reasons.add(ReasonSoundPrefDisabled)
	}

	d.Reasons = reasons.codes
	return d
}

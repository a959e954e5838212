package policy

// Permission mirrors the browser Notification permission states.
type Permission string

const (
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionDefault     Permission = "default"
	PermissionUnsupported Permission = "unsupported"
)

// RouteMode is the coarse-grained delivery path chosen for a notification
// event.
type RouteMode string

const (
	// RouteForegroundInApp renders in-app only; the window is focused and
	// push is fully capable but suppressed.
	RouteForegroundInApp RouteMode = "foreground_in_app"

	// RouteBackgroundOSPush hands delivery to the OS push display; the
	// window is backgrounded and push is fully capable.
	RouteBackgroundOSPush RouteMode = "background_os_push"

	// RouteFallbackInApp renders in-app because push is unavailable for
	// any reason other than lack of browser support.
	RouteFallbackInApp RouteMode = "fallback_in_app"

	// RouteUnsupportedPush renders in-app because the browser has no push
	// support at all.
	RouteUnsupportedPush RouteMode = "unsupported_push"
)

// ReasonCode explains one component of a delivery decision. Codes are
// additive, not mutually exclusive - a single decision carries several.
type ReasonCode string

const (
	ReasonAppFocused      ReasonCode = "app_focused"
	ReasonAppBackgrounded ReasonCode = "app_backgrounded"

	// ReasonFocusedWindowSuppressed documents that an OS push would have
	// fired but was suppressed because a window is focused.
	ReasonFocusedWindowSuppressed ReasonCode = "sw_focused_window_suppressed"

	// ReasonInAppSuppressedPushActive documents that in-app sound is
	// suppressed because the OS push owns the sound channel.
	ReasonInAppSuppressedPushActive ReasonCode = "in_app_suppressed_due_to_push_active_background"

	ReasonNoActivePushSubscription ReasonCode = "no_active_push_subscription"
	ReasonBrowserPushUnsupported   ReasonCode = "browser_push_unsupported"
	ReasonPermissionNotGranted     ReasonCode = "notification_permission_not_granted"
	ReasonServiceWorkerNotReady    ReasonCode = "service_worker_not_ready"
	ReasonPushSyncDisabled         ReasonCode = "push_sync_disabled"
	ReasonPushSubscriptionInactive ReasonCode = "push_subscription_inactive"
	ReasonSoundPrefDisabled        ReasonCode = "sound_pref_disabled"

	// ReasonSent is emitted by the service-worker router when an OS push
	// display actually proceeds.
	ReasonSent ReasonCode = "sent"
)

// RoutePolicyInput is a snapshot of the client, device, and preference
// state the resolver decides over.
//
// All booleans are independent; no field implies another except through
// the resolver's derived pushCapable value. The two kill-switches and
// PlaySoundsWhenFocused are tri-state pointers: nil means "not set" and
// defaults to enabled/true.
type RoutePolicyInput struct {
	HasFocus                bool       `json:"has_focus" yaml:"has_focus"`
	PushSupported           bool       `json:"push_supported" yaml:"push_supported"`
	Permission              Permission `json:"permission" yaml:"permission"`
	ServiceWorkerRegistered bool       `json:"service_worker_registered" yaml:"service_worker_registered"`
	PushSubscriptionActive  bool       `json:"push_subscription_active" yaml:"push_subscription_active"`

	// Remote kill-switches, default true when absent.
	PushSyncEnabled                  *bool `json:"push_sync_enabled,omitempty" yaml:"push_sync_enabled,omitempty"`
	ServiceWorkerRegistrationEnabled *bool `json:"service_worker_registration_enabled,omitempty" yaml:"service_worker_registration_enabled,omitempty"`

	// Audio preferences.
	SoundEnabled          bool  `json:"sound_enabled" yaml:"sound_enabled"`
	PlaySoundsWhenFocused *bool `json:"play_sounds_when_focused,omitempty" yaml:"play_sounds_when_focused,omitempty"`
}

// Overrides shadows RoutePolicyInput fields for developer testing. A nil
// field leaves the underlying value untouched.
type Overrides struct {
	HasFocus                         *bool       `json:"has_focus,omitempty" yaml:"has_focus,omitempty"`
	PushSupported                    *bool       `json:"push_supported,omitempty" yaml:"push_supported,omitempty"`
	Permission                       *Permission `json:"permission,omitempty" yaml:"permission,omitempty"`
	ServiceWorkerRegistered          *bool       `json:"service_worker_registered,omitempty" yaml:"service_worker_registered,omitempty"`
	PushSubscriptionActive           *bool       `json:"push_subscription_active,omitempty" yaml:"push_subscription_active,omitempty"`
	PushSyncEnabled                  *bool       `json:"push_sync_enabled,omitempty" yaml:"push_sync_enabled,omitempty"`
	ServiceWorkerRegistrationEnabled *bool       `json:"service_worker_registration_enabled,omitempty" yaml:"service_worker_registration_enabled,omitempty"`
	SoundEnabled                     *bool       `json:"sound_enabled,omitempty" yaml:"sound_enabled,omitempty"`
	PlaySoundsWhenFocused            *bool       `json:"play_sounds_when_focused,omitempty" yaml:"play_sounds_when_focused,omitempty"`
}

// RouteDecision is the resolver output consumed by UI code and the
// delivery trace layer.
type RouteDecision struct {
	RouteMode RouteMode `json:"route_mode"`

	// AllowInAppVisual is always true in the current policy; visual
	// in-app rendering is never suppressed.
	AllowInAppVisual   bool `json:"allow_in_app_visual"`
	AllowInAppSound    bool `json:"allow_in_app_sound"`
	AllowOSPushDisplay bool `json:"allow_os_push_display"`

	// PushCapable is the derived conjunction of the six push conditions.
	PushCapable bool `json:"push_capable"`

	// Reasons is ordered and duplicate-free; first-occurrence order is
	// preserved.
	Reasons []ReasonCode `json:"reasons"`
}

// HasReason reports whether the decision carries the given reason code.
func (d RouteDecision) HasReason(code ReasonCode) bool {
	for _, r := range d.Reasons {
		if r == code {
			return true
		}
	}
	return false
}

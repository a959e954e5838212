package swroute

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hailer-chat/pushgate/internal/policy"
	"github.com/hailer-chat/pushgate/internal/tracelog"
)

// Message type tags on broadcasts to window clients.
const (
	TraceMessageType = "pushgate:delivery-trace"
	ClickMessageType = "pushgate:notification-click"
)

// Debug message types accepted by HandleMessage.
const (
	MsgPing             = "ping"
	MsgShowNotification = "show-notification"
	MsgSimulateClick    = "simulate-click"
)

// RouterDecision is the restricted routing decision available in the
// background context.
type RouterDecision struct {
	RouteMode          policy.RouteMode  `json:"route_mode"`
	AllowOSPushDisplay bool              `json:"allow_os_push_display"`
	Reason             policy.ReasonCode `json:"reason"`
	Decision           tracelog.Decision `json:"decision"`
}

// Decide is the two-branch total mirror of the route policy resolver:
// a focused same-origin client suppresses the OS display.
func Decide(hasFocusedClient bool) RouterDecision {
	if hasFocusedClient {
		return RouterDecision{
			RouteMode:          policy.RouteForegroundInApp,
			AllowOSPushDisplay: false,
			Reason:             policy.ReasonFocusedWindowSuppressed,
			Decision:           tracelog.DecisionSkip,
		}
	}
	return RouterDecision{
		RouteMode:          policy.RouteBackgroundOSPush,
		AllowOSPushDisplay: true,
		Reason:             policy.ReasonSent,
		Decision:           tracelog.DecisionSend,
	}
}

// TraceMessage is broadcast to every open window client on each push so
// a page context can record the decision locally.
type TraceMessage struct {
	Type        string            `json:"type"`
	RouteMode   policy.RouteMode  `json:"route_mode"`
	Decision    tracelog.Decision `json:"decision"`
	Reason      policy.ReasonCode `json:"reason"`
	RecipientID string            `json:"recipient_id,omitempty"`
	EventID     string            `json:"event_id,omitempty"`
}

// ClickMessage is posted to the focused or newly opened window client
// after a notification click.
type ClickMessage struct {
	Type   string           `json:"type"`
	Action string           `json:"action,omitempty"`
	Data   NotificationData `json:"data"`
}

// ClickEvent is a notification click as delivered by the platform.
type ClickEvent struct {
	Action string           `json:"action,omitempty"`
	Data   NotificationData `json:"data"`
}

// Router handles push, click, and debug message events in the
// background context.
type Router struct {
	clients ClientRegistry
	display NotificationDisplay
	origin  *url.URL
	logger  *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// NewRouter creates a Router scoped to appOrigin (e.g.
// "https://app.hailer.chat"). Click targets outside this origin fall
// back to the origin root.
func NewRouter(clients ClientRegistry, display NotificationDisplay, appOrigin string, opts ...RouterOption) (*Router, error) {
	origin, err := url.Parse(appOrigin)
	if err != nil {
		return nil, fmt.Errorf("parse app origin: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("app origin %q must be absolute", appOrigin)
	}
	r := &Router{
		clients: clients,
		display: display,
		origin:  origin,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// HandlePush processes one incoming push event: normalize the payload,
// decide, broadcast the trace unconditionally, display when allowed.
//
// Never returns an error; callers keep the work registered with the
// platform's lifetime-extension mechanism until it returns.
func (r *Router) HandlePush(ctx context.Context, raw []byte) RouterDecision {
	payload := NormalizePayload(raw)

	clients, err := r.clients.MatchAll(ctx)
	if err != nil {
		// Enumeration inconclusive: assume background.
		r.logger.Warn("client enumeration failed", "error", err)
		clients = nil
	}

	d := Decide(hasFocusedClient(clients))

	trace := TraceMessage{
		Type:        TraceMessageType,
		RouteMode:   d.RouteMode,
		Decision:    d.Decision,
		Reason:      d.Reason,
		RecipientID: payload.RecipientID,
		EventID:     payload.EventID,
	}
	for _, c := range clients {
		if err := c.PostMessage(ctx, trace); err != nil {
			r.logger.Warn("trace broadcast failed", "client", c.ID(), "error", err)
		}
	}

	if d.AllowOSPushDisplay {
		target := r.ResolveTarget(payload.URL)
		if err := r.display.Show(ctx, payload.Title, optionsFor(payload, target)); err != nil {
			// No retry: the push completes without the notification.
			r.logger.Warn("show notification failed", "error", err)
		}
	}
	return d
}

// hasFocusedClient approximates page focus from the client list. A
// client counts when it is focused or its document is visible.
func hasFocusedClient(clients []WindowClient) bool {
	for _, c := range clients {
		if c.Focused() || c.VisibilityState() == VisibilityVisible {
			return true
		}
	}
	return false
}

// ResolveTarget resolves a click-target URL against the app origin.
// Cross-origin or malformed targets silently fall back to the app root.
func (r *Router) ResolveTarget(target string) string {
	if target == "" {
		return r.origin.String()
	}
	u, err := r.origin.Parse(target)
	if err != nil {
		return r.origin.String()
	}
	if u.Scheme != r.origin.Scheme || u.Host != r.origin.Host {
		return r.origin.String()
	}
	return u.String()
}

// HandleClick processes a notification click: focus and navigate an
// existing window client, else open a new one, then post the click
// payload to whichever client ends up in front. Best-effort, no retry.
func (r *Router) HandleClick(ctx context.Context, click ClickEvent) {
	target := r.ResolveTarget(click.Data.URL)
	msg := ClickMessage{Type: ClickMessageType, Action: click.Action, Data: click.Data}
	msg.Data.URL = target

	clients, err := r.clients.MatchAll(ctx)
	if err != nil {
		clients = nil
	}

	if c := pickClient(clients); c != nil {
		if r.focusAndNavigate(ctx, c, target) {
			if err := c.PostMessage(ctx, msg); err != nil {
				r.logger.Warn("click post failed", "client", c.ID(), "error", err)
			}
			return
		}
	}

	opened, err := r.clients.OpenWindow(ctx, target)
	if err != nil {
		r.logger.Warn("open window failed", "error", err)
		return
	}
	if opened != nil {
		if err := opened.PostMessage(ctx, msg); err != nil {
			r.logger.Warn("click post failed", "client", opened.ID(), "error", err)
		}
	}
}

// pickClient prefers a focused client, then a visible one, then any.
func pickClient(clients []WindowClient) WindowClient {
	var visible, any WindowClient
	for _, c := range clients {
		if c.Focused() {
			return c
		}
		if visible == nil && c.VisibilityState() == VisibilityVisible {
			visible = c
		}
		if any == nil {
			any = c
		}
	}
	if visible != nil {
		return visible
	}
	return any
}

// focusAndNavigate reports whether both steps succeeded; a failure
// falls through to opening a new window.
func (r *Router) focusAndNavigate(ctx context.Context, c WindowClient, target string) bool {
	if err := c.Focus(ctx); err != nil {
		r.logger.Warn("focus failed", "client", c.ID(), "error", err)
		return false
	}
	if err := c.Navigate(ctx, target); err != nil {
		r.logger.Warn("navigate failed", "client", c.ID(), "error", err)
		return false
	}
	return true
}

// Message is a debug/test hook message from a page context.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HandleMessage services the local debug hooks: ping/pong, synthetic
// notification show, and synthetic click simulation. Replies go through
// the supplied port; a nil port drops the reply.
func (r *Router) HandleMessage(ctx context.Context, msg Message, reply ReplyPort) {
	respond := func(v any) {
		if reply == nil {
			return
		}
		if err := reply.Post(ctx, v); err != nil {
			r.logger.Warn("debug reply failed", "type", msg.Type, "error", err)
		}
	}

	switch msg.Type {
	case MsgPing:
		respond(map[string]string{"type": "pong"})
	case MsgShowNotification:
		d := r.HandlePush(ctx, msg.Payload)
		respond(map[string]any{"type": "push-handled", "decision": d})
	case MsgSimulateClick:
		var click ClickEvent
		if len(msg.Payload) > 0 {
			// Malformed payloads simulate a click on an all-default
			// notification rather than failing.
			_ = json.Unmarshal(msg.Payload, &click)
		}
		r.HandleClick(ctx, click)
		respond(map[string]string{"type": "click-handled"})
	default:
		respond(map[string]string{"type": "error", "error": "unknown message type: " + msg.Type})
	}
}

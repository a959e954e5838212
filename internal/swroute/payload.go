package swroute

import "encoding/json"

// Defaults for a push event whose payload carries nothing usable.
const (
	DefaultTitle   = "Hailer"
	DefaultMessage = "You have a new notification"
	DefaultIcon    = "/icons/notification-192.png"
	DefaultBadge   = "/icons/badge-72.png"
)

// KindPush tags notifications created by the push router, so click
// handling can distinguish them from other notification sources.
const KindPush = "push"

// PushPayload is the normalized shape of an incoming push message.
type PushPayload struct {
	Title              string               `json:"title,omitempty"`
	Message            string               `json:"message,omitempty"`
	Icon               string               `json:"icon,omitempty"`
	Badge              string               `json:"badge,omitempty"`
	Tag                string               `json:"tag,omitempty"`
	URL                string               `json:"url,omitempty"`
	RecipientID        string               `json:"recipient_id,omitempty"`
	EventID            string               `json:"event_id,omitempty"`
	RequireInteraction bool                 `json:"require_interaction,omitempty"`
	Renotify           bool                 `json:"renotify,omitempty"`
	Silent             bool                 `json:"silent,omitempty"`
	Actions            []NotificationAction `json:"actions,omitempty"`
}

// NotificationAction is one button on a displayed notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// NotificationData rides on a displayed notification and comes back on
// click: the resolved target URL, a kind tag, and the original payload.
type NotificationData struct {
	URL     string      `json:"url"`
	Kind    string      `json:"kind"`
	Payload PushPayload `json:"payload"`
}

// NormalizePayload parses a raw push payload defensively. Unparseable
// JSON falls back to treating the bytes as plain text; a completely
// empty payload falls back to all defaults. It never fails.
func NormalizePayload(raw []byte) PushPayload {
	var p PushPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			p = PushPayload{Message: string(raw)}
		}
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Message == "" {
		p.Message = DefaultMessage
	}
	if p.Icon == "" {
		p.Icon = DefaultIcon
	}
	if p.Badge == "" {
		p.Badge = DefaultBadge
	}
	return p
}

// NotificationOptions is the normalized options object handed to the
// OS-level show primitive.
type NotificationOptions struct {
	Body               string               `json:"body"`
	Icon               string               `json:"icon,omitempty"`
	Badge              string               `json:"badge,omitempty"`
	Tag                string               `json:"tag,omitempty"`
	RequireInteraction bool                 `json:"require_interaction,omitempty"`
	Renotify           bool                 `json:"renotify,omitempty"`
	Silent             bool                 `json:"silent,omitempty"`
	Actions            []NotificationAction `json:"actions,omitempty"`
	Data               NotificationData     `json:"data"`
}

// optionsFor builds display options from a normalized payload and the
// resolved click-target URL.
func optionsFor(p PushPayload, targetURL string) NotificationOptions {
	return NotificationOptions{
		Body:               p.Message,
		Icon:               p.Icon,
		Badge:              p.Badge,
		Tag:                p.Tag,
		RequireInteraction: p.RequireInteraction,
		Renotify:           p.Renotify,
		Silent:             p.Silent,
		Actions:            p.Actions,
		Data: NotificationData{
			URL:     targetURL,
			Kind:    KindPush,
			Payload: p,
		},
	}
}

package swroute

import "context"

// VisibilityVisible is the window client visibility state that counts
// as "user can see the app".
const VisibilityVisible = "visible"

// WindowClient is one open same-origin application window as seen from
// the background context.
type WindowClient interface {
	ID() string
	Focused() bool
	VisibilityState() string
	PostMessage(ctx context.Context, msg any) error
	Focus(ctx context.Context) error
	Navigate(ctx context.Context, target string) error
}

// ClientRegistry enumerates and opens window clients. Implemented by the
// host platform binding; tests supply fakes.
type ClientRegistry interface {
	MatchAll(ctx context.Context) ([]WindowClient, error)
	OpenWindow(ctx context.Context, target string) (WindowClient, error)
}

// NotificationDisplay is the OS-level "show notification" primitive.
type NotificationDisplay interface {
	Show(ctx context.Context, title string, opts NotificationOptions) error
}

// ReplyPort delivers a reply for a debug message, either through a
// dedicated message channel port or back to the event source.
type ReplyPort interface {
	Post(ctx context.Context, msg any) error
}

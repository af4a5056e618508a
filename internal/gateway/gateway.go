package gateway

import "context"

// RoundContent is one round presentation: text, optional generated media,
// and the answer options rendered as buttons.
type RoundContent struct {
	Title   string
	Body    string
	Options []string
	// CallbackPrefix namespaces the option buttons, so inbound submissions
	// can be routed back to the right game ("quiz:2", "picture:0", ...).
	CallbackPrefix string
	Image          []byte
}

// MessageHandle identifies a dispatched presentation so it can be disabled
// or edited later. Opaque to the game engine.
type MessageHandle struct {
	ChatID    int64
	MessageID int
}

func (h MessageHandle) Zero() bool { return h.MessageID == 0 }

// Gateway is the chat-platform boundary the engine talks through. The
// engine needs nothing beyond dispatching content and revoking a prior
// presentation's buttons.
type Gateway interface {
	PresentRound(ctx context.Context, channelID string, content RoundContent) (MessageHandle, error)
	DisablePresentation(ctx context.Context, handle MessageHandle) error
	DispatchNotice(ctx context.Context, channelID, text string) error
}

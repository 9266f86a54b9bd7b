package bus

import "context"

// ChatKind distinguishes private conversations from group chats.
type ChatKind int

const (
	ChatDirect ChatKind = iota
	ChatGroup
)

// Identity describes the sender of an inbound event as reported by the
// chat platform. Immutable per event.
type Identity struct {
	ID        int64
	Username  string
	FirstName string
}

// Callback is a structured button press with an opaque payload.
type Callback struct {
	ID   string
	Data string
}

// Event is one inbound chat event. Exactly one of Command, Text, Photos
// or Callback carries the payload; Sender and ChatID are always set.
type Event struct {
	// Command is set for explicit slash commands, without the slash.
	Command string
	Text    string
	// Photos holds media file references ordered by increasing resolution.
	Photos   []string
	Callback *Callback

	Sender Identity
	ChatID int64
	Chat   ChatKind
}

// Menu labels rendered on reply keyboards. The dispatch layer matches
// inbound text against these exact strings.
const (
	MenuShop      = "🛒 Shop"
	MenuInfo      = "ℹ️ Info"
	MenuAddItem   = "➕ Add item"
	MenuListItems = "📝 List items"
	MenuDelete    = "🗑 Delete item"
	MenuSkipPhoto = "⏭ Skip photo"
)

// BuyPrefix tags purchase callback payloads; the suffix is the zero-based
// catalog index of the ordered item.
const BuyPrefix = "buy_"

// Keyboard selects one of the fixed reply keyboards rendered by the
// channel alongside an outbound message.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardAdmin
	KeyboardSkipPhoto
)

// SendOptions controls formatting and keyboards on an outbound send.
type SendOptions struct {
	// Markdown renders the body as MarkdownV2. User-supplied substrings
	// must already be escaped (markup.EscapeMarkdown).
	Markdown bool
	Keyboard Keyboard
	// OrderData, when non-empty, attaches an inline order button carrying
	// this callback payload. Takes precedence over Keyboard.
	OrderData string
}

// Transport is the outbound side of the chat platform.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, opts SendOptions) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, opts SendOptions) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Package shop holds the stateless storefront handlers: greeting,
// catalog browsing, the info panel, and the operator list, delete and
// purchase paths.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/arizonacpm/parkshop/pkg/auth"
	"github.com/arizonacpm/parkshop/pkg/bus"
	"github.com/arizonacpm/parkshop/pkg/catalog"
	"github.com/arizonacpm/parkshop/pkg/logger"
	"github.com/arizonacpm/parkshop/pkg/markup"
	"github.com/arizonacpm/parkshop/pkg/notify"
)

const component = "shop"

const infoText = "ℹ️ *Shop information*\n\n" +
	"🎮 Car Parking in\\-game goods shop\n\n" +
	"📞 *Support:* @Arizonaa\\_cpm\n" +
	"💬 *Questions:* @sukunuma\n\n" +
	"💡 How to order:\n" +
	"1\\. Pick an item in the shop\n" +
	"2\\. Press 'Order'\n" +
	"3\\. Wait for an administrator to contact you"

type Handlers struct {
	catalog   *catalog.Store
	guard     *auth.Guard
	transport bus.Transport
	notifier  *notify.Notifier
}

func NewHandlers(cat *catalog.Store, guard *auth.Guard, transport bus.Transport, notifier *notify.Notifier) *Handlers {
	return &Handlers{
		catalog:   cat,
		guard:     guard,
		transport: transport,
		notifier:  notifier,
	}
}

// Start greets the sender with the keyboard matching their privilege.
// In group chats it replies with the chat id instead, so an operator can
// wire up the broadcast destination.
func (h *Handlers) Start(ctx context.Context, ev bus.Event) {
	if ev.Chat == bus.ChatGroup {
		logger.InfoCF(component, "Group start", map[string]any{"chat_id": ev.ChatID})
		h.send(ctx, ev.ChatID, fmt.Sprintf(
			"🆔 This group's chat id: `%d`\n\nCopy it into \\.env as ADMIN\\_GROUP\\_ID",
			ev.ChatID,
		), bus.SendOptions{Markdown: true})
		return
	}

	if h.guard.IsOperator(ev.Sender) {
		h.send(ctx, ev.ChatID, fmt.Sprintf(
			"👋 Hi, %s!\n\n🎮 Welcome to the Car Parking shop!\n\n👑 You are an administrator. All functions are available.",
			ev.Sender.FirstName,
		), bus.SendOptions{Keyboard: bus.KeyboardAdmin})
		return
	}
	h.send(ctx, ev.ChatID, fmt.Sprintf(
		"👋 Hi, %s!\n\n🎮 Welcome to the Car Parking shop!\nHere you can order in-game items.\n\nPress 🛒 Shop to browse.",
		ev.Sender.FirstName,
	), bus.SendOptions{Keyboard: bus.KeyboardMain})
}

// ShowShop sends every catalog item as its own message with an inline
// order button tagged with the item's index.
func (h *Handlers) ShowShop(ctx context.Context, ev bus.Event) {
	items := h.catalog.List()
	if len(items) == 0 {
		h.send(ctx, ev.ChatID, "😔 The shop is empty for now. Items are coming soon!", bus.SendOptions{})
		return
	}

	for i, item := range items {
		text := fmt.Sprintf("📦 *%s*\n\n💰 Price: %s UAH\n📝 %s\n",
			markup.EscapeMarkdown(item.Name),
			markup.EscapeMarkdown(item.Price),
			markup.EscapeMarkdown(item.Description),
		)
		opts := bus.SendOptions{
			Markdown:  true,
			OrderData: fmt.Sprintf("%s%d", bus.BuyPrefix, i),
		}
		var err error
		if item.HasPhoto() {
			err = h.transport.SendPhoto(ctx, ev.ChatID, item.Photo, text, opts)
		} else {
			err = h.transport.SendText(ctx, ev.ChatID, text, opts)
		}
		if err != nil {
			logger.WarnCF(component, "Failed to send shop entry", map[string]any{
				"index": i,
				"error": err.Error(),
			})
		}
	}
}

// ShowInfo sends the static info panel.
func (h *Handlers) ShowInfo(ctx context.Context, ev bus.Event) {
	h.send(ctx, ev.ChatID, infoText, bus.SendOptions{Markdown: true})
}

// ListItems shows the operator a compact index of the catalog, marking
// whether each item carries a photo.
func (h *Handlers) ListItems(ctx context.Context, ev bus.Event) {
	items := h.catalog.List()
	if len(items) == 0 {
		h.send(ctx, ev.ChatID, "📝 The item list is empty", bus.SendOptions{})
		return
	}

	var b strings.Builder
	b.WriteString("📝 *Item list:*\n\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d\\. %s \\- %s UAH %s\n",
			i+1,
			markup.EscapeMarkdown(item.Name),
			markup.EscapeMarkdown(item.Price),
			photoMark(item),
		))
	}
	h.send(ctx, ev.ChatID, b.String(), bus.SendOptions{Markdown: true})
}

// PromptDelete lists the catalog with 1-based ordinals and asks which
// one to delete. The actual removal happens when the operator replies
// with a bare number.
func (h *Handlers) PromptDelete(ctx context.Context, ev bus.Event) {
	items := h.catalog.List()
	if len(items) == 0 {
		h.send(ctx, ev.ChatID, "📝 The item list is empty", bus.SendOptions{})
		return
	}

	var b strings.Builder
	b.WriteString("🗑 *Deleting an item*\n\nSend the number of the item to delete:\n\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d\\. %s %s\n", i+1, markup.EscapeMarkdown(item.Name), photoMark(item)))
	}
	h.send(ctx, ev.ChatID, b.String(), bus.SendOptions{Markdown: true})
}

// DeleteByOrdinal removes the item at the 1-based ordinal in the event
// text. Dispatch guarantees the text is numeric and the sender is an
// operator.
func (h *Handlers) DeleteByOrdinal(ctx context.Context, ev bus.Event) {
	ordinal, err := strconv.Atoi(ev.Text)
	if err != nil {
		h.send(ctx, ev.ChatID, "❌ Invalid item number", bus.SendOptions{})
		return
	}

	removed, err := h.catalog.RemoveAt(ordinal - 1)
	switch {
	case errors.Is(err, catalog.ErrOutOfRange):
		h.send(ctx, ev.ChatID, "❌ Invalid item number", bus.SendOptions{})
		return
	case err != nil:
		logger.ErrorCF(component, "Failed to delete item", map[string]any{
			"ordinal": ordinal,
			"error":   err.Error(),
		})
		h.send(ctx, ev.ChatID, "❌ Failed to delete the item. Please try again.", bus.SendOptions{})
		return
	}

	logger.InfoCF(component, "Item deleted", map[string]any{
		"name":      removed.Name,
		"sender_id": ev.Sender.ID,
	})
	h.send(ctx, ev.ChatID, fmt.Sprintf("✅ Item '%s' deleted!", removed.Name), bus.SendOptions{Keyboard: bus.KeyboardAdmin})
	h.notifier.ItemDeleted(ctx, removed)
}

// Buy handles a purchase callback whose payload carries the catalog
// index. Range errors answer the callback with a fixed rejection and
// touch nothing.
func (h *Handlers) Buy(ctx context.Context, ev bus.Event) {
	if ev.Callback == nil {
		return
	}

	index, err := strconv.Atoi(strings.TrimPrefix(ev.Callback.Data, bus.BuyPrefix))
	if err != nil {
		h.answer(ctx, ev.Callback.ID, "❌ Item not found")
		return
	}
	item, err := h.catalog.Get(index)
	if err != nil {
		h.answer(ctx, ev.Callback.ID, "❌ Item not found")
		return
	}

	ref := orderRef()
	logger.InfoCF(component, "Order placed", map[string]any{
		"item":     item.Name,
		"buyer_id": ev.Sender.ID,
		"ref":      ref,
	})
	h.notifier.OrderPlaced(ctx, item, ev.Sender, ref)
	h.answer(ctx, ev.Callback.ID, "✅ Order sent!")
}

// orderRef returns a short reference the operator can quote back to the
// buyer.
func orderRef() string {
	return uuid.NewString()[:8]
}

func photoMark(item catalog.Item) string {
	if item.HasPhoto() {
		return "📷"
	}
	return "🚫"
}

func (h *Handlers) send(ctx context.Context, chatID int64, text string, opts bus.SendOptions) {
	if err := h.transport.SendText(ctx, chatID, text, opts); err != nil {
		logger.WarnCF(component, "Failed to send reply", map[string]any{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func (h *Handlers) answer(ctx context.Context, callbackID, text string) {
	if err := h.transport.AnswerCallback(ctx, callbackID, text); err != nil {
		logger.WarnCF(component, "Failed to answer callback", map[string]any{
			"callback_id": callbackID,
			"error":       err.Error(),
		})
	}
}

// Package notify fans catalog and order events out to the operator
// broadcast chat. Sends here are best effort: the primary action has
// already completed, so every failure is logged and swallowed.
package notify

import (
	"context"
	"fmt"

	"github.com/arizonacpm/parkshop/pkg/bus"
	"github.com/arizonacpm/parkshop/pkg/catalog"
	"github.com/arizonacpm/parkshop/pkg/logger"
	"github.com/arizonacpm/parkshop/pkg/markup"
)

const component = "notify"

type Notifier struct {
	transport bus.Transport
	groupID   int64
}

func New(transport bus.Transport, groupID int64) *Notifier {
	return &Notifier{transport: transport, groupID: groupID}
}

// ItemCreated announces a newly added item to the operator chat.
func (n *Notifier) ItemCreated(ctx context.Context, item catalog.Item) {
	photoLine := "🚫 No photo"
	if item.HasPhoto() {
		photoLine = "📷 With photo"
	}
	text := fmt.Sprintf(
		"➕ *New item added\\!*\n\n📦 Name: %s\n💰 Price: %s UAH\n📝 Description: %s\n%s",
		markup.EscapeMarkdown(item.Name),
		markup.EscapeMarkdown(item.Price),
		markup.EscapeMarkdown(item.Description),
		photoLine,
	)
	n.broadcast(ctx, item, text)
}

// ItemDeleted announces a removed item to the operator chat.
func (n *Notifier) ItemDeleted(ctx context.Context, item catalog.Item) {
	text := fmt.Sprintf(
		"🗑 *Item deleted\\!*\n\n📦 Name: %s\n💰 Price: %s UAH\n📝 Description: %s",
		markup.EscapeMarkdown(item.Name),
		markup.EscapeMarkdown(item.Price),
		markup.EscapeMarkdown(item.Description),
	)
	n.broadcast(ctx, item, text)
}

// OrderPlaced tells the operator chat about a new order and confirms it
// to the buyer. The two sends are independent: either may fail without
// affecting the other.
func (n *Notifier) OrderPlaced(ctx context.Context, item catalog.Item, buyer bus.Identity, ref string) {
	username := buyer.Username
	if username == "" {
		username = "no username"
	}
	text := fmt.Sprintf(
		"🛒 *New order\\!*\n\n"+
			"👤 Buyer: %s \\(@%s\\)\n🆔 ID: `%d`\n🧾 Ref: `%s`\n\n"+
			"📦 Item: %s\n💰 Price: %s UAH\n\n"+
			"Contact the buyer to complete the deal\\!",
		markup.EscapeMarkdown(buyer.FirstName),
		markup.EscapeMarkdown(username),
		buyer.ID,
		ref,
		markup.EscapeMarkdown(item.Name),
		markup.EscapeMarkdown(item.Price),
	)
	n.broadcast(ctx, item, text)

	confirmation := fmt.Sprintf(
		"✅ *Order placed\\!*\n\n"+
			"📦 Item: %s\n💰 Price: %s UAH\n🧾 Ref: `%s`\n\n"+
			"An administrator will contact you shortly to complete the order\\.\n"+
			"Please wait for a message\\!",
		markup.EscapeMarkdown(item.Name),
		markup.EscapeMarkdown(item.Price),
		ref,
	)
	if err := n.transport.SendText(ctx, buyer.ID, confirmation, bus.SendOptions{Markdown: true}); err != nil {
		logger.ErrorCF(component, "Failed to send order confirmation", map[string]any{
			"buyer_id": buyer.ID,
			"error":    err.Error(),
		})
	}
}

// broadcast sends text to the operator chat, as a photo caption when the
// item carries one. A zero group id disables broadcasting.
func (n *Notifier) broadcast(ctx context.Context, item catalog.Item, text string) {
	if n.groupID == 0 {
		logger.WarnC(component, "Operator group id not configured, broadcast skipped")
		return
	}
	var err error
	if item.HasPhoto() {
		err = n.transport.SendPhoto(ctx, n.groupID, item.Photo, text, bus.SendOptions{Markdown: true})
	} else {
		err = n.transport.SendText(ctx, n.groupID, text, bus.SendOptions{Markdown: true})
	}
	if err != nil {
		logger.ErrorCF(component, "Failed to notify operator group", map[string]any{
			"group_id": n.groupID,
			"error":    err.Error(),
		})
	}
}

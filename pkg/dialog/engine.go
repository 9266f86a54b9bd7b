// Package dialog drives the add-item dialogue: a strictly linear state
// machine collecting name, price, description and an optional photo,
// then committing the finished draft to the catalog.
package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/arizonacpm/parkshop/pkg/bus"
	"github.com/arizonacpm/parkshop/pkg/catalog"
	"github.com/arizonacpm/parkshop/pkg/logger"
	"github.com/arizonacpm/parkshop/pkg/notify"
	"github.com/arizonacpm/parkshop/pkg/session"
)

const component = "dialog"

type Engine struct {
	sessions  *session.Store
	catalog   *catalog.Store
	transport bus.Transport
	notifier  *notify.Notifier
}

func NewEngine(sessions *session.Store, cat *catalog.Store, transport bus.Transport, notifier *notify.Notifier) *Engine {
	return &Engine{
		sessions:  sessions,
		catalog:   cat,
		transport: transport,
		notifier:  notifier,
	}
}

// Begin opens a fresh session for the sender and prompts for the item
// name. The caller is responsible for the operator check.
func (e *Engine) Begin(ctx context.Context, ev bus.Event) {
	e.sessions.Begin(ev.Sender.ID)
	e.reply(ctx, ev, "➕ *Adding an item*\n\nStep 1/4: Send the item name:", bus.SendOptions{Markdown: true})
}

// Step handles one inbound event for a sender with an open session,
// keyed on the current state. Events with no text and no media (button
// callbacks, stickers and the like) are ignored so collected fields stay
// non-empty by construction.
func (e *Engine) Step(ctx context.Context, ev bus.Event) {
	if ev.Text == "" && len(ev.Photos) == 0 {
		logger.DebugCF(component, "Ignored non-text event mid-dialogue", map[string]any{
			"sender_id": ev.Sender.ID,
		})
		return
	}
	switch e.sessions.State(ev.Sender.ID) {
	case session.StateName:
		e.collectName(ctx, ev)
	case session.StatePrice:
		e.collectPrice(ctx, ev)
	case session.StateDescription:
		e.collectDescription(ctx, ev)
	case session.StatePhoto:
		e.collectPhoto(ctx, ev)
	}
}

func (e *Engine) collectName(ctx context.Context, ev bus.Event) {
	if ev.Text == "" {
		return
	}
	name := ev.Text
	e.sessions.Advance(ev.Sender.ID, session.StatePrice, func(d *session.Draft) { d.Name = name })
	e.plain(ctx, ev, "Step 2/4: Send the item price (number only):")
}

func (e *Engine) collectPrice(ctx context.Context, ev bus.Event) {
	if !ValidPrice(ev.Text) {
		// Re-prompt in place: no state change, draft untouched.
		e.plain(ctx, ev, "❌ The price must be a number. Try again:")
		return
	}
	price := ev.Text
	e.sessions.Advance(ev.Sender.ID, session.StateDescription, func(d *session.Draft) { d.Price = price })
	e.plain(ctx, ev, "Step 3/4: Send the item description:")
}

func (e *Engine) collectDescription(ctx context.Context, ev bus.Event) {
	if ev.Text == "" {
		return
	}
	description := ev.Text
	e.sessions.Advance(ev.Sender.ID, session.StatePhoto, func(d *session.Draft) { d.Description = description })
	e.reply(ctx, ev, "Step 4/4: Send an item photo or press 'Skip photo':", bus.SendOptions{Keyboard: bus.KeyboardSkipPhoto})
}

// collectPhoto handles the two terminal transitions: a media attachment
// commits with the highest-resolution reference, the skip label commits
// without one. Anything else is dropped.
func (e *Engine) collectPhoto(ctx context.Context, ev bus.Event) {
	switch {
	case len(ev.Photos) > 0:
		e.finish(ctx, ev, ev.Photos[len(ev.Photos)-1])
	case ev.Text == bus.MenuSkipPhoto:
		e.finish(ctx, ev, "")
	default:
		logger.DebugCF(component, "Ignored event while waiting for photo", map[string]any{
			"sender_id": ev.Sender.ID,
		})
	}
}

func (e *Engine) finish(ctx context.Context, ev bus.Event, photo string) {
	draft := e.sessions.Clear(ev.Sender.ID)
	item := catalog.Item{
		Name:        draft.Name,
		Price:       draft.Price,
		Description: draft.Description,
		Photo:       photo,
	}

	if err := e.catalog.Append(item); err != nil {
		logger.ErrorCF(component, "Failed to store new item", map[string]any{
			"sender_id": ev.Sender.ID,
			"error":     err.Error(),
		})
		e.reply(ctx, ev, "❌ Failed to save the item. Please try again.", bus.SendOptions{Keyboard: bus.KeyboardAdmin})
		return
	}

	variant := "without a photo"
	if item.HasPhoto() {
		variant = "with a photo"
	}
	e.reply(ctx, ev, fmt.Sprintf("✅ Item '%s' added %s!", item.Name, variant), bus.SendOptions{Keyboard: bus.KeyboardAdmin})

	logger.InfoCF(component, "Item added", map[string]any{
		"name":      item.Name,
		"sender_id": ev.Sender.ID,
	})
	e.notifier.ItemCreated(ctx, item)
}

// ValidPrice accepts digits with any number of '.' separators: every dot
// is stripped and the remainder must be one or more digits. So "49.99"
// passes, and so does "1.2.3". No sign, bounds or locale handling.
func ValidPrice(text string) bool {
	stripped := strings.ReplaceAll(text, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (e *Engine) plain(ctx context.Context, ev bus.Event, text string) {
	e.reply(ctx, ev, text, bus.SendOptions{})
}

func (e *Engine) reply(ctx context.Context, ev bus.Event, text string, opts bus.SendOptions) {
	if err := e.transport.SendText(ctx, ev.ChatID, text, opts); err != nil {
		logger.WarnCF(component, "Failed to send reply", map[string]any{
			"chat_id": ev.ChatID,
			"error":   err.Error(),
		})
	}
}

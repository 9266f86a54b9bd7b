// Package dispatch routes each inbound event to exactly one handler.
//
// Resolution order, first match wins: explicit commands, the sender's
// open dialogue session, literal menu labels, bare numbers from an
// operator (delete by ordinal), purchase callbacks, then drop.
//
// A session abandoned mid-dialogue stays open: navigating elsewhere
// does not reset it, and the sender resumes at the same step later.
package dispatch

import (
	"context"
	"strings"

	"github.com/arizonacpm/parkshop/pkg/auth"
	"github.com/arizonacpm/parkshop/pkg/bus"
	"github.com/arizonacpm/parkshop/pkg/dialog"
	"github.com/arizonacpm/parkshop/pkg/logger"
	"github.com/arizonacpm/parkshop/pkg/session"
	"github.com/arizonacpm/parkshop/pkg/shop"
)

const component = "dispatch"

type Router struct {
	guard     *auth.Guard
	sessions  *session.Store
	engine    *dialog.Engine
	shop      *shop.Handlers
	transport bus.Transport
}

func NewRouter(guard *auth.Guard, sessions *session.Store, engine *dialog.Engine, handlers *shop.Handlers, transport bus.Transport) *Router {
	return &Router{
		guard:     guard,
		sessions:  sessions,
		engine:    engine,
		shop:      handlers,
		transport: transport,
	}
}

// Route dispatches one inbound event. It never fails: malformed payloads
// are the selected handler's problem, and unmatched events are dropped.
func (r *Router) Route(ctx context.Context, ev bus.Event) {
	// 1. Explicit commands beat everything, including an open session.
	if ev.Command != "" {
		if ev.Command == "start" {
			r.shop.Start(ctx, ev)
			return
		}
		logger.DebugCF(component, "Unknown command", map[string]any{"command": ev.Command})
		return
	}

	// 2. An open session consumes the event, whatever its text says.
	if r.sessions.State(ev.Sender.ID) != session.StateNone {
		r.engine.Step(ctx, ev)
		return
	}

	// 3. Menu labels.
	switch ev.Text {
	case bus.MenuShop:
		r.shop.ShowShop(ctx, ev)
		return
	case bus.MenuInfo:
		r.shop.ShowInfo(ctx, ev)
		return
	case bus.MenuAddItem:
		if r.requireOperator(ctx, ev) {
			r.engine.Begin(ctx, ev)
		}
		return
	case bus.MenuListItems:
		if r.requireOperator(ctx, ev) {
			r.shop.ListItems(ctx, ev)
		}
		return
	case bus.MenuDelete:
		if r.requireOperator(ctx, ev) {
			r.shop.PromptDelete(ctx, ev)
		}
		return
	}

	// 4. Bare numbers from an operator delete by ordinal. The same text
	// from anyone else falls through and is dropped.
	if ev.Text != "" && isNumeric(ev.Text) && r.guard.IsOperator(ev.Sender) {
		r.shop.DeleteByOrdinal(ctx, ev)
		return
	}

	// 5. Purchase callbacks.
	if ev.Callback != nil && strings.HasPrefix(ev.Callback.Data, bus.BuyPrefix) {
		r.shop.Buy(ctx, ev)
		return
	}

	// 6. Nothing matched.
	logger.DebugCF(component, "Dropped unroutable event", map[string]any{
		"sender_id": ev.Sender.ID,
	})
}

// requireOperator replies with the fixed rejection when the sender lacks
// privilege.
func (r *Router) requireOperator(ctx context.Context, ev bus.Event) bool {
	if r.guard.IsOperator(ev.Sender) {
		return true
	}
	logger.InfoCF(component, "Rejected privileged action", map[string]any{
		"sender_id": ev.Sender.ID,
		"username":  ev.Sender.Username,
	})
	if err := r.transport.SendText(ctx, ev.ChatID, "❌ You do not have administrator rights", bus.SendOptions{}); err != nil {
		logger.WarnCF(component, "Failed to send rejection", map[string]any{
			"chat_id": ev.ChatID,
			"error":   err.Error(),
		})
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package channels bridges the chat platform and the dispatch layer.
package channels

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"

	"github.com/arizonacpm/parkshop/pkg/bus"
	"github.com/arizonacpm/parkshop/pkg/config"
	"github.com/arizonacpm/parkshop/pkg/logger"
)

const (
	component   = "telegram"
	sendTimeout = 10 * time.Second
)

// Dispatcher consumes inbound events. Satisfied by dispatch.Router.
type Dispatcher interface {
	Route(ctx context.Context, ev bus.Event)
}

// TelegramChannel converts long-polling updates into bus events for the
// dispatcher and implements bus.Transport for outbound sends.
type TelegramChannel struct {
	bot        *telego.Bot
	dispatcher Dispatcher
}

func NewTelegramChannel(cfg *config.Config) (*TelegramChannel, error) {
	opts := []telego.BotOption{telego.WithDiscardLogger()}
	if cfg.Debug {
		opts = []telego.BotOption{telego.WithDefaultDebugLogger()}
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot}, nil
}

// SetDispatcher wires the router in after construction; the router needs
// the channel as its transport first.
func (c *TelegramChannel) SetDispatcher(d Dispatcher) {
	c.dispatcher = d
}

// Start consumes updates until ctx is cancelled. Updates are handled one
// at a time, so handlers for a single process run serialized.
func (c *TelegramChannel) Start(ctx context.Context) error {
	logger.InfoC(component, "Starting Telegram bot")

	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	logger.InfoCF(component, "Telegram bot connected", map[string]any{
		"username": me.Username,
		"user_id":  me.ID,
	})

	updates, err := c.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	for update := range updates {
		c.handleUpdate(ctx, update)
	}

	logger.InfoC(component, "Telegram bot stopped")
	return nil
}

func (c *TelegramChannel) handleUpdate(ctx context.Context, update telego.Update) {
	switch {
	case update.Message != nil:
		c.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		c.handleCallback(ctx, update.CallbackQuery)
	}
}

func (c *TelegramChannel) handleMessage(ctx context.Context, msg *telego.Message) {
	if msg.From == nil {
		return
	}

	ev := bus.Event{
		Sender: identityOf(msg.From),
		ChatID: msg.Chat.ID,
		Chat:   chatKindOf(msg.Chat.Type),
		Text:   msg.Text,
	}
	if cmd, ok := commandOf(msg.Text); ok {
		ev.Command = cmd
		ev.Text = ""
	}
	for _, size := range msg.Photo {
		ev.Photos = append(ev.Photos, size.FileID)
	}

	logger.DebugCF(component, "Received message", map[string]any{
		"sender_id": ev.Sender.ID,
		"username":  ev.Sender.Username,
		"chat_id":   ev.ChatID,
	})
	c.dispatcher.Route(ctx, ev)
}

func (c *TelegramChannel) handleCallback(ctx context.Context, cb *telego.CallbackQuery) {
	ev := bus.Event{
		Sender: identityOf(&cb.From),
		// For this bot callbacks originate in the buyer's private chat,
		// so the sender id doubles as the chat id.
		ChatID:   cb.From.ID,
		Callback: &bus.Callback{ID: cb.ID, Data: cb.Data},
	}

	logger.DebugCF(component, "Received callback", map[string]any{
		"sender_id": ev.Sender.ID,
		"data":      cb.Data,
	})
	c.dispatcher.Route(ctx, ev)
}

// SendText implements bus.Transport.
func (c *TelegramChannel) SendText(ctx context.Context, chatID int64, text string, opts bus.SendOptions) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	params := &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ReplyMarkup: replyMarkup(opts),
	}
	if opts.Markdown {
		params.ParseMode = telego.ModeMarkdownV2
	}

	if _, err := c.bot.SendMessage(sendCtx, params); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// SendPhoto implements bus.Transport.
func (c *TelegramChannel) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, opts bus.SendOptions) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	params := &telego.SendPhotoParams{
		ChatID:      telego.ChatID{ID: chatID},
		Photo:       telego.InputFile{FileID: fileID},
		Caption:     caption,
		ReplyMarkup: replyMarkup(opts),
	}
	if opts.Markdown {
		params.ParseMode = telego.ModeMarkdownV2
	}

	if _, err := c.bot.SendPhoto(sendCtx, params); err != nil {
		return fmt.Errorf("failed to send telegram photo: %w", err)
	}
	return nil
}

// AnswerCallback implements bus.Transport.
func (c *TelegramChannel) AnswerCallback(ctx context.Context, callbackID, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err := c.bot.AnswerCallbackQuery(sendCtx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// commandOf extracts a bot command: "/start@parkshop_bot arg" -> "start".
func commandOf(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	if cmd == "" {
		return "", false
	}
	return cmd, true
}

func identityOf(u *telego.User) bus.Identity {
	return bus.Identity{ID: u.ID, Username: u.Username, FirstName: u.FirstName}
}

func chatKindOf(chatType string) bus.ChatKind {
	switch chatType {
	case telego.ChatTypeGroup, telego.ChatTypeSupergroup:
		return bus.ChatGroup
	}
	return bus.ChatDirect
}

func replyMarkup(opts bus.SendOptions) telego.ReplyMarkup {
	if opts.OrderData != "" {
		return &telego.InlineKeyboardMarkup{
			InlineKeyboard: [][]telego.InlineKeyboardButton{{
				{Text: "🛒 Order", CallbackData: opts.OrderData},
			}},
		}
	}

	switch opts.Keyboard {
	case bus.KeyboardMain:
		return replyKeyboard([][]string{
			{bus.MenuShop},
			{bus.MenuInfo},
		})
	case bus.KeyboardAdmin:
		return replyKeyboard([][]string{
			{bus.MenuShop, bus.MenuAddItem},
			{bus.MenuListItems, bus.MenuDelete},
			{bus.MenuInfo},
		})
	case bus.KeyboardSkipPhoto:
		return replyKeyboard([][]string{
			{bus.MenuSkipPhoto},
		})
	}
	return nil
}

func replyKeyboard(rows [][]string) *telego.ReplyKeyboardMarkup {
	keyboard := make([][]telego.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]telego.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, telego.KeyboardButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	return &telego.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}

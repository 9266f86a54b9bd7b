package channels

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arizonacpm/parkshop/pkg/bus"
)

func TestCommandOf(t *testing.T) {
	tests := []struct {
		in  string
		cmd string
		ok  bool
	}{
		{"/start", "start", true},
		{"/start@parkshop_bot", "start", true},
		{"/start extra args", "start", true},
		{"/", "", false},
		{"start", "", false},
		{"hello /start", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmd, ok := commandOf(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cmd, cmd)
		})
	}
}

func TestChatKindOf(t *testing.T) {
	assert.Equal(t, bus.ChatDirect, chatKindOf(telego.ChatTypePrivate))
	assert.Equal(t, bus.ChatGroup, chatKindOf(telego.ChatTypeGroup))
	assert.Equal(t, bus.ChatGroup, chatKindOf(telego.ChatTypeSupergroup))
	assert.Equal(t, bus.ChatDirect, chatKindOf("channel"))
}

func TestReplyMarkup_OrderButtonWinsOverKeyboard(t *testing.T) {
	markup := replyMarkup(bus.SendOptions{Keyboard: bus.KeyboardAdmin, OrderData: "buy_3"})

	inline, ok := markup.(*telego.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, inline.InlineKeyboard, 1)
	require.Len(t, inline.InlineKeyboard[0], 1)
	assert.Equal(t, "buy_3", inline.InlineKeyboard[0][0].CallbackData)
}

func TestReplyMarkup_Keyboards(t *testing.T) {
	assert.Nil(t, replyMarkup(bus.SendOptions{}))

	main, ok := replyMarkup(bus.SendOptions{Keyboard: bus.KeyboardMain}).(*telego.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, main.ResizeKeyboard)
	require.Len(t, main.Keyboard, 2)
	assert.Equal(t, bus.MenuShop, main.Keyboard[0][0].Text)

	admin, ok := replyMarkup(bus.SendOptions{Keyboard: bus.KeyboardAdmin}).(*telego.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, admin.Keyboard, 3)
	assert.Equal(t, bus.MenuAddItem, admin.Keyboard[0][1].Text)

	skip, ok := replyMarkup(bus.SendOptions{Keyboard: bus.KeyboardSkipPhoto}).(*telego.ReplyKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, skip.Keyboard, 1)
	assert.Equal(t, bus.MenuSkipPhoto, skip.Keyboard[0][0].Text)
}

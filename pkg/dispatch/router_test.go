package dispatch

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arizonacpm/parkshop/pkg/auth"
	"github.com/arizonacpm/parkshop/pkg/bus"
	"github.com/arizonacpm/parkshop/pkg/catalog"
	"github.com/arizonacpm/parkshop/pkg/dialog"
	"github.com/arizonacpm/parkshop/pkg/notify"
	"github.com/arizonacpm/parkshop/pkg/session"
	"github.com/arizonacpm/parkshop/pkg/shop"
)

const (
	operatorID = int64(42)
	buyerID    = int64(7)
	groupID    = int64(-100)
)

var (
	operator = bus.Identity{ID: operatorID, Username: "boss", FirstName: "Boss"}
	buyer    = bus.Identity{ID: buyerID, Username: "kid", FirstName: "Kid"}
)

type sentText struct {
	chatID int64
	text   string
	opts   bus.SendOptions
}

type fakeTransport struct {
	texts   []sentText
	photos  []string
	answers []string
}

func (f *fakeTransport) SendText(_ context.Context, chatID int64, text string, opts bus.SendOptions) error {
	f.texts = append(f.texts, sentText{chatID, text, opts})
	return nil
}

func (f *fakeTransport) SendPhoto(_ context.Context, _ int64, fileID, _ string, _ bus.SendOptions) error {
	f.photos = append(f.photos, fileID)
	return nil
}

func (f *fakeTransport) AnswerCallback(_ context.Context, _, text string) error {
	f.answers = append(f.answers, text)
	return nil
}

type fixture struct {
	router   *Router
	tr       *fakeTransport
	store    *catalog.Store
	sessions *session.Store
}

func newFixture(t *testing.T, items ...catalog.Item) *fixture {
	t.Helper()
	tr := &fakeTransport{}
	store := catalog.Open(filepath.Join(t.TempDir(), "products.json"))
	for _, item := range items {
		require.NoError(t, store.Append(item))
	}
	sessions := session.NewStore()
	guard := auth.NewGuard(operatorID, []string{"boss"})
	notifier := notify.New(tr, groupID)
	engine := dialog.NewEngine(sessions, store, tr, notifier)
	handlers := shop.NewHandlers(store, guard, tr, notifier)
	return &fixture{
		router:   NewRouter(guard, sessions, engine, handlers, tr),
		tr:       tr,
		store:    store,
		sessions: sessions,
	}
}

func textFrom(sender bus.Identity, text string) bus.Event {
	return bus.Event{Sender: sender, ChatID: sender.ID, Text: text}
}

func TestRoute_NumericFromOperatorDeletesByOrdinal(t *testing.T) {
	f := newFixture(t,
		catalog.Item{Name: "A", Price: "1", Description: "d"},
		catalog.Item{Name: "B", Price: "2", Description: "d"},
	)

	f.router.Route(context.Background(), textFrom(operator, "1"))

	items := f.store.List()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Name, "1-based ordinal 1 removes the first item")
}

func TestRoute_NumericFromUnprivilegedIsDropped(t *testing.T) {
	f := newFixture(t, catalog.Item{Name: "A", Price: "1", Description: "d"})

	f.router.Route(context.Background(), textFrom(buyer, "1"))

	assert.Len(t, f.store.List(), 1, "catalog must be untouched")
	assert.Empty(t, f.tr.texts, "no reply for a dropped event")
	assert.Equal(t, session.StateNone, f.sessions.State(buyerID), "must not route to any creation step")
}

func TestRoute_CommandBeatsOpenSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.router.Route(ctx, textFrom(operator, bus.MenuAddItem))
	require.Equal(t, session.StateName, f.sessions.State(operatorID))

	f.router.Route(ctx, bus.Event{Sender: operator, ChatID: operatorID, Command: "start"})

	last := f.tr.texts[len(f.tr.texts)-1]
	assert.Contains(t, last.text, "administrator", "start greeting must be sent")
	// Sessions are not reset on navigation: the dialogue resumes as is.
	assert.Equal(t, session.StateName, f.sessions.State(operatorID))
}

func TestRoute_OpenSessionConsumesMenuLabels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.router.Route(ctx, textFrom(operator, bus.MenuAddItem))
	f.router.Route(ctx, textFrom(operator, bus.MenuShop))

	// The label text became the item name rather than opening the shop.
	assert.Equal(t, session.StatePrice, f.sessions.State(operatorID))
	assert.Equal(t, bus.MenuShop, f.sessions.Draft(operatorID).Name)
}

func TestRoute_PrivilegedMenuRejectedForUnprivileged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, label := range []string{bus.MenuAddItem, bus.MenuListItems, bus.MenuDelete} {
		f.router.Route(ctx, textFrom(buyer, label))
	}

	require.Len(t, f.tr.texts, 3)
	for _, sent := range f.tr.texts {
		assert.Contains(t, sent.text, "administrator rights")
	}
	assert.Equal(t, session.StateNone, f.sessions.State(buyerID))
}

func TestRoute_MenuShopForAnyone(t *testing.T) {
	f := newFixture(t, catalog.Item{Name: "A", Price: "1", Description: "d"})

	f.router.Route(context.Background(), textFrom(buyer, bus.MenuShop))

	require.Len(t, f.tr.texts, 1)
	assert.Contains(t, f.tr.texts[0].text, "A")
	assert.Equal(t, "buy_0", f.tr.texts[0].opts.OrderData)
}

func TestRoute_BuyCallback(t *testing.T) {
	f := newFixture(t, catalog.Item{Name: "Boost Pack", Price: "49.99", Description: "d"})

	f.router.Route(context.Background(), bus.Event{
		Sender:   buyer,
		ChatID:   buyerID,
		Callback: &bus.Callback{ID: "cb-1", Data: "buy_0"},
	})

	require.Len(t, f.tr.answers, 1)
	assert.Contains(t, f.tr.answers[0], "Order sent")

	var broadcast, confirmation bool
	for _, sent := range f.tr.texts {
		if sent.chatID == groupID && strings.Contains(sent.text, "New order") {
			broadcast = true
		}
		if sent.chatID == buyerID && strings.Contains(sent.text, "Order placed") {
			confirmation = true
		}
	}
	assert.True(t, broadcast, "operator broadcast missing")
	assert.True(t, confirmation, "buyer confirmation missing")
}

func TestRoute_BuyCallbackOutOfRange(t *testing.T) {
	f := newFixture(t)

	f.router.Route(context.Background(), bus.Event{
		Sender:   buyer,
		ChatID:   buyerID,
		Callback: &bus.Callback{ID: "cb-1", Data: "buy_5"},
	})

	require.Len(t, f.tr.answers, 1)
	assert.Contains(t, f.tr.answers[0], "not found")
	assert.Empty(t, f.tr.texts)
}

func TestRoute_UnroutableEventDropped(t *testing.T) {
	f := newFixture(t)

	f.router.Route(context.Background(), textFrom(buyer, "hello there"))
	f.router.Route(context.Background(), bus.Event{
		Sender:   buyer,
		ChatID:   buyerID,
		Callback: &bus.Callback{ID: "cb-1", Data: "unknown_tag"},
	})

	assert.Empty(t, f.tr.texts)
	assert.Empty(t, f.tr.answers)
}

func TestRoute_FullDialogueThroughRouter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.router.Route(ctx, textFrom(operator, bus.MenuAddItem))
	f.router.Route(ctx, textFrom(operator, "Boost Pack"))
	f.router.Route(ctx, textFrom(operator, "49.99"))
	f.router.Route(ctx, textFrom(operator, "Speed boost"))
	f.router.Route(ctx, textFrom(operator, bus.MenuSkipPhoto))

	assert.Equal(t, session.StateNone, f.sessions.State(operatorID))
	items := f.store.List()
	require.Len(t, items, 1)
	assert.Equal(t, catalog.Item{Name: "Boost Pack", Price: "49.99", Description: "Speed boost"}, items[0])
}

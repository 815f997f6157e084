package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
)

type recordingForwarder struct {
	mu      sync.Mutex
	events  []domain.Event
	relayed []domain.Event
}

func (f *recordingForwarder) Publish(_ context.Context, ev domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *recordingForwarder) Relay(_ context.Context, ev domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	f.relayed = append(f.relayed, ev)
}

func (f *recordingForwarder) relayedTypes() []domain.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.EventType, len(f.relayed))
	for i, ev := range f.relayed {
		out[i] = ev.Type
	}
	return out
}

func (f *recordingForwarder) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func newTestHub(t *testing.T) (*Hub, *recordingForwarder, string) {
	t.Helper()
	hub := NewHub()
	fwd := &recordingForwarder{}
	hub.SetForwarder(fwd)
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(r.Context(), conn, "test@cafesync.com")
	}))
	t.Cleanup(srv.Close)
	return hub, fwd, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (h *Hub) roomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func joinRoom(t *testing.T, h *Hub, conn *websocket.Conn, room string, want int) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(domain.Event{Type: domain.EventJoinStation, Station: room}))
	require.Eventually(t, func() bool { return h.roomSize(room) == want }, time.Second, 5*time.Millisecond)
}

func next(t *testing.T, conn *websocket.Conn) domain.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev domain.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestOrderUpdatesFollowStationRooms(t *testing.T) {
	hub, fwd, url := newTestHub(t)
	kitchen := dial(t, url)
	counter := dial(t, url)
	manager := dial(t, url)
	joinRoom(t, hub, kitchen, domain.StationKitchen, 1)
	joinRoom(t, hub, counter, domain.StationFrontCounter, 1)
	joinRoom(t, hub, manager, domain.StationManagement, 1)

	ctx := context.Background()
	hub.Publish(ctx, domain.OrderUpdate(domain.Order{ID: "o-1", Station: domain.StationKitchen}))
	hub.Publish(ctx, domain.OrderUpdate(domain.Order{ID: "o-2", Station: domain.StationFrontCounter}))
	hub.Publish(ctx, domain.InventoryUpdate(domain.InventoryItem{ID: "milk"}))

	ev := next(t, kitchen)
	assert.Equal(t, "o-1", ev.Order.ID)
	ev = next(t, kitchen)
	assert.Equal(t, "o-2", ev.Order.ID)
	assert.Equal(t, domain.EventInventoryUpdate, next(t, kitchen).Type)

	ev = next(t, counter)
	assert.Equal(t, "o-2", ev.Order.ID)
	assert.Equal(t, domain.EventInventoryUpdate, next(t, counter).Type)

	// management sees neither order
	assert.Equal(t, domain.EventInventoryUpdate, next(t, manager).Type)

	assert.Equal(t, 3, fwd.len())
}

func TestClientEventsSkipSender(t *testing.T) {
	hub, fwd, url := newTestHub(t)
	a := dial(t, url)
	b := dial(t, url)
	joinRoom(t, hub, a, domain.StationKitchen, 1)
	joinRoom(t, hub, b, domain.StationKitchen, 2)

	require.NoError(t, a.WriteJSON(domain.OrderUpdate(domain.Order{ID: "o-9", Station: domain.StationKitchen})))
	ev := next(t, b)
	assert.Equal(t, domain.EventOrderUpdate, ev.Type)
	assert.Equal(t, "o-9", ev.Order.ID)

	// a only gets the follow-up broadcast, never its own frame
	hub.Publish(context.Background(), domain.InventoryUpdate(domain.InventoryItem{ID: "beans"}))
	assert.Equal(t, domain.EventInventoryUpdate, next(t, a).Type)
	require.Eventually(t, func() bool { return fwd.len() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.EventType{domain.EventOrderUpdate}, fwd.relayedTypes())
}

func TestClientsCannotSendNotifications(t *testing.T) {
	hub, fwd, url := newTestHub(t)
	a := dial(t, url)
	b := dial(t, url)
	joinRoom(t, hub, b, domain.StationKitchen, 1)

	require.NoError(t, a.WriteJSON(domain.NotificationEvent(domain.Notification{ID: "n-1", Title: "Forged"})))
	ev := next(t, a)
	assert.Equal(t, domain.EventError, ev.Type)
	assert.Contains(t, ev.Error, "cannot be sent by clients")

	// b's next frame is the server broadcast, not the forged toast
	hub.Publish(context.Background(), domain.InventoryUpdate(domain.InventoryItem{ID: "lids"}))
	assert.Equal(t, domain.EventInventoryUpdate, next(t, b).Type)
	assert.Equal(t, 1, fwd.len())
	assert.Empty(t, fwd.relayedTypes())
}

func TestInvalidFramesGetErrorReply(t *testing.T) {
	hub, fwd, url := newTestHub(t)
	a := dial(t, url)
	b := dial(t, url)
	joinRoom(t, hub, b, domain.StationKitchen, 1)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"type":"order-update","order":{"id":"x"}}`)))
	ev := next(t, a)
	assert.Equal(t, domain.EventError, ev.Type)
	assert.Contains(t, ev.Error, "order.station")

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	assert.Equal(t, domain.EventError, next(t, a).Type)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, domain.EventError, next(t, a).Type)

	hub.Publish(context.Background(), domain.InventoryUpdate(domain.InventoryItem{ID: "cups"}))
	assert.Equal(t, domain.EventInventoryUpdate, next(t, b).Type)
	assert.Equal(t, 1, fwd.len())
}

func TestLeaveAndDisconnect(t *testing.T) {
	hub, _, url := newTestHub(t)
	a := dial(t, url)
	joinRoom(t, hub, a, domain.StationKitchen, 1)

	require.NoError(t, a.WriteJSON(domain.Event{Type: domain.EventLeaveStation, Station: domain.StationKitchen}))
	require.Eventually(t, func() bool { return hub.roomSize(domain.StationKitchen) == 0 }, time.Second, 5*time.Millisecond)

	require.Equal(t, 1, hub.Clients())
	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	slow := &Client{id: "slow", hub: hub, send: make(chan []byte, 1)}
	hub.register(slow)
	hub.join(slow, domain.StationKitchen)

	hub.deliver(domain.InventoryUpdate(domain.InventoryItem{ID: "a"}), nil)
	assert.Equal(t, 1, hub.Clients())

	hub.deliver(domain.InventoryUpdate(domain.InventoryItem{ID: "b"}), nil)
	assert.Equal(t, 0, hub.Clients())
	assert.Equal(t, 0, hub.roomSize(domain.StationKitchen))

	// the queued frame is still readable, then the queue reports closed
	_, ok := <-slow.send
	assert.True(t, ok)
	_, ok = <-slow.send
	assert.False(t, ok)
}

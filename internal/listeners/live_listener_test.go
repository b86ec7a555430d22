package listeners

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claim-system/internal/events"
	"claim-system/pkg/eventbus"
	"claim-system/pkg/websocket"
)

func TestLiveListener_ForwardsEvents(t *testing.T) {
	hub := websocket.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := gorilla.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := websocket.NewClient(hub, conn)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer server.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	bus := eventbus.New(zap.NewNop())
	NewLiveListener(hub, zap.NewNop()).Register(bus)

	// пустая загрузка не рассылается
	bus.Publish(context.Background(), events.OrdersImportedEvent{BatchID: "empty"})
	bus.Wait()
	bus.Publish(context.Background(), events.OrderFieldChangedEvent{OrderID: 5, OrderNumber: "ORD5", Action: "progress updated", Value: "80%"})
	bus.Wait()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got websocket.Envelope
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, websocket.MessageOrderUpdated, got.Type)
	payload, ok := got.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ORD5", payload["orderNumber"])
}

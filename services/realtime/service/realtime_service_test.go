package service

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cotizador-platform/lib/models"
	"cotizador-platform/lib/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/spf13/viper"
)

func newTestService() *RealtimeService {
	// The Kafka reader stays nil: these tests drive Broadcast directly.
	return &RealtimeService{shutdown: make(chan struct{})}
}

func dialTestServer(t *testing.T, svc *RealtimeService) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", svc.HandlePriceWebSocket)
	server := httptest.NewServer(r)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func authenticate(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	viper.Set("JWT_SECRET", "test-secret")
	authToken, err := token.GenerateToken("user-1", "Tester")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	if err := conn.WriteJSON(map[string]string{"token": authToken}); err != nil {
		t.Fatalf("sending auth message: %v", err)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading message: %v", err)
	}
	return msg
}

func TestWebSocketSubscribeAndBroadcast(t *testing.T) {
	svc := newTestService()
	conn, cleanup := dialTestServer(t, svc)
	defer cleanup()

	authenticate(t, conn)

	if err := conn.WriteJSON(models.SubscriptionMessage{Action: "subscribe", RouteID: "106"}); err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	confirmation := readMessage(t, conn)
	if confirmation["type"] != "subscription_confirmed" || confirmation["route_id"] != "106" {
		t.Fatalf("unexpected confirmation %v", confirmation)
	}

	// An update for another route must not reach this connection.
	svc.Broadcast(models.PriceUpdate{RouteID: "999", Price: 1, Timestamp: time.Now()})
	svc.Broadcast(models.PriceUpdate{
		RouteID:       "106",
		Origin:        "11001000",
		Destination:   "05001000",
		Configuration: "3S3",
		Price:         2803544.96,
		Timestamp:     time.Now(),
		Source:        "sicetac",
	})

	update := readMessage(t, conn)
	if update["type"] != "price_update" {
		t.Fatalf("expected price_update, got %v", update)
	}
	if update["route_id"] != "106" {
		t.Errorf("update for wrong route delivered: %v", update)
	}
	if price, ok := update["price"].(float64); !ok || price != 2803544.96 {
		t.Errorf("price = %v", update["price"])
	}
}

func TestWebSocketUnsubscribeStopsDelivery(t *testing.T) {
	svc := newTestService()
	conn, cleanup := dialTestServer(t, svc)
	defer cleanup()

	authenticate(t, conn)

	conn.WriteJSON(models.SubscriptionMessage{Action: "subscribe", RouteID: "106"})
	readMessage(t, conn)
	conn.WriteJSON(models.SubscriptionMessage{Action: "unsubscribe", RouteID: "106"})
	msg := readMessage(t, conn)
	if msg["type"] != "unsubscription_confirmed" {
		t.Fatalf("expected unsubscription confirmation, got %v", msg)
	}

	svc.Broadcast(models.PriceUpdate{RouteID: "106", Price: 1, Timestamp: time.Now()})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var unexpected map[string]interface{}
	if err := conn.ReadJSON(&unexpected); err == nil {
		t.Fatalf("received update after unsubscribing: %v", unexpected)
	}
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	svc := newTestService()
	conn, cleanup := dialTestServer(t, svc)
	defer cleanup()

	if err := conn.WriteJSON(map[string]string{"token": "not-a-token"}); err != nil {
		t.Fatalf("sending auth message: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the server to close an unauthenticated connection")
	}
}

package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"cotizador-platform/lib/models"
	"cotizador-platform/lib/token"
	"cotizador-platform/lib/utils"
	"cotizador-platform/services/realtime/interfaces"

	kafkaConfig "cotizador-platform/lib/kafka"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// subscriber is one authenticated websocket connection and the routes it
// watches. The mutex guards both the route set and writes to the socket.
type subscriber struct {
	conn   *websocket.Conn
	userID string

	mu     sync.Mutex
	routes map[string]bool
}

func (s *subscriber) send(payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(payload)
}

func (s *subscriber) setRoute(routeID string, subscribed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subscribed {
		s.routes[routeID] = true
	} else {
		delete(s.routes, routeID)
	}
}

func (s *subscriber) watches(routeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes[routeID]
}

type RealtimeService struct {
	subscribers sync.Map
	priceReader *kafka.Reader
	shutdown    chan struct{}
	wg          sync.WaitGroup
}

func NewRealtimeService() interfaces.RealtimeInterface {
	return &RealtimeService{
		priceReader: kafkaConfig.InitKafkaReader("price_updates", "realtime_service_group"),
		shutdown:    make(chan struct{}),
	}
}

func (s *RealtimeService) HandlePriceWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	// Expect an initial message with the authentication token
	var authMessage struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&authMessage); err != nil {
		log.Printf("Failed to read auth message: %v", err)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Authentication required"))
		return
	}

	user, err := token.GetUserFromToken(authMessage.Token)
	if err != nil || user.UserID == "" {
		log.Printf("Invalid token: %v", err)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Invalid authentication token"))
		return
	}

	sub := &subscriber{conn: conn, userID: user.UserID, routes: make(map[string]bool)}
	s.subscribers.Store(sub, true)
	defer s.subscribers.Delete(sub)

	for {
		var msg models.SubscriptionMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("Error reading subscription message: %v", err)
			break
		}

		switch msg.Action {
		case "subscribe":
			sub.setRoute(msg.RouteID, true)
			s.confirm(sub, "subscription_confirmed", msg.RouteID)
		case "unsubscribe":
			sub.setRoute(msg.RouteID, false)
			s.confirm(sub, "unsubscription_confirmed", msg.RouteID)
		default:
			log.Printf("Unknown subscription action %q from user %s", msg.Action, user.UserID)
		}
	}
}

func (s *RealtimeService) confirm(sub *subscriber, kind, routeID string) {
	err := sub.send(gin.H{
		"type":      kind,
		"route_id":  routeID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Error confirming %s for user %s: %v", kind, sub.userID, err)
	}
}

func (s *RealtimeService) ConsumePriceUpdates() {
	s.wg.Add(1)
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			log.Println("Stopping price update consumer")
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			msg, err := s.priceReader.FetchMessage(ctx)
			cancel()

			if err != nil {
				if err == context.DeadlineExceeded {
					continue
				}
				log.Printf("Error fetching price update: %v", err)
				time.Sleep(time.Second)
				continue
			}

			var update models.PriceUpdate
			if err := json.Unmarshal(msg.Value, &update); err != nil {
				log.Printf("Error unmarshaling price update: %v", err)
			} else {
				s.Broadcast(update)
			}

			if err := s.priceReader.CommitMessages(context.Background(), msg); err != nil {
				log.Printf("Error committing message: %v", err)
			}
		}
	}
}

// Broadcast fans a price update out to every connection subscribed to its
// route.
func (s *RealtimeService) Broadcast(update models.PriceUpdate) {
	payload := gin.H{
		"type":          "price_update",
		"route_id":      update.RouteID,
		"origin":        update.Origin,
		"destination":   update.Destination,
		"configuration": update.Configuration,
		"price":         update.Price,
		"timestamp":     update.Timestamp.UTC().Format(time.RFC3339),
		"source":        update.Source,
	}

	s.subscribers.Range(func(key, _ interface{}) bool {
		sub := key.(*subscriber)
		if !sub.watches(update.RouteID) {
			return true
		}
		if err := sub.send(payload); err != nil {
			log.Printf("Error sending price update to user %s: %v", sub.userID, err)
		}
		return true
	})
}

func (s *RealtimeService) GracefulShutdown(server *http.Server) {
	utils.WaitForShutdown(server, s.priceReader)
	close(s.shutdown)
	s.wg.Wait()
}

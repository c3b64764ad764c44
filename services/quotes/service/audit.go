package service

import (
	"context"
	"log"
	"time"
)

// ExchangeAudit is one record per upstream SICETAC exchange, kept for
// operational review of gateway behaviour.
type ExchangeAudit struct {
	Period        string        `bson:"period"`
	Configuration string        `bson:"configuration"`
	Origin        string        `bson:"origin"`
	Destination   string        `bson:"destination"`
	UserID        string        `bson:"user_id,omitempty"`
	Outcome       string        `bson:"outcome"`
	ErrorDetail   string        `bson:"error_detail,omitempty"`
	QuoteCount    int           `bson:"quote_count"`
	Duration      time.Duration `bson:"duration_ns"`
	Timestamp     time.Time     `bson:"timestamp"`
}

func (s *QuotesService) recordExchange(audit ExchangeAudit) {
	if s.mongoClient == nil {
		return
	}
	audit.Timestamp = time.Now().UTC()
	collection := s.mongoClient.Database("cotizador").Collection("sicetac_exchanges")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := collection.InsertOne(ctx, audit); err != nil {
		log.Printf("Error recording exchange audit: %v", err)
	}
}

package models

import "time"

// PriceUpdate is published on the price_updates topic after every successful
// SICETAC fetch and fanned out to websocket subscribers by route.
type PriceUpdate struct {
	RouteID          string    `json:"route_id"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	Configuration    string    `json:"configuration"`
	Price            float64   `json:"price"`
	PreviousPrice    *float64  `json:"previous_price,omitempty"`
	ChangePercentage *float64  `json:"change_percentage,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	Source           string    `json:"source"`
}

// SubscriptionMessage is what a websocket client sends to manage its route
// subscriptions after authenticating.
type SubscriptionMessage struct {
	Action  string `json:"action"`
	RouteID string `json:"route_id"`
}

package models

import "time"

// BidMessage is one entry of the append-only thread scoped to a bid
// request. Messages are never edited in place; insertion order is the
// ordering.
type BidMessage struct {
	Id           string    `json:"id"`
	BidRequestId string    `json:"bidRequestId"`
	SenderId     string    `json:"senderId"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
}

package models

import "time"

// BidTransition is one audit record of a status change. The log is
// append-only and removed only when its bid request is hard-deleted.
type BidTransition struct {
	Id           string           `json:"id"`
	BidRequestId string           `json:"bidRequestId"`
	From         BidRequestStatus `json:"from"`
	To           BidRequestStatus `json:"to"`
	ActorId      string           `json:"actorId"`
	Note         string           `json:"note,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

package models

import "time"

// ResponseAttachment records a file stored in the attachment gateway
// for a bid request's response. Only the reference is kept here; the
// bytes live in the gateway.
type ResponseAttachment struct {
	Id           string    `json:"id"`
	BidRequestId string    `json:"bidRequestId"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	Reference    string    `json:"reference"`
	CreatedAt    time.Time `json:"createdAt"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidResponse is the specialist's counter-proposal, owned 1:1 by a
// BidRequest. AdminMarkupPercent and AdminComment are set only by the
// lifecycle engine on acceptance, never by the specialist.
type BidResponse struct {
	Id                 string              `json:"id"`
	BidRequestId       string              `json:"bidRequestId"`
	CoverLetter        string              `json:"coverLetter"`
	ProposedPrice      decimal.Decimal     `json:"proposedPrice"`
	EstimatedDays      int                 `json:"estimatedDays"`
	AdminMarkupPercent decimal.NullDecimal `json:"adminMarkupPercent"`
	AdminComment       string              `json:"adminComment,omitempty"`
	RejectionReason    string              `json:"rejectionReason,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"-"`
}

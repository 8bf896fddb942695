package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BidRequestStatus string

const (
	BidPending   BidRequestStatus = "Pending"
	BidResponded BidRequestStatus = "Responded"
	BidAccepted  BidRequestStatus = "Accepted"
	BidRejected  BidRequestStatus = "Rejected"
	BidWithdrawn BidRequestStatus = "Withdrawn"
)

func ValidBidRequestStatus(s BidRequestStatus) bool {
	switch s {
	case BidPending, BidResponded, BidAccepted, BidRejected, BidWithdrawn:
		return true
	default:
		return false
	}
}

// CanTransition is the single source of truth for legal status moves.
// Every mutating operation consults it; legality checks are never
// duplicated at call sites.
func (s BidRequestStatus) CanTransition(to BidRequestStatus) bool {
	switch s {
	case BidPending:
		return to == BidResponded || to == BidWithdrawn
	case BidResponded:
		return to == BidAccepted || to == BidRejected || to == BidWithdrawn
	case BidAccepted:
		return to == BidRejected
	case BidRejected:
		return to == BidAccepted
	default:
		// Withdrawn accepts no further transitions.
		return false
	}
}

// BidRequest is one invitation for a specialist to bid on a project.
type BidRequest struct {
	Id             string           `json:"id"`
	ProjectId      string           `json:"projectId"`
	SpecialistId   string           `json:"specialistId"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	ProposedBudget decimal.Decimal  `json:"proposedBudget"`
	Deadline       time.Time        `json:"deadline"`
	Status         BidRequestStatus `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"-"`
}

package controller

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// New bid request

type NewBidRequestReq struct {
	ProjectId      string          `json:"projectId"`
	SpecialistId   string          `json:"specialistId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ProposedBudget decimal.Decimal `json:"proposedBudget"`
	Deadline       time.Time       `json:"deadline"`
}

func ParseNewBidRequestReq(data []byte) (*NewBidRequestReq, error) {
	t := &NewBidRequestReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.ProjectId) == 0 {
		return nil, fmt.Errorf("empty projectId supplied")
	}
	if len(t.SpecialistId) == 0 {
		return nil, fmt.Errorf("empty specialistId supplied")
	}
	if err = checkLengthLimit(t.Title, "Title", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Description, "Description", 500); err != nil {
		return nil, err
	}
	if t.ProposedBudget.IsNegative() {
		return nil, fmt.Errorf("proposedBudget must not be negative")
	}

	return t, nil
}

// Bid response request (submit and edit share the shape)

type BidResponseReq struct {
	SpecialistId  string          `json:"specialistId"`
	CoverLetter   string          `json:"coverLetter"`
	ProposedPrice decimal.Decimal `json:"proposedPrice"`
	EstimatedDays int             `json:"estimatedDays"`
}

func ParseBidResponseReq(data []byte) (*BidResponseReq, error) {
	t := &BidResponseReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.SpecialistId) == 0 {
		return nil, fmt.Errorf("empty specialistId supplied")
	}
	if err = checkLengthLimit(t.CoverLetter, "CoverLetter", 2000); err != nil {
		return nil, err
	}
	if !t.ProposedPrice.IsPositive() {
		return nil, fmt.Errorf("proposedPrice must be positive")
	}
	if t.EstimatedDays <= 0 {
		return nil, fmt.Errorf("estimatedDays must be positive")
	}

	return t, nil
}

// Accept decision request

type AcceptReq struct {
	MarkupPercent decimal.NullDecimal `json:"markupPercent"`
	Comment       string              `json:"comment"`
}

func ParseAcceptReq(data []byte) (*AcceptReq, error) {
	t := &AcceptReq{}

	if len(data) == 0 {
		return t, nil
	}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if t.MarkupPercent.Valid && t.MarkupPercent.Decimal.IsNegative() {
		return nil, fmt.Errorf("markupPercent must not be negative")
	}
	if err = checkLengthLimit(t.Comment, "Comment", 500); err != nil {
		return nil, err
	}

	return t, nil
}

// Reject decision request

type RejectReq struct {
	Reason string `json:"reason"`
}

func ParseRejectReq(data []byte) (*RejectReq, error) {
	t := &RejectReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(t.Reason, "Reason", 500); err != nil {
		return nil, err
	}

	return t, nil
}

// New message request

type NewMessageReq struct {
	SenderId string `json:"senderId"`
	Body     string `json:"body"`
}

func ParseNewMessageReq(data []byte) (*NewMessageReq, error) {
	t := &NewMessageReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.SenderId) == 0 {
		return nil, fmt.Errorf("empty senderId supplied")
	}
	if err = checkLengthLimit(t.Body, "Body", 2000); err != nil {
		return nil, err
	}

	return t, nil
}

// Service

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("field '%s' exceeds length limit: %d / %d", fieldName, len(str), limit)
	}
	return nil
}

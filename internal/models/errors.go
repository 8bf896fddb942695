package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoProject         = errors.New("requested project does not exist")
	ErrNoSpecialist      = errors.New("requested specialist does not exist")
	ErrNoBidRequest      = errors.New("requested bid request does not exist")
	ErrNoResponse        = errors.New("requested bid request has no response")
	ErrNoMessage         = errors.New("requested message does not exist")
	ErrNotInvitee        = errors.New("caller is not the specialist invited to bid")
	ErrDuplicateResponse = errors.New("bid request already has a response")
	ErrInvalidState      = errors.New("operation is not legal in the current bid status")
	ErrStaleStatus       = errors.New("bid status changed since it was read, refetch and retry")
	ErrEmptyReason       = errors.New("rejection reason must not be empty")
	ErrEmptyMessage      = errors.New("message body must not be empty")
)

// StateError names the current and requested statuses so a client can
// see exactly why a transition was refused. errors.Is matches it
// against ErrInvalidState.
type StateError struct {
	Current   BidRequestStatus
	Requested BidRequestStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot move bid from %s to %s", e.Current, e.Requested)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

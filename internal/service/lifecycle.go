package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
	"github.com/digitaleng1/digitalbuild-sub001/internal/notify"
)

// Outcome is the result of a status transition: the request as it
// stands after the write, plus the names of any best-effort side
// effects (assignment, notifications) that failed.
type Outcome struct {
	Request  models.BidRequest `json:"request"`
	Degraded []string          `json:"degraded,omitempty"`
}

func (s *Service) CreateBidRequest(ctx context.Context, request models.BidRequest) (models.BidRequest, error) {
	// check if project exists
	_, ok, err := s.store.ProjectByUUID(ctx, request.ProjectId)
	if err != nil {
		return models.BidRequest{}, fmt.Errorf("service.Service.CreateBidRequest: %w", err)
	}
	if !ok {
		return models.BidRequest{}, fmt.Errorf("service.Service.CreateBidRequest: %w", models.ErrNoProject)
	}

	// check if specialist exists
	_, ok, err = s.store.SpecialistByUUID(ctx, request.SpecialistId)
	if err != nil {
		return models.BidRequest{}, fmt.Errorf("service.Service.CreateBidRequest: %w", err)
	}
	if !ok {
		return models.BidRequest{}, fmt.Errorf("service.Service.CreateBidRequest: %w", models.ErrNoSpecialist)
	}

	request.Status = models.BidPending
	request, err = s.store.AddBidRequest(ctx, request)
	if err != nil {
		return models.BidRequest{}, fmt.Errorf("service.Service.CreateBidRequest: %w", err)
	}

	err = s.notifier.Notify(ctx, request.SpecialistId, notify.EventBidInvited, map[string]string{
		"bidRequestId": request.Id,
		"projectId":    request.ProjectId,
		"title":        request.Title,
	})
	if err != nil {
		s.log.WithError(err).WithField("bid", request.Id).Warn("invitation notification failed")
	}

	return request, nil
}

func (s *Service) SubmitResponse(ctx context.Context, bidRequestId, specialistId string, response models.BidResponse) (models.BidResponse, error) {
	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return models.BidResponse{}, fmt.Errorf("service.Service.SubmitResponse: %w", err)
	}

	// only the invited specialist may respond
	if request.SpecialistId != specialistId {
		return models.BidResponse{}, fmt.Errorf("service.Service.SubmitResponse: %w", models.ErrNotInvitee)
	}

	if request.Status != models.BidPending {
		return models.BidResponse{}, fmt.Errorf("service.Service.SubmitResponse: %w",
			&models.StateError{Current: request.Status, Requested: models.BidResponded})
	}

	// the unique index on bid_request_id makes the first write win
	response.BidRequestId = request.Id
	response, err = s.store.AddResponse(ctx, response)
	if err != nil {
		return models.BidResponse{}, fmt.Errorf("service.Service.SubmitResponse: %w", err)
	}

	err = s.store.TransitionBidRequest(ctx, request.Id, models.BidPending, models.BidResponded, specialistId, "")
	if err != nil {
		return models.BidResponse{}, fmt.Errorf("service.Service.SubmitResponse: %w", err)
	}

	project, ok, err := s.store.ProjectByUUID(ctx, request.ProjectId)
	if err != nil || !ok {
		s.log.WithField("bid", request.Id).Warn("could not resolve project client for response notification")
		return response, nil
	}
	err = s.notifier.Notify(ctx, project.ClientId, notify.EventBidResponded, map[string]string{
		"bidRequestId": request.Id,
		"specialistId": specialistId,
	})
	if err != nil {
		s.log.WithError(err).WithField("bid", request.Id).Warn("response notification failed")
	}

	return response, nil
}

// EditResponse lets the invited specialist revise price, duration and
// cover letter while the bid is still under review.
func (s *Service) EditResponse(ctx context.Context, bidRequestId, specialistId string, response models.BidResponse) (models.BidResponse, error) {
	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return models.BidResponse{}, fmt.Errorf("service.Service.EditResponse: %w", err)
	}

	if request.SpecialistId != specialistId {
		return models.BidResponse{}, fmt.Errorf("service.Service.EditResponse: %w", models.ErrNotInvitee)
	}

	if request.Status != models.BidResponded {
		return models.BidResponse{}, fmt.Errorf("service.Service.EditResponse: revision allowed only while status is %s, current is %s: %w",
			models.BidResponded, request.Status, models.ErrInvalidState)
	}

	response.BidRequestId = request.Id
	err = s.store.UpdateResponseProposal(ctx, response)
	if err != nil {
		return models.BidResponse{}, fmt.Errorf("service.Service.EditResponse: %w", err)
	}

	response, err = s.store.GetResponseByRequest(ctx, request.Id)
	if err != nil {
		return models.BidResponse{}, fmt.Errorf("service.Service.EditResponse: %w", err)
	}

	return response, nil
}

func (s *Service) Accept(ctx context.Context, bidRequestId, approverId string, markupPercent decimal.NullDecimal, comment string) (Outcome, error) {
	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Accept: %w", err)
	}

	// re-accepting an accepted bid is a no-op success
	if request.Status == models.BidAccepted {
		return Outcome{Request: request}, nil
	}

	if !request.Status.CanTransition(models.BidAccepted) {
		return Outcome{}, fmt.Errorf("service.Service.Accept: %w",
			&models.StateError{Current: request.Status, Requested: models.BidAccepted})
	}

	response, err := s.store.GetResponseByRequest(ctx, request.Id)
	if errors.Is(err, sql.ErrNoRows) {
		return Outcome{}, fmt.Errorf("service.Service.Accept: %w", models.ErrNoResponse)
	} else if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Accept: %w", err)
	}

	err = s.store.TransitionBidRequest(ctx, request.Id, request.Status, models.BidAccepted, approverId, comment)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Accept: %w", err)
	}

	// acceptance owns the decision fields; re-approval clears the
	// previous rejection reason
	response.AdminMarkupPercent = markupPercent
	response.AdminComment = comment
	response.RejectionReason = ""
	err = s.store.SetResponseDecision(ctx, response)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Accept: %w", err)
	}

	request.Status = models.BidAccepted
	outcome := Outcome{Request: request}

	s.sideEffect(&outcome.Degraded, "assignment", func() error {
		return s.store.UpsertAssignment(ctx, models.Assignment{
			ProjectId:    request.ProjectId,
			SpecialistId: request.SpecialistId,
			Role:         models.RoleExecutor,
		})
	})

	s.sideEffect(&outcome.Degraded, "winner notification", func() error {
		return s.notifier.Notify(ctx, request.SpecialistId, notify.EventBidAccepted, map[string]string{
			"bidRequestId": request.Id,
			"projectId":    request.ProjectId,
		})
	})

	s.sideEffect(&outcome.Degraded, "loser notifications", func() error {
		return s.notifyLosers(ctx, request)
	})

	return outcome, nil
}

func (s *Service) Reject(ctx context.Context, bidRequestId, approverId, reason string) (Outcome, error) {
	if len(strings.TrimSpace(reason)) == 0 {
		return Outcome{}, fmt.Errorf("service.Service.Reject: %w", models.ErrEmptyReason)
	}

	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Reject: %w", err)
	}

	if !request.Status.CanTransition(models.BidRejected) {
		return Outcome{}, fmt.Errorf("service.Service.Reject: %w",
			&models.StateError{Current: request.Status, Requested: models.BidRejected})
	}

	from := request.Status
	err = s.store.TransitionBidRequest(ctx, request.Id, from, models.BidRejected, approverId, reason)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Reject: %w", err)
	}

	// rejection owns the decision fields: reason set, markup cleared
	response, err := s.store.GetResponseByRequest(ctx, request.Id)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Reject: %w", err)
	}
	response.RejectionReason = reason
	response.AdminMarkupPercent = decimal.NullDecimal{}
	err = s.store.SetResponseDecision(ctx, response)
	if err != nil {
		return Outcome{}, fmt.Errorf("service.Service.Reject: %w", err)
	}

	request.Status = models.BidRejected
	outcome := Outcome{Request: request}

	// cancelling an approval releases the specialist from the project
	if from == models.BidAccepted {
		s.sideEffect(&outcome.Degraded, "assignment deactivation", func() error {
			return s.store.DeactivateAssignment(ctx, request.ProjectId, request.SpecialistId, models.RoleExecutor)
		})
	}

	s.sideEffect(&outcome.Degraded, "rejection notification", func() error {
		return s.notifier.Notify(ctx, request.SpecialistId, notify.EventBidRejected, map[string]string{
			"bidRequestId": request.Id,
			"reason":       reason,
		})
	})

	return outcome, nil
}

func (s *Service) Withdraw(ctx context.Context, bidRequestId, specialistId string) (models.BidRequest, error) {
	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return models.BidRequest{}, fmt.Errorf("service.Service.Withdraw: %w", err)
	}

	if request.SpecialistId != specialistId {
		return models.BidRequest{}, fmt.Errorf("service.Service.Withdraw: %w", models.ErrNotInvitee)
	}

	if !request.Status.CanTransition(models.BidWithdrawn) {
		return models.BidRequest{}, fmt.Errorf("service.Service.Withdraw: %w",
			&models.StateError{Current: request.Status, Requested: models.BidWithdrawn})
	}

	err = s.store.TransitionBidRequest(ctx, request.Id, request.Status, models.BidWithdrawn, specialistId, "")
	if err != nil {
		return models.BidRequest{}, fmt.Errorf("service.Service.Withdraw: %w", err)
	}
	request.Status = models.BidWithdrawn

	project, ok, err := s.store.ProjectByUUID(ctx, request.ProjectId)
	if err != nil || !ok {
		s.log.WithField("bid", request.Id).Warn("could not resolve project client for withdrawal notification")
		return request, nil
	}
	err = s.notifier.Notify(ctx, project.ClientId, notify.EventBidWithdrawn, map[string]string{
		"bidRequestId": request.Id,
		"specialistId": specialistId,
	})
	if err != nil {
		s.log.WithError(err).WithField("bid", request.Id).Warn("withdrawal notification failed")
	}

	return request, nil
}

// DeleteBidRequest is the administrative hard delete. Not a state
// transition: it works at any status and cascades to the response,
// messages, transitions and attachments. Gateway bytes are removed
// best-effort after the rows are gone.
func (s *Service) DeleteBidRequest(ctx context.Context, bidRequestId string) error {
	_, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteBidRequest: %w", err)
	}

	attachments, err := s.store.GetAttachments(ctx, bidRequestId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteBidRequest: %w", err)
	}

	err = s.store.DeleteBidRequest(ctx, bidRequestId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteBidRequest: %w", err)
	}

	for _, attachment := range attachments {
		err = s.files.Delete(ctx, attachment.Reference)
		if err != nil {
			s.log.WithError(err).WithField("reference", attachment.Reference).Warn("attachment cleanup failed")
		}
	}

	return nil
}

//// Service

func (s *Service) notifyLosers(ctx context.Context, accepted models.BidRequest) error {
	requests, err := s.store.GetBidRequests(ctx, 0, 0, accepted.ProjectId, "")
	if err != nil {
		return err
	}

	var errs []error
	for _, request := range requests {
		if request.Id == accepted.Id || request.Status == models.BidWithdrawn {
			continue
		}
		err = s.notifier.Notify(ctx, request.SpecialistId, notify.EventBidLost, map[string]string{
			"bidRequestId": request.Id,
			"projectId":    request.ProjectId,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/digitaleng1/digitalbuild-sub001/internal/filestore"
	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
	"github.com/digitaleng1/digitalbuild-sub001/internal/notify"
	"github.com/digitaleng1/digitalbuild-sub001/internal/scoring"
)

// Store is the durable state the lifecycle engine runs against.
// Implemented by *repository.Repository; tests use an in-memory fake.
type Store interface {
	ProjectByUUID(ctx context.Context, UUID string) (models.Project, bool, error)
	SpecialistByUUID(ctx context.Context, UUID string) (models.Specialist, bool, error)

	AddBidRequest(ctx context.Context, request models.BidRequest) (models.BidRequest, error)
	GetBidRequests(ctx context.Context, limit, offset int, projectId, specialistId string) ([]models.BidRequest, error)
	GetBidRequestByUUID(ctx context.Context, UUID string) (models.BidRequest, error)
	TransitionBidRequest(ctx context.Context, UUID string, from, to models.BidRequestStatus, actorId, note string) error
	DeleteBidRequest(ctx context.Context, UUID string) error
	GetTransitions(ctx context.Context, bidRequestId string) ([]models.BidTransition, error)

	AddResponse(ctx context.Context, response models.BidResponse) (models.BidResponse, error)
	GetResponseByRequest(ctx context.Context, bidRequestId string) (models.BidResponse, error)
	UpdateResponseProposal(ctx context.Context, response models.BidResponse) error
	SetResponseDecision(ctx context.Context, response models.BidResponse) error
	GetComparisonCandidates(ctx context.Context, projectId string) ([]scoring.Candidate, error)

	AddMessage(ctx context.Context, message models.BidMessage) (models.BidMessage, error)
	GetMessages(ctx context.Context, bidRequestId string, limit, offset int) ([]models.BidMessage, error)
	DeleteMessage(ctx context.Context, UUID string) error

	UpsertAssignment(ctx context.Context, assignment models.Assignment) error
	DeactivateAssignment(ctx context.Context, projectId, specialistId string, role models.AssignmentRole) error
	GetAssignments(ctx context.Context, projectId string) ([]models.Assignment, error)

	AddAttachment(ctx context.Context, attachment models.ResponseAttachment) (models.ResponseAttachment, error)
	GetAttachments(ctx context.Context, bidRequestId string) ([]models.ResponseAttachment, error)
}

type Service struct {
	store    Store
	notifier notify.Notifier
	files    filestore.Store
	log      *logrus.Logger
}

func NewService(store Store, notifier notify.Notifier, files filestore.Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, notifier: notifier, files: files, log: log}
}

//// Reads

func (s *Service) GetBidRequest(ctx context.Context, bidRequestId string) (models.BidRequest, *models.BidResponse, error) {
	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return models.BidRequest{}, nil, fmt.Errorf("service.Service.GetBidRequest: %w", err)
	}

	response, err := s.store.GetResponseByRequest(ctx, bidRequestId)
	if errors.Is(err, sql.ErrNoRows) {
		return request, nil, nil
	} else if err != nil {
		return models.BidRequest{}, nil, fmt.Errorf("service.Service.GetBidRequest: %w", err)
	}

	return request, &response, nil
}

func (s *Service) ListBidRequests(ctx context.Context, limit, offset int, projectId, specialistId string) ([]models.BidRequest, error) {
	requests, err := s.store.GetBidRequests(ctx, limit, offset, projectId, specialistId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListBidRequests: %w", err)
	}
	return requests, nil
}

func (s *Service) ListTransitions(ctx context.Context, bidRequestId string) ([]models.BidTransition, error) {
	_, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListTransitions: %w", err)
	}

	transitions, err := s.store.GetTransitions(ctx, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListTransitions: %w", err)
	}
	return transitions, nil
}

//// Service

func (s *Service) requestByUUID(ctx context.Context, bidRequestId string) (models.BidRequest, error) {
	request, err := s.store.GetBidRequestByUUID(ctx, bidRequestId)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BidRequest{}, models.ErrNoBidRequest
	} else if err != nil {
		return models.BidRequest{}, err
	}
	return request, nil
}

// sideEffect runs one best-effort collaborator call. A failure never
// rolls back the transition that triggered it; it is logged and named
// in the outcome's degraded list instead.
func (s *Service) sideEffect(degraded *[]string, name string, fn func() error) {
	err := fn()
	if err == nil {
		return
	}
	s.log.WithError(err).WithField("side_effect", name).Warn("side effect degraded")
	*degraded = append(*degraded, name)
}

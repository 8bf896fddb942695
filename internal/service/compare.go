package service

import (
	"context"
	"fmt"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
	"github.com/digitaleng1/digitalbuild-sub001/internal/scoring"
)

// CompareProjectBids ranks every bid request of a project with the
// supplied weights. Read-only: nothing about the bids is persisted or
// mutated by a comparison.
func (s *Service) CompareProjectBids(ctx context.Context, projectId string, weights scoring.Weights) ([]scoring.Entry, error) {
	_, ok, err := s.store.ProjectByUUID(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.CompareProjectBids: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("service.Service.CompareProjectBids: %w", models.ErrNoProject)
	}

	candidates, err := s.store.GetComparisonCandidates(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.CompareProjectBids: %w", err)
	}

	entries, err := scoring.Rank(candidates, weights)
	if err != nil {
		return nil, fmt.Errorf("service.Service.CompareProjectBids: %w", err)
	}

	return entries, nil
}

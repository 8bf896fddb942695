package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
	"github.com/digitaleng1/digitalbuild-sub001/internal/scoring"
)

const pqUniqueViolation = "23505"

func (repo *Repository) AddResponse(ctx context.Context, response models.BidResponse) (models.BidResponse, error) {
	query := `
	INSERT INTO bid_responses (bid_request_id, cover_letter, proposed_price, estimated_days, created_at, updated_at)
	VALUES
		($1, $2, $3, $4, DEFAULT, DEFAULT)
	RETURNING
		id, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query,
		response.BidRequestId, response.CoverLetter, response.ProposedPrice, response.EstimatedDays)
	err := row.Scan(&response.Id, &response.CreatedAt, &response.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		// first write wins
		return response, fmt.Errorf("repository.Repository.AddResponse: %w", models.ErrDuplicateResponse)
	} else if err != nil {
		return response, fmt.Errorf("repository.Repository.AddResponse: scan failed: %w", err)
	}

	return response, nil
}

func (repo *Repository) GetResponseByRequest(ctx context.Context, bidRequestId string) (models.BidResponse, error) {
	var response models.BidResponse
	query := `
	SELECT
		id, bid_request_id, cover_letter, proposed_price, estimated_days, admin_markup_percent, admin_comment, rejection_reason, created_at, updated_at
	FROM bid_responses
	WHERE bid_request_id = $1
	LIMIT 1
	`

	row := repo.db.QueryRowContext(ctx, query, bidRequestId)
	err := row.Scan(&response.Id, &response.BidRequestId, &response.CoverLetter, &response.ProposedPrice,
		&response.EstimatedDays, &response.AdminMarkupPercent, &response.AdminComment, &response.RejectionReason,
		&response.CreatedAt, &response.UpdatedAt)
	if err != nil {
		return response, fmt.Errorf("repository.Repository.GetResponseByRequest: %w", err)
	}
	return response, nil
}

func (repo *Repository) UpdateResponseProposal(ctx context.Context, response models.BidResponse) error {
	query := `
	UPDATE bid_responses
	SET (cover_letter, proposed_price, estimated_days, updated_at) = ($1, $2, $3, CURRENT_TIMESTAMP)
	WHERE bid_request_id = $4
	`

	res, err := repo.db.ExecContext(ctx, query,
		response.CoverLetter, response.ProposedPrice, response.EstimatedDays, response.BidRequestId)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateResponseProposal: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.Repository.UpdateResponseProposal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repository.Repository.UpdateResponseProposal: %w", models.ErrNoResponse)
	}

	return nil
}

// SetResponseDecision writes the fields owned by the lifecycle engine.
// Acceptance sets markup and comment and clears the rejection reason;
// rejection sets the reason and clears the markup.
func (repo *Repository) SetResponseDecision(ctx context.Context, response models.BidResponse) error {
	query := `
	UPDATE bid_responses
	SET (admin_markup_percent, admin_comment, rejection_reason, updated_at) = ($1, $2, $3, CURRENT_TIMESTAMP)
	WHERE bid_request_id = $4
	`

	res, err := repo.db.ExecContext(ctx, query,
		response.AdminMarkupPercent, response.AdminComment, response.RejectionReason, response.BidRequestId)
	if err != nil {
		return fmt.Errorf("repository.Repository.SetResponseDecision: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.Repository.SetResponseDecision: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repository.Repository.SetResponseDecision: %w", models.ErrNoResponse)
	}

	return nil
}

// GetComparisonCandidates loads every bid request of a project joined
// with its response and the specialist's scoring inputs, in creation
// order. Requests without a response come back with zero price/days.
func (repo *Repository) GetComparisonCandidates(ctx context.Context, projectId string) ([]scoring.Candidate, error) {
	query := `
	SELECT
		r.id,
		r.specialist_id,
		r.status,
		COALESCE(resp.proposed_price, 0),
		COALESCE(resp.estimated_days, 0),
		s.experience_years,
		s.rating
	FROM bid_requests r
	JOIN specialists s ON s.id = r.specialist_id
	LEFT JOIN bid_responses resp ON resp.bid_request_id = r.id
	WHERE r.project_id = $1
	ORDER BY r.created_at, r.id
	`

	rows, err := repo.db.QueryContext(ctx, query, projectId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetComparisonCandidates: %w", err)
	}
	defer rows.Close()

	var result []scoring.Candidate
	var candidate scoring.Candidate
	for rows.Next() {
		err = rows.Scan(&candidate.BidRequestId, &candidate.SpecialistId, &candidate.Status,
			&candidate.ProposedPrice, &candidate.EstimatedDays, &candidate.ExperienceYears, &candidate.Rating)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetComparisonCandidates: rows scan error: %w", err)
		}
		result = append(result, candidate)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetComparisonCandidates: %w", rows.Err())
	}

	return result, nil
}

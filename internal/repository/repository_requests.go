package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

func (repo *Repository) AddBidRequest(ctx context.Context, request models.BidRequest) (models.BidRequest, error) {
	query := `
	INSERT INTO bid_requests (project_id, specialist_id, title, description, proposed_budget, deadline, status, created_at, updated_at)
	VALUES
		($1, $2, $3, $4, $5, $6, 'Pending', DEFAULT, DEFAULT)
	RETURNING
		id, status, created_at, updated_at
	`

	row := repo.db.QueryRowContext(ctx, query,
		request.ProjectId, request.SpecialistId, request.Title, request.Description, request.ProposedBudget, request.Deadline)
	err := row.Scan(&request.Id, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return request, fmt.Errorf("repository.Repository.AddBidRequest: scan failed: %w", err)
	}

	return request, nil
}

func (repo *Repository) prepRequestsQuery(limit, offset int, projectId, specialistId, UUID string) (query string, queryParams []interface{}) {
	query = `
	SELECT
		id, project_id, specialist_id, title, description, proposed_budget, deadline, status, created_at, updated_at
	FROM bid_requests
	$conditions$
	ORDER BY created_at
	LIMIT $1
	OFFSET $2
	`

	queryParams = make([]interface{}, 0, 5)
	conditions := make([]string, 0, 3)

	if limit <= 0 {
		queryParams = append(queryParams, nil)
	} else {
		queryParams = append(queryParams, limit)
	}
	queryParams = append(queryParams, offset)

	if len(projectId) > 0 {
		queryParams = append(queryParams, projectId)
		conditions = append(conditions, "project_id = $$")
	}
	if len(specialistId) > 0 {
		queryParams = append(queryParams, specialistId)
		conditions = append(conditions, "specialist_id = $$")
	}
	if len(UUID) > 0 {
		queryParams = append(queryParams, UUID)
		conditions = append(conditions, "id = $$")
	}

	condStr := ""
	if len(conditions) > 0 {
		for i := 0; i < len(conditions); i++ {
			conditions[i] = strings.Replace(conditions[i], "$$", "$"+strconv.Itoa(i+3), -1)
		}
		condStr = "WHERE " + strings.Join(conditions, " AND ")
	}
	query = strings.Replace(query, "$conditions$", condStr, -1)

	return query, queryParams
}

func (repo *Repository) GetBidRequests(ctx context.Context, limit, offset int, projectId, specialistId string) ([]models.BidRequest, error) {
	query, params := repo.prepRequestsQuery(limit, offset, projectId, specialistId, "")

	rows, err := repo.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetBidRequests: %w", err)
	}
	defer rows.Close()

	var result []models.BidRequest
	var request models.BidRequest
	for rows.Next() {
		err = rows.Scan(&request.Id, &request.ProjectId, &request.SpecialistId, &request.Title, &request.Description,
			&request.ProposedBudget, &request.Deadline, &request.Status, &request.CreatedAt, &request.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetBidRequests: rows scan error: %w", err)
		}
		result = append(result, request)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetBidRequests: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) GetBidRequestByUUID(ctx context.Context, UUID string) (models.BidRequest, error) {
	var request models.BidRequest
	query, params := repo.prepRequestsQuery(1, 0, "", "", UUID)
	row := repo.db.QueryRowContext(ctx, query, params...)
	err := row.Scan(&request.Id, &request.ProjectId, &request.SpecialistId, &request.Title, &request.Description,
		&request.ProposedBudget, &request.Deadline, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return request, fmt.Errorf("repository.Repository.GetBidRequestByUUID: %w", err)
	}
	return request, nil
}

// TransitionBidRequest moves a bid request between statuses with a
// compare-and-set on the status read by the caller, and records the
// audit row in the same transaction. When the stored status no longer
// matches `from`, nothing is written and models.ErrStaleStatus is
// returned so racing callers lose cleanly.
func (repo *Repository) TransitionBidRequest(ctx context.Context, UUID string, from, to models.BidRequestStatus, actorId, note string) error {
	query := `
	UPDATE bid_requests
	SET (status, updated_at) = ($1, CURRENT_TIMESTAMP)
	WHERE id = $2 AND status = $3
	`

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.Repository.TransitionBidRequest: failed to start transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, to, UUID, from)
	if err != nil {
		return fmt.Errorf("repository.Repository.TransitionBidRequest: %w", wrapRollbackErr(tx, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.Repository.TransitionBidRequest: %w", wrapRollbackErr(tx, err))
	}
	if n == 0 {
		return fmt.Errorf("repository.Repository.TransitionBidRequest: %w", wrapRollbackErr(tx, models.ErrStaleStatus))
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO bid_transitions (bid_request_id, prev_status, next_status, actor_id, note)
	VALUES
		($1, $2, $3, $4, $5)
	`, UUID, from, to, actorId, note)
	if err != nil {
		return fmt.Errorf("repository.Repository.TransitionBidRequest: %w", wrapRollbackErr(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("repository.Repository.TransitionBidRequest: failed to commit transaction: %w", err)
	}

	return nil
}

func (repo *Repository) DeleteBidRequest(ctx context.Context, UUID string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM bid_requests WHERE id = $1", UUID)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteBidRequest: %w", err)
	}
	return nil
}

//// Transitions

func (repo *Repository) GetTransitions(ctx context.Context, bidRequestId string) ([]models.BidTransition, error) {
	query := `
	SELECT
		id, bid_request_id, prev_status, next_status, actor_id, note, created_at
	FROM bid_transitions
	WHERE bid_request_id = $1
	ORDER BY created_at, id
	`

	rows, err := repo.db.QueryContext(ctx, query, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetTransitions: %w", err)
	}
	defer rows.Close()

	var result []models.BidTransition
	var transition models.BidTransition
	for rows.Next() {
		err = rows.Scan(&transition.Id, &transition.BidRequestId, &transition.From, &transition.To,
			&transition.ActorId, &transition.Note, &transition.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetTransitions: rows scan error: %w", err)
		}
		result = append(result, transition)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetTransitions: %w", rows.Err())
	}

	return result, nil
}

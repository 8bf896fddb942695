package repository

import (
	"context"
	"fmt"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

// UpsertAssignment creates or reactivates the project-specialist
// assignment. Re-accepting the same bid hits the conflict branch, so
// no duplicate pairing can appear.
func (repo *Repository) UpsertAssignment(ctx context.Context, assignment models.Assignment) error {
	query := `
	INSERT INTO project_specialists (project_id, specialist_id, role, active)
	VALUES
		($1, $2, $3, TRUE)
	ON CONFLICT (project_id, specialist_id, role)
		DO UPDATE SET active = TRUE, updated_at = CURRENT_TIMESTAMP
	`

	_, err := repo.db.ExecContext(ctx, query, assignment.ProjectId, assignment.SpecialistId, assignment.Role)
	if err != nil {
		return fmt.Errorf("repository.Repository.UpsertAssignment: %w", err)
	}
	return nil
}

func (repo *Repository) DeactivateAssignment(ctx context.Context, projectId, specialistId string, role models.AssignmentRole) error {
	query := `
	UPDATE project_specialists
	SET (active, updated_at) = (FALSE, CURRENT_TIMESTAMP)
	WHERE project_id = $1 AND specialist_id = $2 AND role = $3
	`

	_, err := repo.db.ExecContext(ctx, query, projectId, specialistId, role)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeactivateAssignment: %w", err)
	}
	return nil
}

func (repo *Repository) GetAssignments(ctx context.Context, projectId string) ([]models.Assignment, error) {
	query := `
	SELECT
		project_id, specialist_id, role, active, created_at, updated_at
	FROM project_specialists
	WHERE project_id = $1
	ORDER BY created_at
	`

	rows, err := repo.db.QueryContext(ctx, query, projectId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetAssignments: %w", err)
	}
	defer rows.Close()

	var result []models.Assignment
	var assignment models.Assignment
	for rows.Next() {
		err = rows.Scan(&assignment.ProjectId, &assignment.SpecialistId, &assignment.Role,
			&assignment.Active, &assignment.CreatedAt, &assignment.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetAssignments: rows scan error: %w", err)
		}
		result = append(result, assignment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetAssignments: %w", rows.Err())
	}

	return result, nil
}

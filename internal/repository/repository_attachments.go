package repository

import (
	"context"
	"fmt"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

func (repo *Repository) AddAttachment(ctx context.Context, attachment models.ResponseAttachment) (models.ResponseAttachment, error) {
	query := `
	INSERT INTO response_attachments (bid_request_id, file_name, content_type, reference, created_at)
	VALUES
		($1, $2, $3, $4, DEFAULT)
	RETURNING
		id, created_at
	`

	row := repo.db.QueryRowContext(ctx, query,
		attachment.BidRequestId, attachment.FileName, attachment.ContentType, attachment.Reference)
	err := row.Scan(&attachment.Id, &attachment.CreatedAt)
	if err != nil {
		return attachment, fmt.Errorf("repository.Repository.AddAttachment: scan failed: %w", err)
	}

	return attachment, nil
}

func (repo *Repository) GetAttachments(ctx context.Context, bidRequestId string) ([]models.ResponseAttachment, error) {
	query := `
	SELECT
		id, bid_request_id, file_name, content_type, reference, created_at
	FROM response_attachments
	WHERE bid_request_id = $1
	ORDER BY created_at, id
	`

	rows, err := repo.db.QueryContext(ctx, query, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetAttachments: %w", err)
	}
	defer rows.Close()

	var result []models.ResponseAttachment
	var attachment models.ResponseAttachment
	for rows.Next() {
		err = rows.Scan(&attachment.Id, &attachment.BidRequestId, &attachment.FileName,
			&attachment.ContentType, &attachment.Reference, &attachment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetAttachments: rows scan error: %w", err)
		}
		result = append(result, attachment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetAttachments: %w", rows.Err())
	}

	return result, nil
}

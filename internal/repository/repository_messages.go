package repository

import (
	"context"
	"fmt"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

func (repo *Repository) AddMessage(ctx context.Context, message models.BidMessage) (models.BidMessage, error) {
	query := `
	INSERT INTO bid_messages (bid_request_id, sender_id, body, created_at)
	VALUES
		($1, $2, $3, DEFAULT)
	RETURNING
		id, created_at
	`

	row := repo.db.QueryRowContext(ctx, query, message.BidRequestId, message.SenderId, message.Body)
	err := row.Scan(&message.Id, &message.CreatedAt)
	if err != nil {
		return message, fmt.Errorf("repository.Repository.AddMessage: scan failed: %w", err)
	}

	return message, nil
}

func (repo *Repository) GetMessages(ctx context.Context, bidRequestId string, limit, offset int) ([]models.BidMessage, error) {
	query := `
	SELECT
		id, bid_request_id, sender_id, body, created_at
	FROM bid_messages
	WHERE bid_request_id = $1
	ORDER BY created_at, id
	LIMIT $2
	OFFSET $3
	`

	var limitParam interface{}
	if limit > 0 {
		limitParam = limit
	}

	rows, err := repo.db.QueryContext(ctx, query, bidRequestId, limitParam, offset)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetMessages: %w", err)
	}
	defer rows.Close()

	var result []models.BidMessage
	var message models.BidMessage
	for rows.Next() {
		err = rows.Scan(&message.Id, &message.BidRequestId, &message.SenderId, &message.Body, &message.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Repository.GetMessages: rows scan error: %w", err)
		}
		result = append(result, message)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.Repository.GetMessages: %w", rows.Err())
	}

	return result, nil
}

func (repo *Repository) DeleteMessage(ctx context.Context, UUID string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM bid_messages WHERE id = $1", UUID)
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteMessage: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.Repository.DeleteMessage: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repository.Repository.DeleteMessage: %w", models.ErrNoMessage)
	}

	return nil
}

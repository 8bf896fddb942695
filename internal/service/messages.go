package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

// PostMessage appends to the request's thread. Messaging is legal at
// every bid status, so negotiation can continue on a rejected or
// withdrawn bid.
func (s *Service) PostMessage(ctx context.Context, bidRequestId, senderId, body string) (models.BidMessage, error) {
	if len(strings.TrimSpace(body)) == 0 {
		return models.BidMessage{}, fmt.Errorf("service.Service.PostMessage: %w", models.ErrEmptyMessage)
	}

	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return models.BidMessage{}, fmt.Errorf("service.Service.PostMessage: %w", err)
	}

	message, err := s.store.AddMessage(ctx, models.BidMessage{
		BidRequestId: request.Id,
		SenderId:     senderId,
		Body:         body,
	})
	if err != nil {
		return models.BidMessage{}, fmt.Errorf("service.Service.PostMessage: %w", err)
	}

	return message, nil
}

func (s *Service) ListMessages(ctx context.Context, bidRequestId string, limit, offset int) ([]models.BidMessage, error) {
	_, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListMessages: %w", err)
	}

	messages, err := s.store.GetMessages(ctx, bidRequestId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListMessages: %w", err)
	}

	return messages, nil
}

func (s *Service) DeleteMessage(ctx context.Context, messageId string) error {
	err := s.store.DeleteMessage(ctx, messageId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteMessage: %w", err)
	}
	return nil
}

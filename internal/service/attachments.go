package service

import (
	"context"
	"fmt"
	"io"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

// AttachResponseFile streams a file to the attachment gateway and
// records the returned reference against the bid request.
func (s *Service) AttachResponseFile(ctx context.Context, bidRequestId, specialistId, filename, contentType string, r io.Reader) (models.ResponseAttachment, error) {
	request, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return models.ResponseAttachment{}, fmt.Errorf("service.Service.AttachResponseFile: %w", err)
	}

	if request.SpecialistId != specialistId {
		return models.ResponseAttachment{}, fmt.Errorf("service.Service.AttachResponseFile: %w", models.ErrNotInvitee)
	}

	reference, err := s.files.Upload(ctx, r, filename, contentType)
	if err != nil {
		return models.ResponseAttachment{}, fmt.Errorf("service.Service.AttachResponseFile: %w", err)
	}

	attachment, err := s.store.AddAttachment(ctx, models.ResponseAttachment{
		BidRequestId: request.Id,
		FileName:     filename,
		ContentType:  contentType,
		Reference:    reference,
	})
	if err != nil {
		// keep the gateway consistent with the records we failed to write
		if delErr := s.files.Delete(ctx, reference); delErr != nil {
			s.log.WithError(delErr).WithField("reference", reference).Warn("orphaned attachment cleanup failed")
		}
		return models.ResponseAttachment{}, fmt.Errorf("service.Service.AttachResponseFile: %w", err)
	}

	return attachment, nil
}

func (s *Service) ListAttachments(ctx context.Context, bidRequestId string) ([]models.ResponseAttachment, error) {
	_, err := s.requestByUUID(ctx, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListAttachments: %w", err)
	}

	attachments, err := s.store.GetAttachments(ctx, bidRequestId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListAttachments: %w", err)
	}

	return attachments, nil
}

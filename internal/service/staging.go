package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/microservices/condo/internal/entity"
)

const (
	defaultStagedLimit uint64 = 20
	maxStagedLimit     uint64 = 100
)

// StageImage parks a validated image for a later step of the registration
// wizard. It expires after the configured TTL.
func (s *Service) StageImage(ctx context.Context, sess entity.Session, requestID string, in entity.ImageInput) (entity.StagedImage, error) {
	if err := authorize(sess, entity.PermissionStageImages); err != nil {
		return entity.StagedImage{}, err
	}

	if err := validateRequestID(requestID); err != nil {
		return entity.StagedImage{}, err
	}

	if in.Source == entity.ImageSourceStaging {
		return entity.StagedImage{}, fmt.Errorf("%w: image is already staged", entity.ErrInvalidArgument)
	}

	img, err := s.acquire(ctx, sess, FlowStaging, in)
	if err != nil {
		return entity.StagedImage{}, err
	}

	sum := sha256.Sum256(img.Data)
	now := s.now().UTC()

	staged := entity.StagedImage{
		ID:          uuid.Must(uuid.NewV4()),
		RequestID:   requestID,
		ContentType: img.ContentType,
		Checksum:    hex.EncodeToString(sum[:]),
		Size:        int64(img.Size()),
		Data:        img.Data,
		CreatedBy:   sess.UserID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.stagingTTL),
	}

	err = s.staging.SaveStagedImage(ctx, staged)
	if err != nil {
		return entity.StagedImage{}, fmt.Errorf("save staged image: %w", err)
	}

	slog.InfoContext(ctx, "image staged", "staged_id", staged.ID, "request_id", requestID, "size", staged.Size)

	return staged, nil
}

func (s *Service) StagedImage(ctx context.Context, sess entity.Session, id uuid.UUID) (entity.StagedImage, error) {
	if err := authorize(sess, entity.PermissionStageImages); err != nil {
		return entity.StagedImage{}, err
	}

	return s.ownStagedImage(ctx, sess, id)
}

// StagedImages lists the caller's live images of one wizard request.
// StagedImages lists the live images of a wizard run, oldest first. A zero
// limit means defaultStagedLimit; larger limits are capped at maxStagedLimit.
func (s *Service) StagedImages(ctx context.Context, sess entity.Session, requestID string, limit uint64) ([]entity.StagedImage, error) {
	if err := authorize(sess, entity.PermissionStageImages); err != nil {
		return nil, err
	}

	if err := validateRequestID(requestID); err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = defaultStagedLimit
	}

	f := entity.StagedImageFilter{RequestID: requestID, Limit: min(limit, maxStagedLimit)}
	if !sess.Can(entity.PermissionManageUsers) {
		f.CreatedBy = sess.UserID
	}

	images, err := s.staging.StagedImages(ctx, f, s.now())
	if err != nil {
		return nil, fmt.Errorf("list staged images: %w", err)
	}

	return images, nil
}

func (s *Service) DeleteStagedImage(ctx context.Context, sess entity.Session, id uuid.UUID) error {
	if err := authorize(sess, entity.PermissionStageImages); err != nil {
		return err
	}

	if _, err := s.ownStagedImage(ctx, sess, id); err != nil {
		return err
	}

	err := s.staging.DeleteStagedImage(ctx, id)
	if err != nil {
		return fmt.Errorf("delete staged image: %w", err)
	}

	return nil
}

// EvictExpired removes every staged image past its TTL.
func (s *Service) EvictExpired(ctx context.Context) (int64, error) {
	n, err := s.staging.DeleteExpiredStagedImages(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("evict staged images: %w", err)
	}

	if n > 0 {
		slog.InfoContext(ctx, "staged images evicted", "count", n)
	}

	return n, nil
}

// ownStagedImage loads a live staged image. Images staged by someone else are
// reported as missing unless the caller manages users.
func (s *Service) ownStagedImage(ctx context.Context, sess entity.Session, id uuid.UUID) (entity.StagedImage, error) {
	if id.IsNil() {
		return entity.StagedImage{}, fmt.Errorf("%w: staged image id", entity.ErrInvalidArgument)
	}

	img, err := s.staging.StagedImage(ctx, id, s.now())
	if err != nil {
		return entity.StagedImage{}, fmt.Errorf("staged image %s: %w", id, err)
	}

	if img.CreatedBy != sess.UserID && !sess.Can(entity.PermissionManageUsers) {
		return entity.StagedImage{}, fmt.Errorf("staged image %s: %w", id, entity.ErrNotFound)
	}

	return img, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samandr77/microservices/condo/internal/entity"
)

// Verify runs one verification attempt against the subject's enrolled face.
//
// Validation problems are returned as errors and no attempt is created. A
// network or remote failure returns the attempt in the error state together
// with the error, so the caller can offer a retry.
func (s *Service) Verify(
	ctx context.Context,
	sess entity.Session,
	subject entity.Subject,
	in entity.ImageInput,
) (*entity.VerificationAttempt, error) {
	if err := authorize(sess, entity.PermissionVerifyFaces); err != nil {
		return nil, err
	}

	if err := subject.Validate(); err != nil {
		return nil, err
	}

	return s.runAttempt(ctx, sess, FlowVerification, &subject, in)
}

// Recognize runs an open-set recognition for the security desk.
func (s *Service) Recognize(ctx context.Context, sess entity.Session, in entity.ImageInput) (*entity.VerificationAttempt, error) {
	if err := authorize(sess, entity.PermissionRecognize); err != nil {
		return nil, err
	}

	return s.runAttempt(ctx, sess, FlowRecognition, nil, in)
}

func (s *Service) runAttempt(
	ctx context.Context,
	sess entity.Session,
	flow Flow,
	subject *entity.Subject,
	in entity.ImageInput,
) (*entity.VerificationAttempt, error) {
	attempt := entity.NewVerificationAttempt()
	attempt.Subject = subject

	if err := attempt.Capture(in.Source); err != nil {
		return nil, err
	}

	img, err := s.acquire(ctx, sess, flow, in)
	if err != nil {
		return nil, err
	}

	if err := attempt.Submit(); err != nil {
		return nil, err
	}

	var resp *entity.RecognitionResponse

	if subject != nil {
		resp, err = s.backend.Verify(ctx, sess, *subject, img)
	} else {
		resp, err = s.backend.Recognize(ctx, sess, img)
	}

	if err != nil {
		slog.ErrorContext(ctx, "recognition request failed", "attempt_id", attempt.ID, "error", err)

		if failErr := attempt.Fail(userMessage(err)); failErr != nil {
			return nil, errors.Join(err, failErr)
		}

		return attempt, fmt.Errorf("recognition request: %w", err)
	}

	outcome := Interpret(resp)

	if err := attempt.Resolve(outcome); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "verification attempt resolved",
		"attempt_id", attempt.ID, "status", outcome.Status, "confidence", outcome.ConfidenceText)

	return attempt, nil
}

// Enroll registers a reference face for the subject from an upload, a camera
// frame or a previously staged image. A staged image is removed once enrolled.
func (s *Service) Enroll(
	ctx context.Context,
	sess entity.Session,
	subject entity.Subject,
	in entity.ImageInput,
) (entity.EnrollmentResult, error) {
	if err := authorize(sess, entity.PermissionEnrollFaces); err != nil {
		return entity.EnrollmentResult{}, err
	}

	if err := subject.Validate(); err != nil {
		return entity.EnrollmentResult{}, err
	}

	img, err := s.acquire(ctx, sess, FlowEnrollment, in)
	if err != nil {
		return entity.EnrollmentResult{}, err
	}

	result, err := s.backend.Enroll(ctx, sess, subject, img)
	if err != nil {
		return entity.EnrollmentResult{}, fmt.Errorf("enroll %s %d: %w", subject.Kind, subject.ID, err)
	}

	if in.Source == entity.ImageSourceStaging {
		err = s.staging.DeleteStagedImage(ctx, in.StagedID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			slog.WarnContext(ctx, "delete staged image after enrollment", "staged_id", in.StagedID, "error", err)
		}
	}

	return result, nil
}

func (s *Service) DeleteEnrollment(ctx context.Context, sess entity.Session, id int64) error {
	if err := authorize(sess, entity.PermissionEnrollFaces); err != nil {
		return err
	}

	if id <= 0 {
		return fmt.Errorf("%w: enrollment id", entity.ErrInvalidArgument)
	}

	err := s.backend.DeleteEnrollment(ctx, sess, id)
	if err != nil {
		return fmt.Errorf("delete enrollment %d: %w", id, err)
	}

	return nil
}

func (s *Service) EnrollmentStatus(ctx context.Context, sess entity.Session, id int64) (entity.EnrollmentStatus, error) {
	if err := authorize(sess, entity.PermissionVerifyFaces); err != nil {
		return entity.EnrollmentStatus{}, err
	}

	if id <= 0 {
		return entity.EnrollmentStatus{}, fmt.Errorf("%w: person id", entity.ErrInvalidArgument)
	}

	status, err := s.backend.EnrollmentStatus(ctx, sess, id)
	if err != nil {
		return entity.EnrollmentStatus{}, fmt.Errorf("enrollment status %d: %w", id, err)
	}

	return status, nil
}

func (s *Service) acquire(ctx context.Context, sess entity.Session, flow Flow, in entity.ImageInput) (entity.Image, error) {
	switch in.Source {
	case entity.ImageSourceFile:
		return s.validator.AcquireFromFile(flow, in.Name, in.ContentType, in.Data)
	case entity.ImageSourceCamera:
		return s.validator.AcquireFromCamera(flow, in.DataURL, in.CameraError)
	case entity.ImageSourceStaging:
		staged, err := s.ownStagedImage(ctx, sess, in.StagedID)
		if err != nil {
			return entity.Image{}, err
		}

		img, err := s.validator.AcquireFromFile(flow, staged.ID.String(), staged.ContentType, staged.Data)
		if err != nil {
			return entity.Image{}, err
		}

		img.Source = entity.ImageSourceStaging

		return img, nil
	default:
		return entity.Image{}, fmt.Errorf("%w: unknown image source %q", entity.ErrInvalidArgument, in.Source)
	}
}

// userMessage is the text shown next to the retry affordance.
func userMessage(err error) string {
	if msg, ok := entity.RemoteMessage(err); ok {
		return msg
	}

	if errors.Is(err, entity.ErrNoAuthToken) {
		return entity.ErrMsgUnauthorized
	}

	return entity.ErrMsgBackend
}

package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/pkg/config"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

type Backend interface {
	Users(ctx context.Context, s entity.Session) ([]entity.User, error)
	PatchUser(ctx context.Context, s entity.Session, id int64, upd entity.ProfileUpdate) (entity.User, error)
	Verify(ctx context.Context, s entity.Session, subject entity.Subject, img entity.Image) (*entity.RecognitionResponse, error)
	Recognize(ctx context.Context, s entity.Session, img entity.Image) (*entity.RecognitionResponse, error)
	Enroll(ctx context.Context, s entity.Session, subject entity.Subject, img entity.Image) (entity.EnrollmentResult, error)
	DeleteEnrollment(ctx context.Context, s entity.Session, id int64) error
	EnrollmentStatus(ctx context.Context, s entity.Session, id int64) (entity.EnrollmentStatus, error)
}

type StagingRepository interface {
	SaveStagedImage(ctx context.Context, img entity.StagedImage) error
	StagedImage(ctx context.Context, id uuid.UUID, now time.Time) (entity.StagedImage, error)
	StagedImages(ctx context.Context, f entity.StagedImageFilter, now time.Time) ([]entity.StagedImage, error)
	DeleteStagedImage(ctx context.Context, id uuid.UUID) error
	DeleteExpiredStagedImages(ctx context.Context, now time.Time) (int64, error)
}

type EventPublisher interface {
	OwnerReassigned(ctx context.Context, c entity.OwnerChange)
	OwnerPartialFailure(ctx context.Context, a entity.OwnerAlert)
}

type TokenParser interface {
	Parse(token string) (entity.Session, error)
}

type Mailer interface {
	SendMessage(subject, message string, recipients []string, contentType string) error
}

type Service struct {
	backend        Backend
	staging        StagingRepository
	events         EventPublisher
	tokens         TokenParser
	sessions       *Sessions
	validator      *ImageValidator
	stagingTTL     time.Duration
	demotionPolicy entity.DemotionPolicy
	now            func() time.Time
}

func New(
	cfg config.Config,
	backend Backend,
	staging StagingRepository,
	events EventPublisher,
	tokens TokenParser,
	sessions *Sessions,
) *Service {
	return &Service{
		backend:        backend,
		staging:        staging,
		events:         events,
		tokens:         tokens,
		sessions:       sessions,
		validator:      NewImageValidator(cfg.Faces.MaxImageSize),
		stagingTTL:     cfg.Faces.StagingTTL,
		demotionPolicy: cfg.Owner.DemotionPolicy,
		now:            time.Now,
	}
}

// Authenticate builds the caller's session from a bearer token, with any
// local role patch applied on top of the token claims.
func (s *Service) Authenticate(token string) (entity.Session, error) {
	sess, err := s.tokens.Parse(token)
	if err != nil {
		return entity.Session{}, err
	}

	return s.sessions.Apply(sess), nil
}

func authorize(sess entity.Session, permission string) error {
	if sess.Token == "" {
		return entity.ErrNoAuthToken
	}

	if !sess.Can(permission) {
		return entity.ErrForbidden
	}

	return nil
}

package service_test

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/internal/mocks"
	"github.com/samandr77/microservices/condo/internal/service"
	"github.com/samandr77/microservices/condo/pkg/config"
)

var (
	admin  = entity.Session{UserID: 1, Email: "admin@condo.local", Role: entity.RoleAdministrator, Token: "tok"}
	tenant = entity.Session{UserID: 7, Email: "ana@condo.local", Role: entity.RoleTenant, Token: "tok7"}
)

type deps struct {
	backend  *mocks.MockBackend
	staging  *mocks.MockStagingRepository
	events   *mocks.MockEventPublisher
	tokens   *mocks.MockTokenParser
	sessions *service.Sessions
}

func newService(t *testing.T, policy entity.DemotionPolicy) (*service.Service, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		backend:  mocks.NewMockBackend(ctrl),
		staging:  mocks.NewMockStagingRepository(ctrl),
		events:   mocks.NewMockEventPublisher(ctrl),
		tokens:   mocks.NewMockTokenParser(ctrl),
		sessions: service.NewSessions(),
	}

	cfg := config.Config{
		Faces: config.Faces{MaxImageSize: 5 * config.MB, StagingTTL: time.Hour},
		Owner: config.Owner{DemotionPolicy: policy},
	}

	return service.New(cfg, d.backend, d.staging, d.events, d.tokens, d.sessions), d
}

func pngBytes(size int) []byte {
	b := make([]byte, size)
	copy(b, "\x89PNG\r\n\x1a\n")

	return b
}

func jpegBytes(size int) []byte {
	b := make([]byte, size)
	copy(b, "\xff\xd8\xff\xe0\x00\x10JFIF\x00")

	return b
}

func ptr[T any](v T) *T {
	return &v
}

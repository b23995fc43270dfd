package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/pkg/config"
)

func TestService_Verify_OversizedFileMakesNoCalls(t *testing.T) {
	t.Parallel()

	s, _ := newService(t, entity.DemotionFailClosed)

	attempt, err := s.Verify(context.Background(), tenant,
		entity.Subject{ID: 7, Kind: entity.SubjectTenant},
		entity.ImageInput{Source: entity.ImageSourceFile, Name: "big.jpg", ContentType: "image/jpeg", Data: jpegBytes(6 * config.MB)},
	)
	require.ErrorIs(t, err, entity.ErrFileTooLarge)
	require.Nil(t, attempt)
}

func TestService_Verify_Authorized(t *testing.T) {
	t.Parallel()

	s, d := newService(t, entity.DemotionFailClosed)

	subject := entity.Subject{ID: 7, Kind: entity.SubjectTenant}
	data := pngBytes(2 * config.MB)

	d.backend.EXPECT().
		Verify(gomock.Any(), tenant, subject, entity.Image{Name: "yo.png", ContentType: "image/png", Data: data, Source: entity.ImageSourceFile}).
		Return(decode(t, `{"success":true,"verificacion":{"resultado":"ACEPTADO","confianza":91.2,
			"persona_identificada":{"nombre_completo":"Ana Ruiz"}}}`), nil)

	attempt, err := s.Verify(context.Background(), tenant, subject,
		entity.ImageInput{Source: entity.ImageSourceFile, Name: "yo.png", ContentType: "image/png", Data: data})
	require.NoError(t, err)
	require.Equal(t, entity.StateAuthorized, attempt.State)
	require.Equal(t, entity.OutcomeAuthorized, attempt.Outcome.Status)
	require.Equal(t, "91%", attempt.Outcome.ConfidenceText)
	require.Equal(t, "Ana Ruiz", attempt.Outcome.Person.FullName)
	require.False(t, attempt.Retryable)
}

func TestService_Verify_Denied(t *testing.T) {
	t.Parallel()

	s, d := newService(t, entity.DemotionFailClosed)

	d.backend.EXPECT().Verify(gomock.Any(), tenant, gomock.Any(), gomock.Any()).
		Return(decode(t, `{"match":false,"confianza":30,"distance":0.8}`), nil)

	attempt, err := s.Verify(context.Background(), tenant, entity.Subject{ID: 7, Kind: entity.SubjectTenant},
		entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/bmp", Data: []byte("BM..")})
	require.NoError(t, err)
	require.Equal(t, entity.StateDenied, attempt.State)
	require.Equal(t, "30%", attempt.Outcome.ConfidenceText)
}

func TestService_Verify_RemoteFailureIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
		wantMsg string
	}{
		{
			name:    "network",
			err:     fmt.Errorf("%w: dial tcp: connection refused", entity.ErrNetwork),
			wantErr: entity.ErrNetwork,
			wantMsg: entity.ErrMsgBackend,
		},
		{
			name:    "remote",
			err:     &entity.RemoteError{StatusCode: 400, Message: "No hay rostro registrado"},
			wantErr: entity.ErrRemote,
			wantMsg: "No hay rostro registrado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, d := newService(t, entity.DemotionFailClosed)

			d.backend.EXPECT().Verify(gomock.Any(), tenant, gomock.Any(), gomock.Any()).Return(nil, tt.err)

			attempt, err := s.Verify(context.Background(), tenant, entity.Subject{ID: 7, Kind: entity.SubjectTenant},
				entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/png", Data: pngBytes(64)})
			require.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, attempt)
			require.Equal(t, entity.StateError, attempt.State)
			require.True(t, attempt.Retryable)
			require.Equal(t, tt.wantMsg, attempt.Message)

			require.NoError(t, attempt.Reset())
			require.Equal(t, entity.StateIdle, attempt.State)
		})
	}
}

func TestService_Verify_Rejects(t *testing.T) {
	t.Parallel()

	s, _ := newService(t, entity.DemotionFailClosed)
	img := entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/png", Data: pngBytes(64)}

	_, err := s.Verify(context.Background(), entity.Session{UserID: 7, Role: entity.RoleTenant}, entity.Subject{ID: 7, Kind: entity.SubjectTenant}, img)
	require.ErrorIs(t, err, entity.ErrNoAuthToken)

	_, err = s.Verify(context.Background(), tenant, entity.Subject{ID: 7, Kind: "vecino"}, img)
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, err = s.Verify(context.Background(), tenant, entity.Subject{ID: 0, Kind: entity.SubjectOwner}, img)
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, err = s.Verify(context.Background(), tenant, entity.Subject{ID: 7, Kind: entity.SubjectTenant}, entity.ImageInput{Source: "fax"})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, err = s.Verify(context.Background(), tenant, entity.Subject{ID: 7, Kind: entity.SubjectTenant},
		entity.ImageInput{Source: entity.ImageSourceCamera, CameraError: "NotFoundError"})
	require.ErrorIs(t, err, entity.ErrCameraAccess)
}

func TestService_Recognize(t *testing.T) {
	t.Parallel()

	s, d := newService(t, entity.DemotionFailClosed)
	guard := entity.Session{UserID: 3, Role: entity.RoleSecurity, Token: "tok3"}
	img := entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/gif", Data: []byte("GIF89a")}

	_, err := s.Recognize(context.Background(), tenant, img)
	require.ErrorIs(t, err, entity.ErrForbidden)

	d.backend.EXPECT().Recognize(gomock.Any(), guard, gomock.Any()).
		Return(decode(t, `{"reconocido":true,"persona":{"nombre_completo":"Luis Paz"}}`), nil)

	attempt, err := s.Recognize(context.Background(), guard, img)
	require.NoError(t, err)
	require.Equal(t, entity.StateAuthorized, attempt.State)
	require.Nil(t, attempt.Subject)
	require.Equal(t, "Luis Paz", attempt.Outcome.Person.FullName)
}

func TestService_Enroll(t *testing.T) {
	t.Parallel()

	owner := entity.Session{UserID: 42, Role: entity.RoleOwner, Token: "tok42"}
	subject := entity.Subject{ID: 42, Kind: entity.SubjectOwner}

	t.Run("bmp is rejected", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, entity.DemotionFailClosed)

		_, err := s.Enroll(context.Background(), owner, subject,
			entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/bmp", Data: []byte("BM..")})
		require.ErrorIs(t, err, entity.ErrInvalidFile)
	})

	t.Run("tenant cannot enroll", func(t *testing.T) {
		t.Parallel()

		s, _ := newService(t, entity.DemotionFailClosed)

		_, err := s.Enroll(context.Background(), tenant, subject,
			entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/png", Data: pngBytes(64)})
		require.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("from staged image", func(t *testing.T) {
		t.Parallel()

		s, d := newService(t, entity.DemotionFailClosed)
		stagedID := uuid.Must(uuid.NewV4())
		data := jpegBytes(128)

		gomock.InOrder(
			d.staging.EXPECT().StagedImage(gomock.Any(), stagedID, gomock.Any()).
				Return(entity.StagedImage{ID: stagedID, ContentType: "image/jpeg", Data: data, CreatedBy: 42}, nil),
			d.backend.EXPECT().Enroll(gomock.Any(), owner, subject, entity.Image{
				Name: stagedID.String(), ContentType: "image/jpeg", Data: data, Source: entity.ImageSourceStaging,
			}).Return(entity.EnrollmentResult{Success: true, ConfidenceText: "99%"}, nil),
			d.staging.EXPECT().DeleteStagedImage(gomock.Any(), stagedID).Return(nil),
		)

		res, err := s.Enroll(context.Background(), owner, subject,
			entity.ImageInput{Source: entity.ImageSourceStaging, StagedID: stagedID})
		require.NoError(t, err)
		require.True(t, res.Success)
	})

	t.Run("staged image of someone else", func(t *testing.T) {
		t.Parallel()

		s, d := newService(t, entity.DemotionFailClosed)
		stagedID := uuid.Must(uuid.NewV4())

		d.staging.EXPECT().StagedImage(gomock.Any(), stagedID, gomock.Any()).
			Return(entity.StagedImage{ID: stagedID, ContentType: "image/jpeg", Data: jpegBytes(64), CreatedBy: 99}, nil)

		_, err := s.Enroll(context.Background(), owner, subject,
			entity.ImageInput{Source: entity.ImageSourceStaging, StagedID: stagedID})
		require.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()

		s, d := newService(t, entity.DemotionFailClosed)

		d.backend.EXPECT().Enroll(gomock.Any(), owner, subject, gomock.Any()).
			Return(entity.EnrollmentResult{}, &entity.RemoteError{StatusCode: 200, Message: "No se detectó un rostro"})

		_, err := s.Enroll(context.Background(), owner, subject,
			entity.ImageInput{Source: entity.ImageSourceFile, ContentType: "image/png", Data: pngBytes(64)})
		require.ErrorIs(t, err, entity.ErrRemote)
	})
}

func TestService_EnrollmentStatusAndDelete(t *testing.T) {
	t.Parallel()

	s, d := newService(t, entity.DemotionFailClosed)

	d.backend.EXPECT().EnrollmentStatus(gomock.Any(), tenant, int64(7)).
		Return(entity.EnrollmentStatus{Enrolled: true}, nil)

	st, err := s.EnrollmentStatus(context.Background(), tenant, 7)
	require.NoError(t, err)
	require.True(t, st.Enrolled)

	_, err = s.EnrollmentStatus(context.Background(), tenant, -1)
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	require.ErrorIs(t, s.DeleteEnrollment(context.Background(), tenant, 5), entity.ErrForbidden)

	d.backend.EXPECT().DeleteEnrollment(gomock.Any(), admin, int64(5)).Return(errors.Join(entity.ErrRemote, entity.ErrNotFound))
	require.ErrorIs(t, s.DeleteEnrollment(context.Background(), admin, 5), entity.ErrNotFound)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/condo/internal/api"
	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/internal/mocks"
	"github.com/samandr77/microservices/condo/internal/service"
	"github.com/samandr77/microservices/condo/pkg/config"
	"github.com/samandr77/microservices/condo/pkg/security"
)

const internalKey = "internal-key"

var (
	adminSession  = entity.Session{UserID: 1, Email: "admin@condo.local", Role: entity.RoleAdministrator}
	tenantSession = entity.Session{UserID: 7, Email: "ana@condo.local", Role: entity.RoleTenant}
	guardSession  = entity.Session{UserID: 3, Email: "porteria@condo.local", Role: entity.RoleSecurity}
)

type clientAPI struct {
	url     string
	parser  *security.SessionParser
	backend *mocks.MockBackend
	staging *mocks.MockStagingRepository
	events  *mocks.MockEventPublisher
}

func newClientAPI(t *testing.T) *clientAPI {
	t.Helper()

	ctrl := gomock.NewController(t)

	c := &clientAPI{
		parser:  security.NewSessionParser("test-secret"),
		backend: mocks.NewMockBackend(ctrl),
		staging: mocks.NewMockStagingRepository(ctrl),
		events:  mocks.NewMockEventPublisher(ctrl),
	}

	cfg := config.Config{
		Faces: config.Faces{MaxImageSize: 5 * config.MB, StagingTTL: time.Hour},
		Owner: config.Owner{DemotionPolicy: entity.DemotionFailClosed},
	}

	hash, err := security.HashAPIKey(internalKey)
	require.NoError(t, err)

	s := service.New(cfg, c.backend, c.staging, c.events, c.parser, service.NewSessions())
	h := api.NewHandler(s, cfg.Faces.MaxImageSize)
	mw := api.NewMiddleware(s, security.NewAPIKey(hash))

	srv := httptest.NewServer(api.NewRouter(h, mw))
	t.Cleanup(srv.Close)

	c.url = srv.URL

	return c
}

func (c *clientAPI) do(t *testing.T, sess *entity.Session, method, path, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.url+path, body)
	require.NoError(t, err)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if sess != nil {
		token, err := c.parser.Sign(*sess, time.Minute)
		require.NoError(t, err)

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, b
}

func (c *clientAPI) doJSON(t *testing.T, sess *entity.Session, method, path string, in any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		require.NoError(t, err)

		body = bytes.NewReader(b)
	}

	return c.do(t, sess, method, path, "application/json", body)
}

func imageForm(t *testing.T, contentType string, data []byte, fields map[string]string) (string, io.Reader) {
	t.Helper()

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="imagen"; filename="cara"`)
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		require.NoError(t, err)

		_, err = part.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return mw.FormDataContentType(), buf
}

func imageBytes(signature string, size int) []byte {
	b := make([]byte, size)
	copy(b, signature)

	return b
}

func pngBytes(size int) []byte {
	return imageBytes("\x89PNG\r\n\x1a\n", size)
}

func decodeBody[T any](t *testing.T, b []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))

	return v
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	resp, body := c.do(t, nil, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "OK\n", string(body))
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHandler_Session(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	resp, _ := c.do(t, nil, http.MethodGet, "/api/session", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := c.do(t, &tenantSession, http.MethodGet, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody[api.SessionResponse](t, body)
	require.Equal(t, int64(7), got.UserID)
	require.Equal(t, "inquilino", got.Role)
	require.Equal(t, 4, got.RoleID)
	require.Contains(t, got.Permissions, entity.PermissionVerifyFaces)
	require.NotContains(t, got.Permissions, entity.PermissionManageRoles)
}

func TestHandler_Verify(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)
	data := pngBytes(2 * config.MB)

	c.backend.EXPECT().
		Verify(gomock.Any(), gomock.Any(), entity.Subject{ID: 7, Kind: entity.SubjectTenant}, gomock.Any()).
		DoAndReturn(func(_ context.Context, s entity.Session, _ entity.Subject, img entity.Image) (*entity.RecognitionResponse, error) {
			require.Equal(t, tenantSession.UserID, s.UserID)
			require.NotEmpty(t, s.Token)
			require.Equal(t, "image/png", img.ContentType)
			require.Len(t, img.Data, len(data))

			var resp entity.RecognitionResponse

			err := json.Unmarshal([]byte(`{"success":true,"verificacion":{"resultado":"ACEPTADO","confianza":91.2,
				"persona_identificada":{"nombre_completo":"Ana Ruiz","vivienda":"B-12"}}}`), &resp)

			return &resp, err
		})

	ct, body := imageForm(t, "image/png", data, map[string]string{"inquilino_id": "7"})

	resp, b := c.do(t, &tenantSession, http.MethodPost, "/api/faces/verify", ct, body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))

	var got struct {
		State   string `json:"state"`
		Outcome struct {
			Status         string          `json:"status"`
			ConfidenceText string          `json:"confidence_text"`
			Person         json.RawMessage `json:"person"`
		} `json:"outcome"`
	}

	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "authorized", got.State)
	require.Equal(t, "AUTHORIZED", got.Outcome.Status)
	require.Equal(t, "91%", got.Outcome.ConfidenceText)
	require.JSONEq(t, `{"nombre_completo":"Ana Ruiz","vivienda":"B-12"}`, string(got.Outcome.Person))
}

func TestHandler_Verify_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		data        []byte
		fields      map[string]string
		wantCode    int
	}{
		{
			name:        "too large",
			contentType: "image/jpeg",
			data:        imageBytes("\xff\xd8\xff", 6*config.MB),
			fields:      map[string]string{"inquilino_id": "7"},
			wantCode:    http.StatusRequestEntityTooLarge,
		},
		{
			name:        "pdf",
			contentType: "application/pdf",
			data:        []byte("%PDF-1.4"),
			fields:      map[string]string{"inquilino_id": "7"},
			wantCode:    http.StatusUnsupportedMediaType,
		},
		{
			name:        "no subject",
			contentType: "image/png",
			data:        pngBytes(64),
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "two subjects",
			contentType: "image/png",
			data:        pngBytes(64),
			fields:      map[string]string{"inquilino_id": "7", "copropietario_id": "42"},
			wantCode:    http.StatusBadRequest,
		},
		{
			name:     "camera denied",
			fields:   map[string]string{"inquilino_id": "7", "source": "camera", "camera_error": "NotAllowedError"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newClientAPI(t)

			ct, body := imageForm(t, tt.contentType, tt.data, tt.fields)

			resp, b := c.do(t, &tenantSession, http.MethodPost, "/api/faces/verify", ct, body)
			require.Equal(t, tt.wantCode, resp.StatusCode, string(b))
		})
	}
}

func TestHandler_Verify_BackendDown(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	c.backend.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: connection refused", entity.ErrNetwork))

	frame := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(128))

	resp, b := c.doJSON(t, &tenantSession, http.MethodPost, "/api/faces/verify", map[string]any{
		"source":       "camera",
		"data_url":     frame,
		"inquilino_id": 7,
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode, string(b))

	got := decodeBody[api.AttemptResponse](t, b)
	require.Equal(t, entity.StateError, got.Attempt.State)
	require.True(t, got.Attempt.Retryable)
	require.Equal(t, entity.ImageSourceCamera, got.Attempt.Source)
	require.Equal(t, entity.ErrMsgBackend, got.Message)
}

func TestHandler_Recognize(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	ct, body := imageForm(t, "image/gif", []byte("GIF89a"), nil)

	resp, _ := c.do(t, &tenantSession, http.MethodPost, "/api/security/recognize", ct, body)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	c.backend.EXPECT().Recognize(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&entity.RecognitionResponse{Reconocido: new(bool)}, nil)

	ct, body = imageForm(t, "image/gif", []byte("GIF89a"), nil)

	resp, b := c.do(t, &guardSession, http.MethodPost, "/api/security/recognize", ct, body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))

	got := decodeBody[entity.VerificationAttempt](t, b)
	require.Equal(t, entity.StateDenied, got.State)
	require.Nil(t, got.Outcome.Person)
}

func TestHandler_Enroll_GIFRejected(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	ct, body := imageForm(t, "image/gif", []byte("GIF89a"), map[string]string{"copropietario_id": "42"})

	resp, _ := c.do(t, &adminSession, http.MethodPost, "/api/faces/enroll", ct, body)
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestHandler_Users(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	resp, _ := c.do(t, &tenantSession, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	c.backend.EXPECT().Users(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: eof", entity.ErrNetwork))

	resp, b := c.do(t, &adminSession, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, entity.ErrMsgRosterFetch, decodeBody[api.ResponseError](t, b).Message)
}

func TestHandler_ReassignOwner(t *testing.T) {
	t.Parallel()

	roster := []entity.User{
		{ID: 7, Email: "ana@condo.local", Roles: entity.RoleSet{entity.RoleTenant}},
		{ID: 42, Email: "luis@condo.local", Roles: entity.RoleSet{entity.RoleOwner}},
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		c := newClientAPI(t)

		gomock.InOrder(
			c.backend.EXPECT().Users(gomock.Any(), gomock.Any()).Return(roster, nil),
			c.backend.EXPECT().PatchUser(gomock.Any(), gomock.Any(), int64(42), gomock.Any()).Return(entity.User{ID: 42}, nil),
			c.backend.EXPECT().PatchUser(gomock.Any(), gomock.Any(), int64(7), gomock.Any()).Return(entity.User{ID: 7}, nil),
			c.backend.EXPECT().Users(gomock.Any(), gomock.Any()).Return(roster, nil),
		)
		c.events.EXPECT().OwnerReassigned(gomock.Any(), gomock.Any())

		resp, b := c.do(t, &adminSession, http.MethodPost, "/api/users/7/owner", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(b))

		got := decodeBody[entity.OwnerReassignment](t, b)
		require.True(t, got.Demoted)
		require.True(t, got.Promoted)
	})

	t.Run("promotion fails", func(t *testing.T) {
		t.Parallel()

		c := newClientAPI(t)

		gomock.InOrder(
			c.backend.EXPECT().Users(gomock.Any(), gomock.Any()).Return(roster, nil),
			c.backend.EXPECT().PatchUser(gomock.Any(), gomock.Any(), int64(42), gomock.Any()).Return(entity.User{ID: 42}, nil),
			c.backend.EXPECT().PatchUser(gomock.Any(), gomock.Any(), int64(7), gomock.Any()).
				Return(entity.User{}, &entity.RemoteError{StatusCode: 500, Message: "boom"}),
			c.backend.EXPECT().Users(gomock.Any(), gomock.Any()).Return(roster, nil),
		)
		c.events.EXPECT().OwnerPartialFailure(gomock.Any(), gomock.Any())

		resp, b := c.do(t, &adminSession, http.MethodPost, "/api/users/7/owner", "", nil)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode, string(b))

		got := decodeBody[api.OwnerResponse](t, b)
		require.Equal(t, entity.ErrMsgPromotion, got.Message)
		require.True(t, got.Result.Demoted)
		require.False(t, got.Result.Promoted)
		require.Len(t, got.Result.Roster, 2)
	})

	t.Run("multiple owners", func(t *testing.T) {
		t.Parallel()

		c := newClientAPI(t)

		twoOwners := []entity.User{
			{ID: 7, Roles: entity.RoleSet{entity.RoleOwner}},
			{ID: 42, Roles: entity.RoleSet{entity.RoleOwner}},
			{ID: 50, Roles: entity.RoleSet{entity.RoleTenant}},
		}

		c.backend.EXPECT().Users(gomock.Any(), gomock.Any()).Return(twoOwners, nil)

		resp, _ := c.do(t, &adminSession, http.MethodPost, "/api/users/50/owner", "", nil)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()

		c := newClientAPI(t)

		resp, _ := c.do(t, &adminSession, http.MethodPost, "/api/users/abc/owner", "", nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandler_ChangeRole(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	c.backend.EXPECT().PatchUser(gomock.Any(), gomock.Any(), int64(7), entity.ProfileUpdate{Roles: entity.RoleSet{entity.RoleSecurity}}).
		Return(entity.User{ID: 7, Roles: entity.RoleSet{entity.RoleSecurity}}, nil)

	resp, b := c.doJSON(t, &adminSession, http.MethodPut, "/api/users/7/role", map[string]any{"role": "seguridad"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))

	resp, _ = c.doJSON(t, &adminSession, http.MethodPut, "/api/users/7/role", map[string]any{"role": "portero"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_SetActive(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	resp, _ := c.doJSON(t, &adminSession, http.MethodPost, "/api/users/42/active", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	c.backend.EXPECT().PatchUser(gomock.Any(), gomock.Any(), int64(42), gomock.Any()).Return(entity.User{ID: 42}, nil)

	resp, _ = c.doJSON(t, &adminSession, http.MethodPost, "/api/users/42/active", map[string]any{"active": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Staging(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)
	data := pngBytes(512)

	var saved entity.StagedImage

	c.staging.EXPECT().SaveStagedImage(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, img entity.StagedImage) { saved = img })

	ct, body := imageForm(t, "image/png", data, map[string]string{"request_id": "wizard-1"})

	resp, b := c.do(t, &tenantSession, http.MethodPost, "/api/staging/images", ct, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(b))
	require.NotContains(t, string(b), "data")

	staged := decodeBody[entity.StagedImage](t, b)
	require.Equal(t, saved.ID, staged.ID)
	require.Equal(t, int64(512), staged.Size)

	c.staging.EXPECT().StagedImage(gomock.Any(), saved.ID, gomock.Any()).Return(saved, nil)

	resp, b = c.do(t, &tenantSession, http.MethodGet, "/api/staging/images/"+saved.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	require.Equal(t, data, b)

	c.staging.EXPECT().StagedImages(gomock.Any(), entity.StagedImageFilter{RequestID: "wizard-1", CreatedBy: 7, Limit: 20}, gomock.Any()).
		Return(nil, nil)

	resp, b = c.do(t, &tenantSession, http.MethodGet, "/api/staging/images?request_id=wizard-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(b))

	c.staging.EXPECT().StagedImages(gomock.Any(), entity.StagedImageFilter{RequestID: "wizard-1", CreatedBy: 7, Limit: 3}, gomock.Any()).
		Return(nil, nil)

	resp, _ = c.do(t, &tenantSession, http.MethodGet, "/api/staging/images?request_id=wizard-1&limit=3", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(t, &tenantSession, http.MethodGet, "/api/staging/images?request_id=wizard-1&limit=muchas", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	other := uuid.Must(uuid.NewV4())
	c.staging.EXPECT().StagedImage(gomock.Any(), other, gomock.Any()).Return(entity.StagedImage{}, entity.ErrNotFound)

	resp, _ = c.do(t, &tenantSession, http.MethodDelete, "/api/staging/images/"+other.String(), "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_EvictStagedImages(t *testing.T) {
	t.Parallel()

	c := newClientAPI(t)

	resp, _ := c.do(t, nil, http.MethodPost, "/internal/staging/evict", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.url+"/internal/staging/evict", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", "wrong")

	wrong, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	wrong.Body.Close()
	require.Equal(t, http.StatusUnauthorized, wrong.StatusCode)

	c.staging.EXPECT().DeleteExpiredStagedImages(gomock.Any(), gomock.Any()).Return(int64(2), nil)

	req, err = http.NewRequestWithContext(context.Background(), http.MethodPost, c.url+"/internal/staging/evict", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", internalKey)

	ok, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer ok.Body.Close()

	require.Equal(t, http.StatusOK, ok.StatusCode)

	var got api.EvictResponse
	require.NoError(t, json.NewDecoder(ok.Body).Decode(&got))
	require.Equal(t, int64(2), got.Evicted)
}

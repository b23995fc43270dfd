package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/microservices/condo/internal/entity"
)

type Service interface {
	Roster(ctx context.Context, sess entity.Session) ([]entity.User, error)
	UpdateProfile(ctx context.Context, sess entity.Session, id int64, upd entity.ProfileUpdate) (entity.User, error)
	SetActive(ctx context.Context, sess entity.Session, id int64, active bool) (entity.User, error)
	ChangeRole(ctx context.Context, sess entity.Session, targetID int64, role entity.Role) (entity.RoleChange, error)
	ReassignOwner(ctx context.Context, sess entity.Session, targetID int64) (entity.OwnerReassignment, error)

	Verify(ctx context.Context, sess entity.Session, subject entity.Subject, in entity.ImageInput) (*entity.VerificationAttempt, error)
	Recognize(ctx context.Context, sess entity.Session, in entity.ImageInput) (*entity.VerificationAttempt, error)
	Enroll(ctx context.Context, sess entity.Session, subject entity.Subject, in entity.ImageInput) (entity.EnrollmentResult, error)
	DeleteEnrollment(ctx context.Context, sess entity.Session, id int64) error
	EnrollmentStatus(ctx context.Context, sess entity.Session, id int64) (entity.EnrollmentStatus, error)

	StageImage(ctx context.Context, sess entity.Session, requestID string, in entity.ImageInput) (entity.StagedImage, error)
	StagedImage(ctx context.Context, sess entity.Session, id uuid.UUID) (entity.StagedImage, error)
	StagedImages(ctx context.Context, sess entity.Session, requestID string, limit uint64) ([]entity.StagedImage, error)
	DeleteStagedImage(ctx context.Context, sess entity.Session, id uuid.UUID) error
	EvictExpired(ctx context.Context) (int64, error)
}

// @title Condominium Gateway API
// @version 1.0
// @description Face verification, recognition and user roster management for the condominium backend.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type Handler struct {
	s            Service
	maxImageSize int64
}

func NewHandler(s Service, maxImageSize int64) *Handler {
	return &Handler{
		s:            s,
		maxImageSize: maxImageSize,
	}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Success      200 {string} string "OK"
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("OK\n"))
	if err != nil {
		SendErr(ctx, w, http.StatusInternalServerError, err, entity.ErrMsgInternal)
	}
}

type SessionResponse struct {
	UserID      int64    `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	RoleID      int      `json:"role_id"`
	Permissions []string `json:"permissions"`
}

// Session godoc
// @Summary      Sesión actual
// @Description  Devuelve el usuario autenticado con el rol vigente y sus permisos
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SessionResponse
// @Failure      401 {object} ResponseError
// @Router       /session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := entity.SessionFromCtx(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, SessionResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		Role:        sess.Role.String(),
		RoleID:      sess.Role.ID(),
		Permissions: sess.Permissions(),
	})
}

// Users godoc
// @Summary      Lista de usuarios
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} entity.User
// @Failure      403 {object} ResponseError
// @Failure      502 {object} ResponseError "No se pudo obtener la lista"
// @Router       /users [get]
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	users, err := h.s.Roster(ctx, sess)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, users)
}

// UpdateUser godoc
// @Summary      Editar perfil
// @Description  Actualiza nombres, apellidos, teléfono, dirección o vivienda
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del usuario"
// @Param        request body entity.ProfileUpdate true "Campos a modificar"
// @Success      200 {object} entity.User
// @Failure      400 {object} ResponseError
// @Failure      403 {object} ResponseError
// @Router       /users/{id} [patch]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var upd entity.ProfileUpdate

	err = decodeJSON(r, &upd)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	user, err := h.s.UpdateProfile(ctx, sess, id, upd)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, user)
}

type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// SetActive godoc
// @Summary      Activar o desactivar usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del usuario"
// @Param        request body SetActiveRequest true "Estado"
// @Success      200 {object} entity.User
// @Failure      400 {object} ResponseError
// @Failure      403 {object} ResponseError
// @Router       /users/{id}/active [post]
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req SetActiveRequest

	err = decodeJSON(r, &req)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	if req.Active == nil {
		SendErr(ctx, w, http.StatusBadRequest, entity.ErrInvalidArgument, entity.ErrMsgInvalidArgument)
		return
	}

	user, err := h.s.SetActive(ctx, sess, id, *req.Active)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, user)
}

type ChangeRoleRequest struct {
	// Role name ("copropietario") or id (3).
	Role entity.Role `json:"role" swaggertype:"string"`
}

// OwnerResponse carries the reassignment state next to the error, so the UI
// can show the refreshed roster even when a PATCH failed.
type OwnerResponse struct {
	Message string                    `json:"message,omitempty"`
	Error   string                    `json:"error,omitempty"`
	Result  *entity.OwnerReassignment `json:"result"`
}

// ChangeRole godoc
// @Summary      Cambiar rol
// @Description  Asigna un rol. El rol copropietario pasa por la reasignación de copropietario.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del usuario"
// @Param        request body ChangeRoleRequest true "Rol"
// @Success      200 {object} entity.RoleChange
// @Failure      400 {object} ResponseError
// @Failure      403 {object} ResponseError
// @Failure      409 {object} ResponseError "Más de un copropietario"
// @Failure      502 {object} OwnerResponse
// @Router       /users/{id}/role [put]
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	var req ChangeRoleRequest

	err = decodeJSON(r, &req)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	change, err := h.s.ChangeRole(ctx, sess, id, req.Role)
	if err != nil {
		if change.Owner != nil {
			h.sendOwnerResult(ctx, w, *change.Owner, err)
			return
		}

		handleError(ctx, w, err)

		return
	}

	SendJSON(ctx, w, http.StatusOK, change)
}

// ReassignOwner godoc
// @Summary      Reasignar copropietario
// @Description  Retira el rol al copropietario actual y lo asigna al usuario indicado
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID del nuevo copropietario"
// @Success      200 {object} entity.OwnerReassignment
// @Success      207 {object} OwnerResponse "Asignado, pero el anterior conserva el rol"
// @Failure      403 {object} ResponseError
// @Failure      404 {object} ResponseError
// @Failure      409 {object} ResponseError "Más de un copropietario"
// @Failure      502 {object} OwnerResponse
// @Router       /users/{id}/owner [post]
func (h *Handler) ReassignOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	res, err := h.s.ReassignOwner(ctx, sess, id)
	if err != nil {
		h.sendOwnerResult(ctx, w, res, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, res)
}

func (h *Handler) sendOwnerResult(ctx context.Context, w http.ResponseWriter, res entity.OwnerReassignment, err error) {
	// Nothing was attempted: a plain error is enough.
	if res.TargetID == 0 {
		handleError(ctx, w, err)
		return
	}

	code, msg := errorStatus(err)
	if res.Promoted {
		code = http.StatusMultiStatus
	}

	SendErrWith(ctx, w, code, err, OwnerResponse{Message: msg, Error: err.Error(), Result: &res})
}

// AttemptResponse is sent when the recognition service could not be reached
// or answered with an error. The attempt is retryable.
type AttemptResponse struct {
	Message string                      `json:"message"`
	Error   string                      `json:"error"`
	Attempt *entity.VerificationAttempt `json:"attempt"`
}

// Verify godoc
// @Summary      Verificación facial
// @Description  Compara una imagen con el rostro registrado del copropietario o inquilino
// @Tags         faces
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        imagen formData file false "Imagen JPEG, PNG, BMP o GIF"
// @Param        source formData string false "file, camera o staging"
// @Param        data_url formData string false "Captura de cámara como data URL"
// @Param        staged_id formData string false "Imagen preparada"
// @Param        copropietario_id formData int false "ID de copropietario"
// @Param        inquilino_id formData int false "ID de inquilino"
// @Success      200 {object} entity.VerificationAttempt
// @Failure      400 {object} ResponseError
// @Failure      413 {object} ResponseError
// @Failure      415 {object} ResponseError
// @Failure      502 {object} AttemptResponse
// @Router       /faces/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	form, err := h.readImage(w, r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	subject, err := form.subject()
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	attempt, err := h.s.Verify(ctx, sess, subject, form.input)
	h.sendAttempt(ctx, w, attempt, err)
}

// Recognize godoc
// @Summary      Reconocimiento en portería
// @Description  Identifica a la persona de la imagen entre todos los rostros registrados
// @Tags         security
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        imagen formData file false "Imagen JPEG, PNG, BMP o GIF"
// @Param        data_url formData string false "Captura de cámara como data URL"
// @Success      200 {object} entity.VerificationAttempt
// @Failure      403 {object} ResponseError
// @Failure      502 {object} AttemptResponse
// @Router       /security/recognize [post]
func (h *Handler) Recognize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	form, err := h.readImage(w, r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	attempt, err := h.s.Recognize(ctx, sess, form.input)
	h.sendAttempt(ctx, w, attempt, err)
}

func (h *Handler) sendAttempt(ctx context.Context, w http.ResponseWriter, attempt *entity.VerificationAttempt, err error) {
	switch {
	case err == nil:
		SendJSON(ctx, w, http.StatusOK, attempt)
	case attempt != nil:
		code, _ := errorStatus(err)
		if code < http.StatusInternalServerError {
			code = http.StatusBadGateway
		}

		SendErrWith(ctx, w, code, err, AttemptResponse{Message: attempt.Message, Error: err.Error(), Attempt: attempt})
	default:
		handleError(ctx, w, err)
	}
}

// Enroll godoc
// @Summary      Registro facial
// @Description  Registra el rostro de referencia. Solo JPEG o PNG.
// @Tags         faces
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        imagen formData file false "Imagen JPEG o PNG"
// @Param        staged_id formData string false "Imagen preparada"
// @Param        copropietario_id formData int false "ID de copropietario"
// @Param        inquilino_id formData int false "ID de inquilino"
// @Success      201 {object} entity.EnrollmentResult
// @Failure      400 {object} ResponseError
// @Failure      403 {object} ResponseError
// @Failure      413 {object} ResponseError
// @Failure      415 {object} ResponseError
// @Failure      502 {object} ResponseError
// @Router       /faces/enroll [post]
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	form, err := h.readImage(w, r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	subject, err := form.subject()
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	res, err := h.s.Enroll(ctx, sess, subject, form.input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusCreated, res)
}

// DeleteEnrollment godoc
// @Summary      Eliminar registro facial
// @Tags         faces
// @Security     BearerAuth
// @Param        id path int true "ID del registro"
// @Success      204
// @Failure      403 {object} ResponseError
// @Failure      404 {object} ResponseError
// @Router       /faces/enroll/{id} [delete]
func (h *Handler) DeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	err = h.s.DeleteEnrollment(ctx, sess, id)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EnrollmentStatus godoc
// @Summary      Estado del registro facial
// @Tags         faces
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "ID de la persona"
// @Success      200 {object} entity.EnrollmentStatus
// @Router       /faces/status/{id} [get]
func (h *Handler) EnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	st, err := h.s.EnrollmentStatus(ctx, sess, id)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, st)
}

// StageImage godoc
// @Summary      Preparar imagen
// @Description  Guarda temporalmente una imagen para un paso posterior del registro
// @Tags         staging
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request_id formData string true "Identificador del asistente de registro"
// @Param        imagen formData file false "Imagen JPEG o PNG"
// @Param        data_url formData string false "Captura de cámara como data URL"
// @Success      201 {object} entity.StagedImage
// @Failure      400 {object} ResponseError
// @Failure      413 {object} ResponseError
// @Failure      415 {object} ResponseError
// @Router       /staging/images [post]
func (h *Handler) StageImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	form, err := h.readImage(w, r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	staged, err := h.s.StageImage(ctx, sess, form.requestID, form.input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusCreated, staged)
}

// StagedImages godoc
// @Summary      Imágenes preparadas
// @Tags         staging
// @Produce      json
// @Security     BearerAuth
// @Param        request_id query string true "Identificador del asistente de registro"
// @Param        limit query int false "Máximo de imágenes (20 por defecto, 100 como máximo)"
// @Success      200 {array} entity.StagedImage
// @Router       /staging/images [get]
func (h *Handler) StagedImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	var limit uint64

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			handleError(ctx, w, fmt.Errorf("%w: limit %q", entity.ErrInvalidArgument, v))
			return
		}

		limit = n
	}

	images, err := h.s.StagedImages(ctx, sess, r.URL.Query().Get(fieldRequestID), limit)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	if images == nil {
		images = []entity.StagedImage{}
	}

	SendJSON(ctx, w, http.StatusOK, images)
}

// StagedImage godoc
// @Summary      Descargar imagen preparada
// @Tags         staging
// @Produce      image/jpeg,image/png
// @Security     BearerAuth
// @Param        id path string true "ID de la imagen"
// @Success      200 {file} file
// @Failure      404 {object} ResponseError
// @Router       /staging/images/{id} [get]
func (h *Handler) StagedImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathUUID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	img, err := h.s.StagedImage(ctx, sess, id)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("ETag", strconv.Quote(img.Checksum))
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(img.Data)
	if err != nil {
		slog.ErrorContext(ctx, "write staged image", "staged_id", id, "error", err)
	}
}

// DeleteStagedImage godoc
// @Summary      Descartar imagen preparada
// @Tags         staging
// @Security     BearerAuth
// @Param        id path string true "ID de la imagen"
// @Success      204
// @Failure      404 {object} ResponseError
// @Router       /staging/images/{id} [delete]
func (h *Handler) DeleteStagedImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := entity.SessionFromCtx(ctx)

	id, err := pathUUID(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	err = h.s.DeleteStagedImage(ctx, sess, id)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type EvictResponse struct {
	Evicted int64 `json:"evicted"`
}

// EvictStagedImages removes expired staged images on demand. Internal only.
func (h *Handler) EvictStagedImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.s.EvictExpired(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}

		handleError(ctx, w, err)

		return
	}

	SendJSON(ctx, w, http.StatusOK, EvictResponse{Evicted: n})
}

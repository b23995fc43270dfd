package api

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/pkg/config"
)

const (
	fieldSource      = "source"
	fieldImage       = "imagen"
	fieldDataURL     = "data_url"
	fieldCameraError = "camera_error"
	fieldStagedID    = "staged_id"
	fieldRequestID   = "request_id"
)

type ResponseError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func SendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	SendErrWith(ctx, w, code, err, ResponseError{Message: msg, Error: err.Error()})
}

// SendErrWith logs err and answers with a custom error body.
func SendErrWith(ctx context.Context, w http.ResponseWriter, code int, err error, body any) {
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "api error", "error", err, "code", code)
	} else {
		slog.WarnContext(ctx, "api error", "error", err, "code", code)
	}

	SendJSON(ctx, w, code, body)
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err, "code", code)
	}
}

// errorStatus maps a service error to the HTTP status and the user-facing text.
func errorStatus(err error) (int, string) {
	var remote *entity.RemoteError

	switch {
	case errors.Is(err, entity.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, entity.ErrMsgFileTooLarge
	case errors.Is(err, entity.ErrInvalidFile):
		return http.StatusUnsupportedMediaType, entity.ErrMsgInvalidFile
	case errors.Is(err, entity.ErrCameraAccess):
		return http.StatusBadRequest, entity.ErrMsgCameraAccess
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrInvalidArgument):
		return http.StatusBadRequest, entity.ErrMsgInvalidArgument
	case errors.Is(err, entity.ErrNoAuthToken), errors.Is(err, entity.ErrUnauthenticated):
		return http.StatusUnauthorized, entity.ErrMsgUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden, entity.ErrMsgForbidden
	case errors.Is(err, entity.ErrMultipleOwners):
		return http.StatusConflict, entity.ErrMsgMultipleOwners
	case errors.Is(err, entity.ErrPromotionFailed):
		return http.StatusBadGateway, entity.ErrMsgPromotion
	case errors.Is(err, entity.ErrPartialFailure):
		return http.StatusBadGateway, entity.ErrMsgPartialFailure
	case errors.Is(err, entity.ErrRosterFetch):
		return http.StatusBadGateway, entity.ErrMsgRosterFetch
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound, entity.ErrMsgNotFound
	case errors.As(err, &remote):
		switch remote.StatusCode {
		case http.StatusUnauthorized:
			return http.StatusUnauthorized, entity.ErrMsgUnauthorized
		case http.StatusForbidden:
			return http.StatusForbidden, entity.ErrMsgForbidden
		}

		msg, _ := entity.RemoteMessage(err)

		return http.StatusBadGateway, cmp.Or(msg, entity.ErrMsgBackend)
	case errors.Is(err, entity.ErrNetwork):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, entity.ErrMsgBackend
		}

		return http.StatusBadGateway, entity.ErrMsgBackend
	default:
		return http.StatusInternalServerError, entity.ErrMsgInternal
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	code, msg := errorStatus(err)
	SendErr(ctx, w, code, err, msg)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id", entity.ErrInvalidArgument)
	}

	return id, nil
}

func pathUUID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id: %w", entity.ErrInvalidArgument, err)
	}

	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("%w: decode body: %w", entity.ErrInvalidArgument, err)
	}

	return nil
}

// imageRequest is the JSON form of an image submission. Camera frames are
// usually sent this way.
type imageRequest struct {
	Source          entity.ImageSource `json:"source"`
	DataURL         string             `json:"data_url"`
	CameraError     string             `json:"camera_error"`
	StagedID        uuid.UUID          `json:"staged_id"`
	RequestID       string             `json:"request_id"`
	CopropietarioID int64              `json:"copropietario_id"`
	InquilinoID     int64              `json:"inquilino_id"`
}

// imageForm is what readImage extracts from a multipart or JSON submission.
type imageForm struct {
	input           entity.ImageInput
	requestID       string
	copropietarioID string
	inquilinoID     string
}

// subject reads the person the image belongs to. Exactly one of the two id
// fields must be set.
func (f imageForm) subject() (entity.Subject, error) {
	if (f.copropietarioID == "") == (f.inquilinoID == "") {
		return entity.Subject{}, fmt.Errorf("%w: send exactly one of %s, %s",
			entity.ErrInvalidArgument, entity.SubjectOwner.FieldName(), entity.SubjectTenant.FieldName())
	}

	kind, raw := entity.SubjectOwner, f.copropietarioID
	if f.inquilinoID != "" {
		kind, raw = entity.SubjectTenant, f.inquilinoID
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return entity.Subject{}, fmt.Errorf("%w: %s: %w", entity.ErrInvalidArgument, kind.FieldName(), err)
	}

	s := entity.Subject{ID: id, Kind: kind}

	return s, s.Validate()
}

// readImage accepts multipart/form-data with an "imagen" file part, or a JSON
// body for camera and staged sources. The body is capped at twice the image
// ceiling to leave room for base64 and form overhead; the exact limit is
// enforced by the service.
func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) (imageForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxImageSize+config.MB)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req imageRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			return imageForm{}, bodyError(err)
		}

		return imageForm{
			input: entity.ImageInput{
				Source:      cmp.Or(req.Source, entity.ImageSourceCamera),
				DataURL:     req.DataURL,
				CameraError: req.CameraError,
				StagedID:    req.StagedID,
			},
			requestID:       req.RequestID,
			copropietarioID: idString(req.CopropietarioID),
			inquilinoID:     idString(req.InquilinoID),
		}, nil
	}

	err := r.ParseMultipartForm(h.maxImageSize + config.MB)
	if err != nil {
		return imageForm{}, bodyError(err)
	}

	form := imageForm{
		input: entity.ImageInput{
			Source:      entity.ImageSource(r.FormValue(fieldSource)),
			DataURL:     r.FormValue(fieldDataURL),
			CameraError: r.FormValue(fieldCameraError),
		},
		requestID:       r.FormValue(fieldRequestID),
		copropietarioID: r.FormValue(entity.SubjectOwner.FieldName()),
		inquilinoID:     r.FormValue(entity.SubjectTenant.FieldName()),
	}

	if raw := r.FormValue(fieldStagedID); raw != "" {
		form.input.StagedID, err = uuid.FromString(raw)
		if err != nil {
			return imageForm{}, fmt.Errorf("%w: %s: %w", entity.ErrInvalidArgument, fieldStagedID, err)
		}
	}

	file, header, err := r.FormFile(fieldImage)

	switch {
	case err == nil:
		defer file.Close()

		form.input.Data, err = io.ReadAll(file)
		if err != nil {
			return imageForm{}, bodyError(err)
		}

		form.input.Name = header.Filename
		form.input.ContentType = header.Header.Get("Content-Type")
		form.input.Source = cmp.Or(form.input.Source, entity.ImageSourceFile)
	case errors.Is(err, http.ErrMissingFile):
		form.input.Source = cmp.Or(form.input.Source, entity.ImageSourceCamera)
	default:
		return imageForm{}, bodyError(err)
	}

	return form, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body over %d bytes", entity.ErrFileTooLarge, tooLarge.Limit)
	}

	return fmt.Errorf("%w: read body: %w", entity.ErrInvalidArgument, err)
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}

	return strconv.FormatInt(id, 10)
}

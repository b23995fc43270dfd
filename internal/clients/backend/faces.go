package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/condo/internal/entity"
)

const (
	enrollPath = "/faces/enroll/"
	verifyPath = "/faces/verify/"
	statusPath = "/faces/status/"

	imageField = "imagen"
)

// Verify compares the image with the enrolled face of the subject.
func (c *Client) Verify(ctx context.Context, s entity.Session, subject entity.Subject, img entity.Image) (*entity.RecognitionResponse, error) {
	return c.recognize(ctx, s, verifyPath, &subject, img)
}

// Recognize runs an open-set search with no identity hint.
func (c *Client) Recognize(ctx context.Context, s entity.Session, img entity.Image) (*entity.RecognitionResponse, error) {
	return c.recognize(ctx, s, c.securityPath, nil, img)
}

func (c *Client) recognize(
	ctx context.Context,
	s entity.Session,
	path string,
	subject *entity.Subject,
	img entity.Image,
) (*entity.RecognitionResponse, error) {
	body, err := c.postImage(ctx, s, path, subject, img)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var resp entity.RecognitionResponse

	err = json.Unmarshal(body, &resp)
	if err != nil {
		slog.WarnContext(ctx, "malformed recognition response", "path", path, "error", err)
		return nil, nil
	}

	return &resp, nil
}

type enrollResponse struct {
	Success    *bool              `json:"success"`
	Message    string             `json:"message"`
	Mensaje    string             `json:"mensaje"`
	Error      string             `json:"error"`
	Confianza  *decimal.Decimal   `json:"confianza"`
	Enrollment *entity.Enrollment `json:"enrollment"`
	Registro   *entity.Enrollment `json:"registro"`
	ID         int64              `json:"id"`
}

// Enroll registers a reference image for the subject.
func (c *Client) Enroll(ctx context.Context, s entity.Session, subject entity.Subject, img entity.Image) (entity.EnrollmentResult, error) {
	body, err := c.postImage(ctx, s, enrollPath, &subject, img)
	if err != nil {
		return entity.EnrollmentResult{}, err
	}

	var resp enrollResponse

	if len(bytes.TrimSpace(body)) != 0 {
		err = json.Unmarshal(body, &resp)
		if err != nil {
			return entity.EnrollmentResult{}, fmt.Errorf("unmarshal enroll response: %w", err)
		}
	}

	msg := firstNonEmpty(resp.Error, resp.Mensaje, resp.Message)

	if resp.Success != nil && !*resp.Success {
		if msg == "" {
			msg = entity.ErrMsgBackend
		}

		return entity.EnrollmentResult{}, &entity.RemoteError{StatusCode: http.StatusOK, Message: msg}
	}

	result := entity.EnrollmentResult{
		Success:    true,
		Message:    msg,
		Confidence: resp.Confianza,
		Enrollment: resp.Enrollment,
	}

	if result.Enrollment == nil {
		result.Enrollment = resp.Registro
	}

	if result.Enrollment == nil && resp.ID != 0 {
		var e entity.Enrollment
		if err := json.Unmarshal(body, &e); err == nil {
			result.Enrollment = &e
		}
	}

	if result.Confidence != nil {
		result.ConfidenceText = entity.FormatPercent(*result.Confidence)
	}

	return result, nil
}

func (c *Client) DeleteEnrollment(ctx context.Context, s entity.Session, id int64) error {
	return c.doJSON(ctx, s, http.MethodDelete, enrollPath+strconv.FormatInt(id, 10)+"/", nil, nil)
}

type statusResponse struct {
	Enrolled   *bool              `json:"enrolled"`
	Registrado *bool              `json:"registrado"`
	Enrollment *entity.Enrollment `json:"enrollment"`
	ID         int64              `json:"id"`
}

// EnrollmentStatus reports whether the person has an enrolled face. A 404 from
// the backend means nothing is enrolled.
func (c *Client) EnrollmentStatus(ctx context.Context, s entity.Session, id int64) (entity.EnrollmentStatus, error) {
	req, err := c.newRequest(ctx, s, http.MethodGet, statusPath+strconv.FormatInt(id, 10)+"/", nil)
	if err != nil {
		return entity.EnrollmentStatus{}, err
	}

	body, _, err := c.do(req)
	if err != nil {
		if isNotFound(err) {
			return entity.EnrollmentStatus{Enrolled: false}, nil
		}

		return entity.EnrollmentStatus{}, err
	}

	var resp statusResponse

	err = json.Unmarshal(body, &resp)
	if err != nil {
		return entity.EnrollmentStatus{}, fmt.Errorf("unmarshal status response: %w", err)
	}

	status := entity.EnrollmentStatus{Enrollment: resp.Enrollment}

	if status.Enrollment == nil && resp.ID != 0 {
		var e entity.Enrollment
		if err := json.Unmarshal(body, &e); err == nil {
			status.Enrollment = &e
		}
	}

	switch {
	case resp.Enrolled != nil:
		status.Enrolled = *resp.Enrolled
	case resp.Registrado != nil:
		status.Enrolled = *resp.Registrado
	default:
		status.Enrolled = status.Enrollment != nil && status.Enrollment.Active
	}

	return status, nil
}

func (c *Client) postImage(ctx context.Context, s entity.Session, path string, subject *entity.Subject, img entity.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	if subject != nil {
		err := mw.WriteField(subject.Kind.FieldName(), strconv.FormatInt(subject.ID, 10))
		if err != nil {
			return nil, fmt.Errorf("write subject field: %w", err)
		}
	}

	name := img.Name
	if name == "" {
		name = "captura"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, name))
	h.Set("Content-Type", img.ContentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create image part: %w", err)
	}

	_, err = part.Write(img.Data)
	if err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}

	err = mw.Close()
	if err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, s, http.MethodPost, path, buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, _, err := c.do(req)

	return body, err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

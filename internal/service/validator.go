package service

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/samandr77/microservices/condo/internal/entity"
)

type Flow int

const (
	FlowVerification Flow = iota
	FlowRecognition
	FlowEnrollment
	FlowStaging
)

const (
	typeJPEG = "image/jpeg"
	typePNG  = "image/png"
	typeBMP  = "image/bmp"
	typeGIF  = "image/gif"

	NameMaxLen      = 100
	PhoneMaxLen     = 20
	AddressMaxLen   = 255
	RequestIDMaxLen = 128
)

var acceptedTypes = map[Flow][]string{
	FlowVerification: {typeJPEG, typePNG, typeBMP, typeGIF},
	FlowRecognition:  {typeJPEG, typePNG, typeBMP, typeGIF},
	FlowEnrollment:   {typeJPEG, typePNG},
	FlowStaging:      {typeJPEG, typePNG},
}

var typeAliases = map[string]string{
	"image/jpg":      typeJPEG,
	"image/pjpeg":    typeJPEG,
	"image/x-png":    typePNG,
	"image/x-ms-bmp": typeBMP,
	"image/x-bmp":    typeBMP,
}

var phoneRegexp = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

// ImageValidator enforces the accepted type set and size ceiling before any
// image leaves the gateway.
type ImageValidator struct {
	maxSize int64
}

func NewImageValidator(maxSize int64) *ImageValidator {
	return &ImageValidator{maxSize: maxSize}
}

func (v *ImageValidator) MaxSize() int64 {
	return v.maxSize
}

// AcquireFromFile validates an uploaded file. The declared type wins; an empty
// or generic declaration falls back to sniffing the content.
func (v *ImageValidator) AcquireFromFile(flow Flow, name, declaredType string, data []byte) (entity.Image, error) {
	if len(data) == 0 {
		return entity.Image{}, fmt.Errorf("%w: empty file", entity.ErrInvalidFile)
	}

	if int64(len(data)) > v.maxSize {
		return entity.Image{}, fmt.Errorf("%w: %d bytes, limit %d", entity.ErrFileTooLarge, len(data), v.maxSize)
	}

	contentType := normalizeType(declaredType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = normalizeType(http.DetectContentType(data))
	}

	if !slices.Contains(acceptedTypes[flow], contentType) {
		return entity.Image{}, fmt.Errorf("%w: %q", entity.ErrInvalidFile, contentType)
	}

	return entity.Image{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		Source:      entity.ImageSourceFile,
	}, nil
}

// AcquireFromCamera validates a frame captured by the browser and sent as a
// data URL. cameraErr is what the browser reported when it could not open
// the camera.
func (v *ImageValidator) AcquireFromCamera(flow Flow, dataURL, cameraErr string) (entity.Image, error) {
	if cameraErr != "" {
		return entity.Image{}, fmt.Errorf("%w: %s", entity.ErrCameraAccess, cameraErr)
	}

	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return entity.Image{}, fmt.Errorf("%w: no frame captured", entity.ErrCameraAccess)
	}

	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return entity.Image{}, fmt.Errorf("%w: malformed data url", entity.ErrInvalidFile)
	}

	meta = strings.TrimPrefix(meta, "data:")

	declared, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return entity.Image{}, fmt.Errorf("%w: data url is not base64", entity.ErrInvalidFile)
	}

	// Reject oversized frames before decoding them.
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > v.maxSize+2 {
		return entity.Image{}, fmt.Errorf("%w: frame exceeds %d bytes", entity.ErrFileTooLarge, v.maxSize)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return entity.Image{}, fmt.Errorf("%w: decode frame: %w", entity.ErrInvalidFile, err)
		}
	}

	img, err := v.AcquireFromFile(flow, "captura"+extension(normalizeType(declared)), declared, data)
	if err != nil {
		return entity.Image{}, err
	}

	img.Source = entity.ImageSourceCamera

	return img, nil
}

func normalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}

	if mt, _, err := mime.ParseMediaType(t); err == nil {
		t = mt
	}

	t = strings.ToLower(t)

	if alias, ok := typeAliases[t]; ok {
		return alias
	}

	return t
}

func extension(contentType string) string {
	switch contentType {
	case typeJPEG:
		return ".jpg"
	case typePNG:
		return ".png"
	case typeBMP:
		return ".bmp"
	case typeGIF:
		return ".gif"
	default:
		return ""
	}
}

func validateName(field string, v *string) error {
	if v == nil {
		return nil
	}

	// Names typed on different devices arrive decomposed or composed.
	name := norm.NFC.String(strings.TrimSpace(*v))
	if name == "" {
		return fmt.Errorf("%w: %s no puede estar vacío", entity.ErrInvalidArgument, field)
	}

	if utf8.RuneCountInString(name) > NameMaxLen {
		return fmt.Errorf("%w: %s excede %d caracteres", entity.ErrInvalidArgument, field, NameMaxLen)
	}

	*v = name

	return nil
}

// ValidateProfileUpdate checks the editable profile fields. Role and status
// changes have their own operations and are rejected here.
func ValidateProfileUpdate(upd *entity.ProfileUpdate) error {
	if upd.IsEmpty() {
		return fmt.Errorf("%w: no hay cambios", entity.ErrInvalidArgument)
	}

	if len(upd.Roles) != 0 || upd.Active != nil {
		return fmt.Errorf("%w: roles y estado se cambian con su propia operación", entity.ErrInvalidArgument)
	}

	if err := validateName("nombres", upd.FirstName); err != nil {
		return err
	}

	if err := validateName("apellidos", upd.LastName); err != nil {
		return err
	}

	if upd.Phone != nil && *upd.Phone != "" && !phoneRegexp.MatchString(*upd.Phone) {
		return fmt.Errorf("%w: teléfono con formato incorrecto", entity.ErrInvalidArgument)
	}

	if upd.Address != nil && utf8.RuneCountInString(*upd.Address) > AddressMaxLen {
		return fmt.Errorf("%w: dirección excede %d caracteres", entity.ErrInvalidArgument, AddressMaxLen)
	}

	if upd.UnitID != nil && *upd.UnitID <= 0 {
		return fmt.Errorf("%w: vivienda inválida", entity.ErrInvalidArgument)
	}

	return nil
}

func validateRequestID(requestID string) error {
	if strings.TrimSpace(requestID) == "" {
		return fmt.Errorf("%w: request_id es obligatorio", entity.ErrInvalidArgument)
	}

	if len(requestID) > RequestIDMaxLen {
		return fmt.Errorf("%w: request_id excede %d caracteres", entity.ErrInvalidArgument, RequestIDMaxLen)
	}

	return nil
}

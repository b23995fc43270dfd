package entity

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// SubjectKind selects which backend record type a face belongs to.
type SubjectKind string

const (
	SubjectOwner  SubjectKind = "copropietario"
	SubjectTenant SubjectKind = "inquilino"
)

func (k SubjectKind) IsValid() bool {
	return k == SubjectOwner || k == SubjectTenant
}

// FieldName is the multipart field carrying the subject id.
func (k SubjectKind) FieldName() string {
	return string(k) + "_id"
}

type Subject struct {
	ID   int64       `json:"id"`
	Kind SubjectKind `json:"kind"`
}

func (s Subject) Validate() error {
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: unknown subject kind %q", ErrInvalidArgument, s.Kind)
	}

	if s.ID <= 0 {
		return fmt.Errorf("%w: subject id must be positive", ErrInvalidArgument)
	}

	return nil
}

type ImageSource string

const (
	ImageSourceFile    ImageSource = "file"
	ImageSourceCamera  ImageSource = "camera"
	ImageSourceStaging ImageSource = "staging"
)

// Image is one acquired still image, already validated.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
	Source      ImageSource
}

func (i Image) Size() int {
	return len(i.Data)
}

// Enrollment is the backend's stored reference of a person's face.
type Enrollment struct {
	ID          int64     `json:"id"`
	OwnerID     *int64    `json:"copropietario_id,omitempty"`
	TenantID    *int64    `json:"inquilino_id,omitempty"`
	ImageURLs   []string  `json:"imagenes"`
	EncodedFace string    `json:"encoding,omitempty"`
	EnrolledAt  time.Time `json:"fecha_registro"`
	Active      bool      `json:"activo"`
}

type EnrollmentResult struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message,omitempty"`
	Confidence     *decimal.Decimal `json:"confidence,omitempty"`
	ConfidenceText string           `json:"confidence_text,omitempty"`
	Enrollment     *Enrollment      `json:"enrollment,omitempty"`
}

// EnrollmentStatus is what the backend reports for a person: whether a face
// is enrolled and, if so, its metadata.
type EnrollmentStatus struct {
	Enrolled   bool        `json:"enrolled"`
	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

// ImageInput is an image as received from the caller, before validation. Exactly
// one of Data, DataURL (camera frame) or StagedID is used, chosen by Source.
type ImageInput struct {
	Source      ImageSource
	Name        string
	ContentType string
	Data        []byte
	DataURL     string
	CameraError string
	StagedID    uuid.UUID
}

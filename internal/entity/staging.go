package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// StagedImage is an image parked between the steps of the registration wizard.
type StagedImage struct {
	ID          uuid.UUID `json:"id"`
	RequestID   string    `json:"request_id"`
	ContentType string    `json:"content_type"`
	Checksum    string    `json:"checksum"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s StagedImage) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s StagedImage) Image() Image {
	return Image{
		Name:        s.ID.String(),
		ContentType: s.ContentType,
		Data:        s.Data,
		Source:      ImageSourceStaging,
	}
}

type StagedImageFilter struct {
	RequestID string
	CreatedBy int64
	Limit     uint64
}

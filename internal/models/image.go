package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is the metadata row for one file in the content directory.
// Name is the on-disk filename; after commit it is always "<id>.webp".
type Image struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:255;uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial is one visitor/client quote shown on the site.
type Testimonial struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:128;not null" json:"name"`
	Comment  string    `json:"comment"`
	Position string    `gorm:"size:128" json:"position"`
	Company  string    `gorm:"size:128" json:"company"`
	Img      string    `gorm:"size:255" json:"img"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Detail holds site metadata rendered into the page head and about section.
type Detail struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:128;not null" json:"title"`
	Logo            string    `gorm:"size:255" json:"logo"`
	Keywords        string    `json:"keywords"`
	SiteDescription string    `json:"site_description"`
	Description     string    `json:"description"`
	About           string    `json:"about"`
	Position        string    `gorm:"size:128" json:"position"`
	Company         string    `gorm:"size:128" json:"company"`
	Img             string    `gorm:"size:255" json:"img"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Detail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

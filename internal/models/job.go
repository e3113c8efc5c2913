package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job is one entry of the work-experience section.
type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Company     string    `gorm:"size:128;not null" json:"company"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Date        string    `gorm:"size:64" json:"date"`
	Description string    `json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

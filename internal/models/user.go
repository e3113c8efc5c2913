package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles stored in the users.role column. Every authorization decision
// reads this value from the session or the database, never from the client.
const (
	RoleEditor int16 = 1
	RoleAdmin  int16 = 3
)

// User represents an application user. The password column holds a bcrypt
// hash and is never serialized; API payloads carry an explicit empty
// "password" field instead (see PublicUser).
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:64;not null" json:"username"`
	Password string    `gorm:"size:255;not null" json:"-"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Fullname string    `gorm:"size:128" json:"fullname"`
	Role     int16     `gorm:"not null;default:1" json:"role"`
	Avatar   string    `gorm:"size:255" json:"avatar"`
	Notes    string    `json:"notes"`
	Active   int16     `gorm:"not null;default:1" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicUser is the wire shape of a user. The password field is always the
// empty string; the frontend expects the key to be present.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	Email    string    `json:"email"`
	Fullname string    `json:"fullname"`
	Role     int16     `json:"role"`
	Avatar   string    `json:"avatar"`
	Notes    string    `json:"notes"`
	Active   int16     `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the credential hash for API responses.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Password:  "",
		Email:     u.Email,
		Fullname:  u.Fullname,
		Role:      u.Role,
		Avatar:    u.Avatar,
		Notes:     u.Notes,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

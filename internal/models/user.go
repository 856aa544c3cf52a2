package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal local account record. All wearable data lives on the
// Open Wearables platform; this row only links the Auth0 identity to it.
type User struct {
	ID      uuid.UUID `gorm:"type:uuid;default:(gen_random_uuid());primaryKey" json:"id"`
	Auth0ID string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Email   string    `gorm:"size:255;not null;uniqueIndex" json:"email"`

	// Set exactly once by the registration coordinator, never cleared.
	OpenWearablesUserID *uuid.UUID `gorm:"type:uuid" json:"open_wearables_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsRegistered() bool {
	return u.OpenWearablesUserID != nil
}

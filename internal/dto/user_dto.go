package dto

import (
	"time"

	"github.com/google/uuid"
)

// MeResponse describes the authenticated local user.
type MeResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Auth0ID             string     `json:"auth0_id"`
	Email               string     `json:"email"`
	OpenWearablesUserID *uuid.UUID `json:"open_wearables_user_id"`
	Permissions         []string   `json:"permissions"`
	CreatedAt           time.Time  `json:"created_at"`
}

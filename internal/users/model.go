package users

import (
	"strings"
	"time"
)

// User is the internal identity anchor. ExternalID is the identity provider's
// subject (for Google logins "google:<sub>") and is never used as a foreign key.
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	PictureURL string    `json:"pictureUrl,omitempty"`
	Industry   string    `json:"industry,omitempty"`
	Experience int       `json:"experience"`
	Skills     []string  `json:"skills"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsOnboarded reports whether the user has completed the profile step.
func (u User) IsOnboarded() bool {
	return strings.TrimSpace(u.Industry) != ""
}

// Identity is what the identity provider tells us about a caller at login.
type Identity struct {
	ExternalID string
	Email      string
	FullName   string
	PictureURL string
}

// Profile holds the onboarding fields.
type Profile struct {
	Industry   string
	Experience int
	Skills     []string
	Bio        string
}

// Package models defines the domain records shared by the identity store,
// the content service and the gateway.
package models

import "time"

// BirthDateLayout is the wire and storage format of User.BirthDate.
const BirthDateLayout = "2006-01-02"

// User is an identity record. PasswordHash never leaves the identity store.
type User struct {
	ID           string     `json:"id"`
	UserName     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	BirthDate    *time.Time `json:"-"`
	Phone        *string    `json:"phone"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Identity is what a verified bearer credential resolves to.
type Identity struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfilePatch is a partial profile update. A nil field is left unchanged;
// an empty optional field clears the stored value.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.BirthDate == nil && p.Phone == nil
}

package domain

import "time"

// User is a credential directory record. Password is plaintext-compared on
// login for parity with the demo dataset; it never leaves the directory.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password,omitempty"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Avatar     *string   `json:"avatar"`
}

// Profile is a User with the password stripped. This is the only user shape
// that is persisted or returned to callers.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Avatar     *string   `json:"avatar"`
}

// Profile returns the user without its password.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Phone:      u.Phone,
		CreatedAt:  u.CreatedAt,
		Avatar:     u.Avatar,
	}
}

// ProfileUpdate carries the fields a profile merge may overwrite. Nil fields
// keep their prior value (shallow merge). Email overwrites like any other
// field: the merge does not re-check uniqueness against the roster.
type ProfileUpdate struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Avatar     *string `json:"avatar"`
}

// Apply merges the update into the profile in place.
func (p *ProfileUpdate) Apply(profile *Profile) {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Email != nil {
		profile.Email = *p.Email
	}
	if p.Department != nil {
		profile.Department = *p.Department
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.Avatar != nil {
		profile.Avatar = p.Avatar
	}
}

// ApplyToUser merges the update into a directory record.
func (p *ProfileUpdate) ApplyToUser(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = p.Avatar
	}
}

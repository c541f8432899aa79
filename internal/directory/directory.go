// Package directory holds the in-memory roster of registered users. The
// roster is seeded from a static dataset at startup, lives for the process
// lifetime, and only ever grows: registration appends, profile updates
// merge, nothing is deleted.
package directory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/finn/cloudcost-dashboard/internal/domain"
)

//go:embed seed_users.json
var seedData []byte

// Directory is the credential roster.
type Directory struct {
	mu    sync.RWMutex
	users []*domain.User
}

// New creates a directory holding the given users.
func New(users []*domain.User) *Directory {
	return &Directory{users: users}
}

// Seed creates a directory populated with the embedded demo accounts.
func Seed() (*Directory, error) {
	var data struct {
		Users []*domain.User `json:"users"`
	}
	if err := json.Unmarshal(seedData, &data); err != nil {
		return nil, fmt.Errorf("parse seed users: %w", err)
	}
	return New(data.Users), nil
}

// FindByEmail returns the user registered under email, or nil. The match is
// byte-exact: lookups are case-sensitive even though role comparisons
// elsewhere fold case.
func (d *Directory) FindByEmail(email string) *domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email {
			return copyUser(u)
		}
	}
	return nil
}

// FindByID returns the user with the given id, or nil.
func (d *Directory) FindByID(id string) *domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return copyUser(u)
		}
	}
	return nil
}

// Add appends a user to the roster.
func (d *Directory) Add(u *domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, copyUser(u))
}

// Update merges the given fields into the user with the matching id and
// reports whether such a user existed.
func (d *Directory) Update(id string, update *domain.ProfileUpdate) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == id {
			update.ApplyToUser(u)
			return true
		}
	}
	return false
}

// SetPassword replaces the stored password for the user with the matching
// id and reports whether such a user existed.
func (d *Directory) SetPassword(id, password string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == id {
			u.Password = password
			return true
		}
	}
	return false
}

// Profiles returns every user as a password-free profile, in roster order.
func (d *Directory) Profiles() []*domain.Profile {
	d.mu.RLock()
	defer d.mu.RUnlock()
	profiles := make([]*domain.Profile, 0, len(d.users))
	for _, u := range d.users {
		profiles = append(profiles, u.Profile())
	}
	return profiles
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

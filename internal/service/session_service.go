package service

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/finn/cloudcost-dashboard/internal/directory"
	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/finn/cloudcost-dashboard/internal/store"
	"github.com/finn/cloudcost-dashboard/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrStorageFailure     = errors.New("storage failure")
)

// Storage keys owned exclusively by the session service. No other component
// reads or writes them directly.
const (
	TokenKey   = "auth_token"
	ProfileKey = "user_data"
)

// State is the session lifecycle state. Unknown lasts until the first
// CheckSession resolves the persisted token.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

// SessionService orchestrates login, registration, logout and session
// queries. It owns the token/profile pair in the store: the two keys are
// written together and removed together.
type SessionService struct {
	mu        sync.Mutex
	directory *directory.Directory
	store     store.Store
	codec     *token.Codec
	now       func() time.Time

	state   State
	profile *domain.Profile
}

// NewSessionService creates a session service over the given roster, store
// and token codec.
func NewSessionService(dir *directory.Directory, st store.Store, codec *token.Codec) *SessionService {
	return &SessionService{
		directory: dir,
		store:     st,
		codec:     codec,
		now:       time.Now,
		state:     StateUnknown,
	}
}

// RegisterInput is the data accepted for a new account.
type RegisterInput struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
	Phone      string      `json:"phone"`
}

// AuthResult pairs the established profile with the issued token.
type AuthResult struct {
	Profile *domain.Profile
	Token   string
}

// CheckSession resolves the persisted session. The first call settles the
// Unknown state exactly once by reading the store; later calls answer from
// memory. It returns the authenticated profile, or nil when anonymous.
// A cached profile whose token is missing, malformed or expired is stale:
// both keys are removed and the session is anonymous.
func (s *SessionService) CheckSession() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolve()
	return s.profile
}

// State reports the current session state without touching the store.
func (s *SessionService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// resolve settles StateUnknown from the store. Callers hold s.mu.
func (s *SessionService) resolve() {
	if s.state != StateUnknown {
		return
	}

	var tok string
	if !s.store.Get(TokenKey, &tok) {
		s.teardown()
		return
	}

	claims := s.codec.Decode(tok)
	if claims == nil {
		s.teardown()
		return
	}

	var profile domain.Profile
	if !s.store.Get(ProfileKey, &profile) || profile.ID != claims.ID {
		s.teardown()
		return
	}

	s.state = StateAuthenticated
	s.profile = &profile
}

// Login authenticates against the credential directory. The lookup requires
// an exact email and password match; a miss on either yields the same
// ErrInvalidCredentials so callers cannot tell which emails exist.
func (s *SessionService) Login(email, password string) (*AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolve()

	user := s.directory.FindByEmail(email)
	if user == nil || user.Password != password {
		return nil, ErrInvalidCredentials
	}

	return s.establish(user)
}

// Register creates a new account and signs it in. The email collision check
// is exact-match, like the login lookup.
func (s *SessionService) Register(input RegisterInput) (*AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolve()

	if s.directory.FindByEmail(input.Email) != nil {
		return nil, ErrEmailTaken
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		ID:         nextUserID(s.now()),
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		Role:       role,
		Department: input.Department,
		Phone:      input.Phone,
		CreatedAt:  s.now(),
	}

	result, err := s.establish(user)
	if err != nil {
		return nil, err
	}

	s.directory.Add(user)
	return result, nil
}

// Logout removes both storage keys unconditionally and leaves the session
// anonymous. Calling it while already anonymous is a no-op success.
func (s *SessionService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown()
}

// UpdateProfile shallow-merges the given fields into the cached profile and
// the matching directory entry, then rewrites only the profile key. The
// token keeps its original expiry.
func (s *SessionService) UpdateProfile(update *domain.ProfileUpdate) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolve()

	if s.state != StateAuthenticated {
		return nil, ErrNotAuthenticated
	}

	merged := *s.profile
	update.Apply(&merged)

	if !s.store.Set(ProfileKey, &merged) {
		return nil, ErrStorageFailure
	}

	s.directory.Update(merged.ID, update)
	s.profile = &merged
	return s.profile, nil
}

// ChangePassword swaps the directory password after verifying the current
// one. The stored session pair is untouched.
func (s *SessionService) ChangePassword(current, updated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolve()

	if s.state != StateAuthenticated {
		return ErrNotAuthenticated
	}

	user := s.directory.FindByID(s.profile.ID)
	if user == nil || user.Password != current {
		return ErrInvalidCredentials
	}

	s.directory.SetPassword(user.ID, updated)
	return nil
}

// ProfileForToken validates a presented token against the stored session
// pair without mutating session state. It returns nil unless the token
// decodes and the cached profile belongs to the same user.
func (s *SessionService) ProfileForToken(tok string) *domain.Profile {
	claims := s.codec.Decode(tok)
	if claims == nil {
		return nil
	}

	var profile domain.Profile
	if !s.store.Get(ProfileKey, &profile) || profile.ID != claims.ID {
		return nil
	}

	return &profile
}

// establish issues a token and writes the token/profile pair. The pair is
// all-or-nothing: if the profile write fails the prior token value (present
// or absent) is put back, so an already-authenticated session survives a
// failed re-login untouched. Callers hold s.mu.
func (s *SessionService) establish(user *domain.User) (*AuthResult, error) {
	tok := s.codec.Issue(user)
	profile := user.Profile()

	var prevToken string
	hadToken := s.store.Get(TokenKey, &prevToken)

	if !s.store.Set(TokenKey, tok) {
		return nil, ErrStorageFailure
	}
	if !s.store.Set(ProfileKey, profile) {
		if hadToken {
			s.store.Set(TokenKey, prevToken)
		} else {
			s.store.Remove(TokenKey)
		}
		return nil, ErrStorageFailure
	}

	s.state = StateAuthenticated
	s.profile = profile
	return &AuthResult{Profile: profile, Token: tok}, nil
}

// teardown removes both keys and settles the session as anonymous. Callers
// hold s.mu.
func (s *SessionService) teardown() {
	s.store.Remove(TokenKey)
	s.store.Remove(ProfileKey)
	s.state = StateAnonymous
	s.profile = nil
}

// lastIssuedID makes time-based ids process-unique even when two
// registrations land in the same millisecond.
var lastIssuedID atomic.Int64

func nextUserID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		last := lastIssuedID.Load()
		if ms <= last {
			ms = last + 1
		}
		if lastIssuedID.CompareAndSwap(last, ms) {
			return fmt.Sprintf("user_%d", ms)
		}
	}
}

package service

import (
	"github.com/finn/cloudcost-dashboard/internal/config"
	"github.com/finn/cloudcost-dashboard/internal/directory"
	"github.com/finn/cloudcost-dashboard/internal/store"
	"github.com/finn/cloudcost-dashboard/internal/token"
)

// Services holds all service instances.
type Services struct {
	Session  *SessionService
	Provider *ProviderService
}

// NewServices wires the service layer over the given roster and store.
func NewServices(dir *directory.Directory, st store.Store, cfg *config.Config) (*Services, error) {
	provider, err := NewProviderService(cfg.ProviderDelay)
	if err != nil {
		return nil, err
	}

	return &Services{
		Session:  NewSessionService(dir, st, token.New(cfg.SessionTTL)),
		Provider: provider,
	}, nil
}

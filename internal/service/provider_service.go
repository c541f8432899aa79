package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrUnknownSection  = errors.New("unknown section")
	ErrRequestNotFound = errors.New("budget request not found")
)

//go:embed data/api.json
var providerData []byte

// ProviderService serves the canned dashboard payloads and the budget
// request queue. Payloads are read-only; the queue mutates in memory only.
// An optional delay simulates network latency the way the original mock
// layer did.
type ProviderService struct {
	delay    time.Duration
	sections map[string]json.RawMessage

	mu       sync.RWMutex
	requests []*domain.BudgetRequest
}

// NewProviderService loads the embedded dataset. delay is applied to every
// call; pass 0 to disable (tests do).
func NewProviderService(delay time.Duration) (*ProviderService, error) {
	var data struct {
		Sections       map[string]json.RawMessage `json:"sections"`
		BudgetRequests []*domain.BudgetRequest    `json:"budgetRequests"`
	}
	if err := json.Unmarshal(providerData, &data); err != nil {
		return nil, fmt.Errorf("parse provider dataset: %w", err)
	}

	return &ProviderService{
		delay:    delay,
		sections: data.Sections,
		requests: data.BudgetRequests,
	}, nil
}

// Section returns the canned payload for a dashboard section.
func (p *ProviderService) Section(ctx context.Context, name string) (json.RawMessage, error) {
	if err := p.simulate(ctx); err != nil {
		return nil, err
	}

	payload, ok := p.sections[name]
	if !ok {
		return nil, ErrUnknownSection
	}
	return payload, nil
}

// SectionNames returns the available section names.
func (p *ProviderService) SectionNames() []string {
	names := make([]string, 0, len(p.sections))
	for name := range p.sections {
		names = append(names, name)
	}
	return names
}

// BudgetRequests returns the current queue, newest first ordering as seeded.
func (p *ProviderService) BudgetRequests(ctx context.Context) ([]*domain.BudgetRequest, error) {
	if err := p.simulate(ctx); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*domain.BudgetRequest, len(p.requests))
	for i, r := range p.requests {
		c := *r
		out[i] = &c
	}
	return out, nil
}

// ApproveBudgetRequest marks the request approved and echoes it back.
func (p *ProviderService) ApproveBudgetRequest(ctx context.Context, id string) (*domain.BudgetRequest, error) {
	return p.setStatus(ctx, id, domain.BudgetApproved)
}

// RejectBudgetRequest marks the request rejected and echoes it back.
func (p *ProviderService) RejectBudgetRequest(ctx context.Context, id string) (*domain.BudgetRequest, error) {
	return p.setStatus(ctx, id, domain.BudgetRejected)
}

// BudgetRequestInput is the data accepted for a new budget request.
type BudgetRequestInput struct {
	Department string  `json:"department"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
}

// CreateBudgetRequest appends a pending request to the queue.
func (p *ProviderService) CreateBudgetRequest(ctx context.Context, requestedBy string, input BudgetRequestInput) (*domain.BudgetRequest, error) {
	if err := p.simulate(ctx); err != nil {
		return nil, err
	}

	req := &domain.BudgetRequest{
		ID:          "br_" + uuid.NewString(),
		Department:  input.Department,
		Amount:      input.Amount,
		Reason:      input.Reason,
		Status:      domain.BudgetPending,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now(),
	}

	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	c := *req
	return &c, nil
}

func (p *ProviderService) setStatus(ctx context.Context, id string, status domain.BudgetRequestStatus) (*domain.BudgetRequest, error) {
	if err := p.simulate(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.requests {
		if r.ID == id {
			r.Status = status
			c := *r
			return &c, nil
		}
	}
	return nil, ErrRequestNotFound
}

// simulate waits out the configured latency, bailing early if the caller
// gives up.
func (p *ProviderService) simulate(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(p.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

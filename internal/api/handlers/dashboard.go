package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/finn/cloudcost-dashboard/internal/api/middleware"
	"github.com/finn/cloudcost-dashboard/internal/directory"
	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/finn/cloudcost-dashboard/internal/service"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	provider *service.ProviderService
	roster   *directory.Directory
}

func NewDashboardHandler(provider *service.ProviderService, roster *directory.Directory) *DashboardHandler {
	return &DashboardHandler{provider: provider, roster: roster}
}

// Section serves the canned payload for one dashboard section.
func (h *DashboardHandler) Section(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	payload, err := h.provider.Section(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSection) {
			http.Error(w, "Unknown section", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [dashboard.Section] %q: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (h *DashboardHandler) ListBudgetRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.provider.BudgetRequests(r.Context())
	if err != nil {
		log.Printf("ERROR [dashboard.ListBudgetRequests] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, requests)
}

func (h *DashboardHandler) CreateBudgetRequest(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfile(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req service.BudgetRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Department == "" || req.Amount <= 0 {
		http.Error(w, "Department and a positive amount are required", http.StatusBadRequest)
		return
	}

	created, err := h.provider.CreateBudgetRequest(r.Context(), profile.ID, req)
	if err != nil {
		log.Printf("ERROR [dashboard.CreateBudgetRequest] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created)
}

func (h *DashboardHandler) ApproveBudgetRequest(w http.ResponseWriter, r *http.Request) {
	h.reviewBudgetRequest(w, r, h.provider.ApproveBudgetRequest)
}

func (h *DashboardHandler) RejectBudgetRequest(w http.ResponseWriter, r *http.Request) {
	h.reviewBudgetRequest(w, r, h.provider.RejectBudgetRequest)
}

func (h *DashboardHandler) reviewBudgetRequest(
	w http.ResponseWriter,
	r *http.Request,
	review func(ctx context.Context, id string) (*domain.BudgetRequest, error),
) {
	id := chi.URLParam(r, "id")

	updated, err := review(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			http.Error(w, "Budget request not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [dashboard.reviewBudgetRequest] %q: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated)
}

// Users lists every registered profile. Behind the admin allow-list guard.
func (h *DashboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.roster.Profiles())
}

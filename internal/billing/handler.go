package billing

import (
	"encoding/json"
	"net/http"

	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/auth"
	"github.com/bothost-dev/backend/internal/models"
	"github.com/bothost-dev/backend/internal/store"
)

// Handler holds billing HTTP handlers. No real payment happens anywhere
// here; upgrades just flip the plan field.
type Handler struct {
	users     store.UserStore
	resources store.ResourceStore
}

func NewHandler(users store.UserStore, resources store.ResourceStore) *Handler {
	return &Handler{users: users, resources: resources}
}

// infoResponse is the plan/usage snapshot for the billing tab.
type infoResponse struct {
	Plan        string       `json:"plan"`
	Coins       int          `json:"coins"`
	ServersUsed int          `json:"servers_used"`
	ServerLimit int          `json:"server_limit"`
	Specs       models.Specs `json:"specs"`
}

// Info returns the caller's plan and usage snapshot.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	count, err := h.resources.CountServersByOwner(r.Context(), user.ID)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, infoResponse{
		Plan:        user.Plan,
		Coins:       user.Coins,
		ServersUsed: count,
		ServerLimit: user.ServerLimit(),
		Specs:       models.SpecsFor(user.Plan),
	})
}

// Upgrade moves the account to a paid plan.
func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	var req models.UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.Plan != models.PlanPremium && req.Plan != models.PlanEnterprise {
		api.Error(w, apperr.Validation("plan must be premium or enterprise"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	user.Plan = req.Plan
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

package hosting

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/auth"
	"github.com/bothost-dev/backend/internal/models"
	"github.com/bothost-dev/backend/internal/store"
)

// Handler holds server and database HTTP handlers.
type Handler struct {
	users     store.UserStore
	resources store.ResourceStore
	lifecycle *Lifecycle
}

func NewHandler(users store.UserStore, resources store.ResourceStore, lifecycle *Lifecycle) *Handler {
	return &Handler{users: users, resources: resources, lifecycle: lifecycle}
}

// ListServers returns the caller's servers.
func (h *Handler) ListServers(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	servers, err := h.resources.ListServersByOwner(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	if servers == nil {
		servers = []models.Server{}
	}
	api.JSON(w, http.StatusOK, map[string][]models.Server{"servers": servers})
}

// ListDatabases returns the caller's databases. There is no creation path
// yet, so the collection stays empty for every user.
func (h *Handler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	databases, err := h.resources.ListDatabasesByOwner(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	if databases == nil {
		databases = []models.Database{}
	}
	api.JSON(w, http.StatusOK, map[string][]models.Database{"databases": databases})
}

// CreateServer provisions a new server within the caller's plan quota.
func (h *Handler) CreateServer(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	var req models.CreateServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, apperr.Validation("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		api.Error(w, apperr.Validation("server name is required"))
		return
	}
	if req.Type == "" {
		api.Error(w, apperr.Validation("server type is required"))
		return
	}
	if !models.ValidServerType(req.Type) {
		api.Error(w, apperr.Validation("unknown server type %q", req.Type))
		return
	}

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
	if count >= user.ServerLimit() {
		api.Error(w, apperr.Quota("server limit reached for %s plan (%d)", user.Plan, user.ServerLimit()))
		return
	}

	// Specs come from the requested resource tier when it names one,
	// otherwise from the account's plan.
	tier := user.Plan
	if models.ValidPlan(req.Resources) {
		tier = req.Resources
	}

	srv := &models.Server{
		ID:        uuid.New().String(),
		OwnerID:   user.ID,
		Name:      req.Name,
		Type:      req.Type,
		Status:    models.StatusOffline,
		Runtime:   req.Runtime,
		Region:    req.Region,
		Specs:     models.SpecsFor(tier),
		CreatedAt: time.Now(),
	}
	if err := h.resources.InsertServer(r.Context(), srv); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]*models.Server{"server": srv})
}

// Transition returns a handler applying the given lifecycle action to the
// server in the URL. The response carries the transient status; the settle
// happens after the configured delay.
func (h *Handler) Transition(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.ClaimsFrom(r.Context())
		id := chi.URLParam(r, "id")

		srv, err := h.lifecycle.Transition(r.Context(), id, claims.UserID, action)
		if err != nil {
			api.Error(w, err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("server %s is %s", srv.Name, srv.Status),
			"status":  srv.Status,
		})
	}
}

// DeleteServer removes the server regardless of its current status.
func (h *Handler) DeleteServer(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.resources.DeleteServer(r.Context(), id, claims.UserID); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "server deleted"})
}

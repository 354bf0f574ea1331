package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bothost-dev/backend/internal/auth"
	"github.com/bothost-dev/backend/internal/models"
	"github.com/bothost-dev/backend/internal/store"
)

func seed(t *testing.T) (*store.MemoryStore, *Handler, *auth.Claims) {
	t.Helper()
	mem := store.NewMemoryStore()
	u := &models.User{
		ID:        "u1",
		Username:  "ana",
		Email:     "ana@x.com",
		Plan:      models.PlanFree,
		Coins:     100,
		CreatedAt: time.Now(),
	}
	require.NoError(t, mem.CreateUser(context.Background(), u))
	claims := &auth.Claims{UserID: u.ID, Username: u.Username, Email: u.Email}
	return mem, NewHandler(mem, mem), claims
}

func withClaims(req *http.Request, claims *auth.Claims) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func TestInfo(t *testing.T) {
	t.Parallel()
	mem, h, claims := seed(t)
	require.NoError(t, mem.InsertServer(context.Background(), &models.Server{
		ID: "s1", OwnerID: "u1", Name: "bot", Type: models.TypeDiscordBot,
		Status: models.StatusOffline, CreatedAt: time.Now(),
	}))

	rec := httptest.NewRecorder()
	h.Info(rec, withClaims(httptest.NewRequest(http.MethodGet, "/api/billing/info", nil), claims))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp infoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.PlanFree, resp.Plan)
	require.Equal(t, 100, resp.Coins)
	require.Equal(t, 1, resp.ServersUsed)
	require.Equal(t, 3, resp.ServerLimit)
	require.Equal(t, "512MB", resp.Specs.RAM)
}

func TestUpgrade(t *testing.T) {
	t.Parallel()
	mem, h, claims := seed(t)

	rec := httptest.NewRecorder()
	h.Upgrade(rec, withClaims(httptest.NewRequest(http.MethodPost, "/api/billing/upgrade",
		strings.NewReader(`{"plan":"premium"}`)), claims))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := mem.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, models.PlanPremium, stored.Plan)
	require.Equal(t, 10, stored.ServerLimit())
}

func TestUpgrade_InvalidPlan(t *testing.T) {
	t.Parallel()
	_, h, claims := seed(t)

	for _, plan := range []string{"free", "gold", ""} {
		rec := httptest.NewRecorder()
		h.Upgrade(rec, withClaims(httptest.NewRequest(http.MethodPost, "/api/billing/upgrade",
			strings.NewReader(`{"plan":"`+plan+`"}`)), claims))
		require.Equal(t, http.StatusBadRequest, rec.Code, "plan %q", plan)
	}
}

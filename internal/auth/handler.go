package auth

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
	"github.com/bothost-dev/backend/internal/store"
)

const signupCoins = 100

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users     store.UserStore
	resources store.ResourceStore
	tokens    *TokenIssuer
}

func NewHandler(users store.UserStore, resources store.ResourceStore, tokens *TokenIssuer) *Handler {
	return &Handler{users: users, resources: resources, tokens: tokens}
}

// tokenResponse is the body returned by signup and login.
type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup creates a new account on the free plan with a starter coin balance
// and one pre-provisioned offline server.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if err := validateSignup(&req); err != nil {
		api.Error(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.Error(w, err)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashed),
		Plan:      models.PlanFree,
		Coins:     signupCoins,
		Avatar:    avatarURL(req.Username),
		CreatedAt: now,
		LastLogin: now,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		api.Error(w, err)
		return
	}

	// Every fresh account gets a starter server to land on in the dashboard.
	starter := &models.Server{
		ID:        uuid.New().String(),
		OwnerID:   user.ID,
		Name:      "My Discord Bot",
		Type:      models.TypeDiscordBot,
		Status:    models.StatusOffline,
		Runtime:   "node.js",
		Region:    "us-east",
		Specs:     models.SpecsFor(user.Plan),
		CreatedAt: now,
	}
	if err := h.resources.InsertServer(r.Context(), starter); err != nil {
		log.Printf("starter server insert failed for %s: %v", user.Username, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// Login authenticates by username or email and issues a fresh token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		api.Error(w, apperr.Validation("email and password are required"))
		return
	}

	user, err := h.users.GetUserByIdentifier(r.Context(), req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			err = apperr.Auth("invalid credentials")
		}
		api.Error(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		api.Error(w, apperr.Auth("invalid credentials"))
		return
	}

	user.LastLogin = time.Now()
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		log.Printf("last-login update failed for %s: %v", user.Username, err)
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// Verify returns the account behind a valid bearer token.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		api.Error(w, apperr.Auth("not authenticated"))
		return
	}
	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// Logout acknowledges the request and, when a revocation set is wired,
// invalidates the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := ClaimsFrom(r.Context()); ok {
		if err := h.tokens.Revoke(r.Context(), claims); err != nil {
			log.Printf("token revoke failed: %v", err)
		}
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Forgot always acknowledges so the response never reveals whether an
// account exists. No mail is sent in this demo.
func (h *Handler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.Email == "" {
		api.Error(w, apperr.Validation("email is required"))
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{
		"message": "if that email exists, a reset link has been sent",
	})
}

func validateSignup(req *models.SignupRequest) error {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 50 {
		return apperr.Validation("username must be between 3 and 50 characters")
	}
	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		return apperr.Validation("invalid email address")
	}
	if len(req.Password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}
	return nil
}

func avatarURL(username string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", url.QueryEscape(username))
}

package account

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/auth"
	"github.com/bothost-dev/backend/internal/models"
	"github.com/bothost-dev/backend/internal/store"
)

const maxAvatarBytes = 2 << 20 // 2 MiB

// AvatarStore defines the interface for avatar object storage.
type AvatarStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

// Handler holds profile and settings HTTP handlers. avatars may be nil,
// which disables uploads.
type Handler struct {
	users   store.UserStore
	avatars AvatarStore
}

func NewHandler(users store.UserStore, avatars AvatarStore) *Handler {
	return &Handler{users: users, avatars: avatars}
}

// Profile returns the current account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// UpdateSettings shallow-merges the request body into the stored settings
// map: keys present in the body overwrite, everything else is retained.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.Error(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	if user.Settings == nil {
		user.Settings = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		user.Settings[k] = v
	}
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{"settings": user.Settings})
}

// UploadAvatar stores the uploaded image and points the account's avatar
// URL at it. Answers 503 when no object storage is configured.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		api.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "avatar uploads are disabled"})
		return
	}
	claims, _ := auth.ClaimsFrom(r.Context())

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		api.Error(w, apperr.Validation("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		api.Error(w, apperr.Validation("avatar file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		api.Error(w, err)
		return
	}

	var ext string
	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpg"
	default:
		api.Error(w, apperr.Validation("avatar must be a PNG or JPEG image"))
		return
	}

	key := fmt.Sprintf("%s/avatar.%s", claims.UserID, ext)
	if err := h.avatars.Upload(r.Context(), key, data, contentType); err != nil {
		api.Error(w, err)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	user.Avatar = h.avatars.URL(key)
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"avatar": user.Avatar})
}

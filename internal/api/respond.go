// Package api holds the JSON response helpers shared by every handler.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/bothost-dev/backend/internal/apperr"
)

var exposeInternal atomic.Bool

// ExposeInternalErrors controls whether unexpected error messages are sent
// to clients. Enabled in development, off everywhere else.
func ExposeInternalErrors(on bool) {
	exposeInternal.Store(on)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error maps err to its HTTP status and writes a {"error": ...} body.
// Unclassified errors become 500 with the message suppressed unless
// ExposeInternalErrors is on.
func Error(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("internal error: %v", err)
		if !exposeInternal.Load() {
			msg = "internal server error"
		}
	}
	JSON(w, status, map[string]string{"error": msg})
}

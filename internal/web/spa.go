// Package web serves the static front-end with SPA-style routing: real
// files get cache headers, unmatched file-like paths answer 404 JSON, and
// every other unmatched path falls back to the entry document.
package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/apperr"
)

// SPA returns the fallback handler for routes no API endpoint matched.
// With an empty staticDir the front-end is not hosted here and everything
// unmatched is a plain 404.
func SPA(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if staticDir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			api.Error(w, apperr.NotFound("not found"))
			return
		}

		rel := path.Clean("/" + r.URL.Path)
		name := filepath.Join(staticDir, filepath.FromSlash(rel))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			setCacheHeaders(w, name)
			http.ServeFile(w, r, name)
			return
		}

		// File-like paths that don't exist are real 404s, not SPA routes.
		if strings.Contains(path.Base(rel), ".") {
			api.Error(w, apperr.NotFound("file not found"))
			return
		}

		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			api.Error(w, apperr.NotFound("not found"))
			return
		}
		setCacheHeaders(w, index)
		http.ServeFile(w, r, index)
	}
}

func setCacheHeaders(w http.ResponseWriter, name string) {
	switch filepath.Ext(name) {
	case ".js", ".css":
		w.Header().Set("Cache-Control", "public, max-age=31536000")
	case ".html":
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
	}
}

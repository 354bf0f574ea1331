package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func staticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('hi')"), 0o644))
	return dir
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSPA_ServesFilesWithCacheHeaders(t *testing.T) {
	t.Parallel()
	h := SPA(staticDir(t))

	rec := get(h, "/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))

	rec = get(h, "/index.html")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestSPA_FallsBackToIndexForClientRoutes(t *testing.T) {
	t.Parallel()
	h := SPA(staticDir(t))

	for _, route := range []string{"/dashboard", "/settings", "/billing"} {
		rec := get(h, route)
		require.Equal(t, http.StatusOK, rec.Code, route)
		require.Contains(t, rec.Body.String(), "app")
	}
}

func TestSPA_MissingFileIs404JSON(t *testing.T) {
	t.Parallel()
	h := SPA(staticDir(t))

	rec := get(h, "/missing.png")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestSPA_NoStaticDir(t *testing.T) {
	t.Parallel()
	h := SPA("")

	rec := get(h, "/dashboard")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestSPA_NoTraversal(t *testing.T) {
	t.Parallel()
	h := SPA(staticDir(t))

	rec := get(h, "/../../etc/passwd")
	require.NotEqual(t, http.StatusOK, rec.Code)
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("taken"), http.StatusConflict},
		{Auth("nope"), http.StatusUnauthorized},
		{NotFound("gone"), http.StatusNotFound},
		{Quota("limit"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("store: %w", NotFound("server not found"))
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, http.StatusNotFound, HTTPStatus(err))

	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestMessageFormatting(t *testing.T) {
	t.Parallel()
	err := Quota("server limit reached for %s plan (%d)", "free", 3)
	require.EqualError(t, err, "server limit reached for free plan (3)")
}

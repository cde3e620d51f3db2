package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(a *Authenticator) http.Handler {
	return a.WithAuth(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := SubjectFromContext(r.Context())
		_, _ = w.Write([]byte(sub))
	})))
}

func TestRequireAuth(t *testing.T) {
	a := NewAuthenticator("test-secret")
	tok, err := a.SignToken("alice", RoleRecruiter, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			protected(a).ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "alice", rr.Body.String())
			}
		})
	}
}

func TestRequireAuthRejectsOtherSecretRoleAndExpiry(t *testing.T) {
	a := NewAuthenticator("test-secret")

	other, err := NewAuthenticator("other").SignToken("bob", RoleRecruiter, time.Hour)
	require.NoError(t, err)
	candidate, err := a.SignToken("bob", "candidate", time.Hour)
	require.NoError(t, err)
	expired, err := a.SignToken("bob", RoleRecruiter, -time.Minute)
	require.NoError(t, err)

	for tok, want := range map[string]int{other: 401, candidate: 403, expired: 401} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		protected(a).ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code)
	}

	_, err = a.SignToken(" ", RoleRecruiter, time.Hour)
	assert.Error(t, err)
}

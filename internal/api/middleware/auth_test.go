package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
)

type stubResolver map[string]*auth.Identity

func (s stubResolver) ResolveToken(token string) (*auth.Identity, error) {
	if identity, ok := s[token]; ok {
		return identity, nil
	}
	return nil, auth.ErrInvalidToken
}

var ann = &auth.Identity{PlayerID: model.PlayerID("p_ann"), Username: "ann"}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	if identity := GetIdentity(r.Context()); identity != nil {
		_, _ = w.Write([]byte(identity.PlayerID))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func TestAuth(t *testing.T) {
	handler := Auth(stubResolver{"good": ann})(http.HandlerFunc(echoIdentity))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK, body: "p_ann"},
		{name: "missing token", header: "", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	handler := OptionalAuth(stubResolver{"good": ann})(http.HandlerFunc(echoIdentity))

	for header, want := range map[string]string{
		"Bearer good": "p_ann",
		"Bearer bad":  "anonymous",
		"":            "anonymous",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, rr.Body.String(), "header %q", header)
	}
}

func TestMustGetIdentityPanicsWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Panics(t, func() { MustGetIdentity(req.Context()) })
	assert.Same(t, ann, MustGetIdentity(WithIdentity(req.Context(), ann)))
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/taskboard/internal/auth"
	"github.com/GoSim-25-26J-441/taskboard/internal/auth/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return u, nil
}

type stubExternal struct {
	got []domain.ExternalUser
	err error
}

func (s *stubExternal) EnsureExternal(_ context.Context, ext domain.ExternalUser) (*domain.User, error) {
	s.got = append(s.got, ext)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: "id-" + ext.UID, Email: ext.Email}, nil
}

type stubVerifier struct {
	tokens map[string]*fbauth.Token
}

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	tok, ok := s.tokens[idToken]
	if !ok {
		return nil, errors.New("token expired")
	}
	return tok, nil
}

func serve(mw gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": auth.UserID(c)})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAuth(t *testing.T) {
	authn := stubAuthenticator{users: map[string]*domain.User{"good": {ID: "u1"}}}

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := serve(SessionAuth(authn), req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"u1"}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "good"})
		w := serve(SessionAuth(authn), req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(SessionAuth(authn), httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing authorization token")
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer stale")
		w := serve(SessionAuth(authn), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfirmed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := serve(SessionAuth(stubAuthenticator{err: domain.ErrUnconfirmed}), req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := serve(SessionAuth(stubAuthenticator{err: errors.New("redis down")}), req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]*fbauth.Token{
		"valid": {UID: "fb-1", Claims: map[string]interface{}{"email": "a@example.com", "name": "Ada"}},
	}}

	t.Run("valid token upserts user", func(t *testing.T) {
		users := &stubExternal{}
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer valid")
		w := serve(FirebaseAuthMiddleware(verifier, users), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"id-fb-1"}`, w.Body.String())
		require.Len(t, users.got, 1)
		assert.Equal(t, domain.ExternalUser{UID: "fb-1", Email: "a@example.com", DisplayName: "Ada"}, users.got[0])
	})

	t.Run("invalid token", func(t *testing.T) {
		users := &stubExternal{}
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer forged")
		w := serve(FirebaseAuthMiddleware(verifier, users), req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, users.got)
	})

	t.Run("sync failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer valid")
		w := serve(FirebaseAuthMiddleware(verifier, &stubExternal{err: errors.New("db down")}), req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHeaderAuth(t *testing.T) {
	users := &stubExternal{}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(UserIDHeader, "alice")
	w := serve(HeaderAuth(users), req)
	assert.JSONEq(t, `{"user_id":"id-alice"}`, w.Body.String())

	w = serve(HeaderAuth(users), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.JSONEq(t, `{"user_id":"id-demo-user"}`, w.Body.String())

	require.Len(t, users.got, 2)
	assert.Equal(t, DefaultUserID, users.got[1].UID)
}

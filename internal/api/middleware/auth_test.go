package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/repository"
	apperrors "github.com/freshmart/checkoutapi/pkg/errors"
)

type fakeSessionRepo struct {
	session *domain.Session
	err     error
}

func (f fakeSessionRepo) GetByAPIKey(_ context.Context, _ string) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f fakeSessionRepo) Create(_ context.Context, _ *domain.Session) error {
	return nil
}

func authRouter(repo fakeSessionRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{Session: repo}

	router := gin.New()
	router.Use(AuthMiddleware(repos, zap.NewNop()))
	router.GET("/protected", func(c *gin.Context) {
		session, ok := GetSessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": session.UserName})
	})
	return router
}

func assertRedirectsHome(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		RedirectTo string `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/", resp.RedirectTo)
}

func TestAuthMiddleware_MissingHeaderRedirectsHome(t *testing.T) {
	router := authRouter(fakeSessionRepo{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assertRedirectsHome(t, w)
}

func TestAuthMiddleware_InvalidKeyRedirectsHome(t *testing.T) {
	router := authRouter(fakeSessionRepo{err: &apperrors.ErrUnauthorized{Message: "invalid session key"}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assertRedirectsHome(t, w)
}

func TestAuthMiddleware_ValidKeyExposesSession(t *testing.T) {
	session := &domain.Session{ID: uuid.New(), UserName: "Jane Shopper", IsActive: true}
	router := authRouter(fakeSessionRepo{session: session})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer session-key-12345")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Shopper")
}

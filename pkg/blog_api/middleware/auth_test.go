package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/database"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/middleware"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Create(&models.User{Id: "alice", Username: "alice", Email: "alice@example.com"}).Error)

	g := gin.New()
	g.GET("/whoami", middleware.RequireUser(repositories.NewUserRepository(db)), func(c *gin.Context) {
		user, err := middleware.CurrentUser(c)
		require.NoError(t, err)
		c.String(http.StatusOK, user.Id)
	})
	return g
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	require.NoError(t, err)
	return token
}

func get(g *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestRequireUser_EmailClaim(t *testing.T) {
	g := newAuthRouter(t)

	w := get(g, "Bearer "+signToken(t, jwt.MapClaims{"email": "alice@example.com"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestRequireUser_SubFallback(t *testing.T) {
	g := newAuthRouter(t)

	// No email claim; an address-shaped subject still resolves the account.
	w := get(g, "Bearer "+signToken(t, jwt.MapClaims{"sub": "alice@example.com"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(g, "Bearer "+signToken(t, jwt.MapClaims{"sub": "not-an-address"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_Rejections(t *testing.T) {
	g := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(g, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(g, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(g, "Bearer not.a.jwt").Code)

	w := get(g, "Bearer "+signToken(t, jwt.MapClaims{"email": "ghost@example.com"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
}

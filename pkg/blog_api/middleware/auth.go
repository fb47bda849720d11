package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	problem "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/helpers/problem"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
)

const userContextKey = "current_user"

// RequireUser resolves the authenticated account from the bearer token and
// stores it on the context. Signature verification happened upstream at the
// gateway; here the token is only decoded for its identity claim.
func RequireUser(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		email := emailFromToken(strings.TrimPrefix(authHeader, "Bearer "))
		if email == "" {
			abortUnauthorized(c, "Token carries no usable identity claim")
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, problem.NewInternalServerError("could not resolve account"))
			return
		}
		if user == nil {
			abortUnauthorized(c, "Unknown account")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the account placed on the context by RequireUser.
func CurrentUser(c *gin.Context) (*models.User, error) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil, problem.NewUnauthorized("Authentication required")
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, problem.NewUnauthorized("Authentication required")
	}
	return user, nil
}

func emailFromToken(tokenStr string) string {
	token, _, err := new(jwt.Parser).ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	if sub, ok := claims["sub"].(string); ok && strings.Contains(sub, "@") {
		return sub
	}
	return ""
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(http.StatusUnauthorized, problem.NewUnauthorized(detail))
}

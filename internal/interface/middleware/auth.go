package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	repo "github.com/sanikant20/bookMandala-Server/internal/domain/repository"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
	"github.com/sanikant20/bookMandala-Server/pkg/response"
)

// Auth validates the accessToken cookie (Authorization: Bearer as fallback)
// and requires the presented token to equal the one stored on the user
// record. Logout, or a newer login, therefore invalidates older tokens.
// Sets userID and userEmail in the Gin context on success.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessTokenCookie)
		if err != nil || token == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}
		if u.AccessToken == "" || u.AccessToken != token {
			response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
			c.Abort()
			return
		}

		c.Set("userID", u.ID.Hex())
		c.Set("userEmail", u.Email)
		c.Next()
	}
}

package modules

import (
	"github.com/gin-gonic/gin"

	repouser "github.com/sanikant20/bookMandala-Server/internal/domain/repository"
	handlers "github.com/sanikant20/bookMandala-Server/internal/interface/http"
	"github.com/sanikant20/bookMandala-Server/internal/interface/middleware"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
)

// UserModule wires the account handlers into routes.
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET/PUT /api/me, PATCH /api/me/avatar,
// POST /api/me/password, GET /api/users/search

type UserModule struct {
	Handler *handlers.UserHandler
	Users   repouser.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repouser.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.GetCurrentUser)
		auth.PUT("/me", m.Handler.EditUserData)
		auth.PATCH("/me/avatar", m.Handler.UpdateAvatar)
		auth.POST("/me/password", m.Handler.ChangePassword)
		auth.GET("/users/search", m.Handler.Search)
	}
}

package modules

import (
	"github.com/gin-gonic/gin"

	repouser "github.com/sanikant20/bookMandala-Server/internal/domain/repository"
	handlers "github.com/sanikant20/bookMandala-Server/internal/interface/http"
	"github.com/sanikant20/bookMandala-Server/internal/interface/middleware"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
)

type EmailModule struct {
	Handler *handlers.EmailHandler
	Users   repouser.UserRepository
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, users repouser.UserRepository, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, Users: users, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.POST("/email/send", m.Handler.Send)
	}
}

package router

import (
	userapp "github.com/sanikant20/bookMandala-Server/internal/application"
	"github.com/sanikant20/bookMandala-Server/internal/container"
	repouser "github.com/sanikant20/bookMandala-Server/internal/domain/repository"
	"github.com/sanikant20/bookMandala-Server/internal/infrastructure/media"
	"github.com/sanikant20/bookMandala-Server/internal/infrastructure/mongodb"
	pginfra "github.com/sanikant20/bookMandala-Server/internal/infrastructure/postgres"
	handlers "github.com/sanikant20/bookMandala-Server/internal/interface/http"
	"github.com/sanikant20/bookMandala-Server/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()

	userRepo := mongodb.NewUserRepository(container.GetMongo(), cfg.MongoDB, cfg.UsersCollection)

	var auditRepo repouser.AuditRepository
	if pool := container.GetAuditPool(); pool != nil {
		auditRepo = pginfra.NewAuditRepository(pool)
	}

	uploader := media.NewGCSUploader(container.GetGCS(), cfg.GCSBucket)

	service := userapp.NewService(
		userRepo,
		auditRepo,
		uploader,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)

	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
	)

	return UserModuleDeps{Repo: userRepo, Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, userDeps.Repo, container.GetJWT()))

	if pub := container.GetRabbitPub(); pub != nil {
		emailHandler := handlers.NewEmailHandler(pub, container.GetLogger(), container.GetConfig())
		r.Add(modules.NewEmailModule(emailHandler, userDeps.Repo, container.GetJWT()))
	}

	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

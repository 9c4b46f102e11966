package helpers

import (
	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the cookie carrying the issued access token.
const AccessTokenCookie = "accessToken"

// Manager sets and clears the accessToken cookie. The cookie is HttpOnly and
// (outside local development) Secure, with session lifetime: no explicit
// expiry is configured.
type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) SetAccessToken(c *gin.Context, token string) {
	c.SetCookie(AccessTokenCookie, token, 0, "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", m.Domain, m.Secure, true)
}

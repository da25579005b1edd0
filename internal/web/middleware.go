package web

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/taskpanel/internal/auth"
	"github.com/balkashynov/taskpanel/internal/models"
)

const (
	sessionCookie = "session"
	sessionKey    = "session"
)

func recoveryWithLog(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v\n%s", err, debug.Stack())
				s.serverError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func secureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "same-origin")
		c.Next()
	}
}

// requireSession resolves the session cookie and stores the session in the
// context. Requests without a live session go to the login page.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.resolveSession(c)
		if errors.Is(err, auth.ErrUnauthenticated) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if err != nil {
			log.Printf("failed to resolve session: %v", err)
			s.serverError(c)
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// resolveSession returns the caller's live session. A stale cookie is cleared.
func (s *Server) resolveSession(c *gin.Context) (*models.Session, error) {
	token, _ := c.Cookie(sessionCookie)
	session, err := s.auth.Resolve(c.Request.Context(), token)
	if errors.Is(err, auth.ErrUnauthenticated) && token != "" {
		s.clearCookie(c, sessionCookie)
	}
	return session, err
}

func currentSession(c *gin.Context) *models.Session {
	return c.MustGet(sessionKey).(*models.Session)
}

func (s *Server) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.opts.SecureCookies, true)
}

func (s *Server) clearCookie(c *gin.Context, name string) {
	s.setCookie(c, name, "", -1)
}

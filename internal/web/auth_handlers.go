package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/taskpanel/internal/auth"
)

func (s *Server) index(c *gin.Context) {
	_, err := s.resolveSession(c)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/panel")
	case errors.Is(err, auth.ErrUnauthenticated):
		c.Redirect(http.StatusFound, "/login")
	default:
		log.Printf("failed to resolve session: %v", err)
		s.serverError(c)
	}
}

func (s *Server) registerForm(c *gin.Context) {
	s.render(c, http.StatusOK, "register.html", "Register", gin.H{})
}

func (s *Server) register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	_, err := s.auth.Register(c.Request.Context(), username, password, confirm)
	if err != nil {
		var message string
		var invalid *auth.ValidationError
		switch {
		case errors.As(err, &invalid):
			message = invalid.Message
		case errors.Is(err, auth.ErrConflict):
			message = "That username is already taken."
		default:
			log.Printf("failed to register %q: %v", username, err)
			s.serverError(c)
			return
		}

		s.render(c, http.StatusOK, "register.html", "Register", gin.H{
			"Error": message,
			"Form":  formValues{Username: username},
		})
		return
	}

	s.flash(c, flashSuccess, "Registration successful, you can now log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) loginForm(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", "Log in", gin.H{})
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, session, err := s.auth.Login(c.Request.Context(), username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.flash(c, flashDanger, "Invalid username or password.")
		s.render(c, http.StatusOK, "login.html", "Log in", gin.H{
			"Form": formValues{Username: username},
		})
		return
	}
	if err != nil {
		log.Printf("failed to log in %q: %v", username, err)
		s.serverError(c)
		return
	}

	s.setCookie(c, sessionCookie, token, int(s.auth.SessionTTL()/time.Second))
	s.flash(c, flashSuccess, fmt.Sprintf("Welcome, %s", session.Username))
	c.Redirect(http.StatusFound, "/panel")
}

func (s *Server) logout(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	if err := s.auth.Logout(c.Request.Context(), token); err != nil {
		log.Printf("failed to destroy session: %v", err)
	}

	s.clearCookie(c, sessionCookie)
	s.flash(c, flashInfo, "Session closed.")
	c.Redirect(http.StatusFound, "/login")
}

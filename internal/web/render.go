package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/taskpanel/internal/models"
)

// formValues refills a form after a failed submission
type formValues struct {
	Username string
}

// render executes a page template with the fields every page uses
func (s *Server) render(c *gin.Context, status int, name, title string, data gin.H) {
	data["Title"] = title
	data["Flashes"] = s.takeFlashes(c)
	if _, ok := data["Form"]; !ok {
		data["Form"] = formValues{}
	}
	if v, ok := c.Get(sessionKey); ok {
		data["Username"] = v.(*models.Session).Username
	}
	c.HTML(status, name, data)
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "not_found.html", "Not found", gin.H{})
}

func (s *Server) serverError(c *gin.Context) {
	s.render(c, http.StatusInternalServerError, "error.html", "Error", gin.H{})
}

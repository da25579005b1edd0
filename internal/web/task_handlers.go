package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

func (s *Server) panel(c *gin.Context) {
	session := currentSession(c)
	filter := models.ParseFilter(c.DefaultQuery("filter", string(models.FilterAll)))
	search := strings.TrimSpace(c.Query("search"))

	tasks, err := s.store.ListTasks(c.Request.Context(), session.UserID, filter, search)
	if err != nil {
		log.Printf("failed to list tasks for user %d: %v", session.UserID, err)
		s.serverError(c)
		return
	}

	s.render(c, http.StatusOK, "panel.html", "Panel", gin.H{
		"Tasks":   tasks,
		"Filter":  filter,
		"Filters": models.Filters,
		"Search":  search,
	})
}

func (s *Server) addTask(c *gin.Context) {
	session := currentSession(c)

	task, err := s.store.AddTask(c.Request.Context(), session.UserID, c.PostForm("task"))
	if err != nil {
		log.Printf("failed to add task for user %d: %v", session.UserID, err)
		s.serverError(c)
		return
	}
	if task != nil {
		s.flash(c, flashSuccess, "Task added.")
	}
	c.Redirect(http.StatusFound, "/panel")
}

func (s *Server) completeTask(c *gin.Context) {
	s.withTask(c, func(userID, taskID uint) (string, string, error) {
		_, err := s.store.CompleteTask(c.Request.Context(), userID, taskID)
		return flashSuccess, "Task marked as completed.", err
	})
}

func (s *Server) deleteTask(c *gin.Context) {
	s.withTask(c, func(userID, taskID uint) (string, string, error) {
		err := s.store.DeleteTask(c.Request.Context(), userID, taskID)
		return flashSuccess, "Task deleted.", err
	})
}

func (s *Server) toggleImportant(c *gin.Context) {
	s.withTask(c, func(userID, taskID uint) (string, string, error) {
		task, err := s.store.ToggleImportant(c.Request.Context(), userID, taskID)
		if err != nil {
			return "", "", err
		}
		if task.Important {
			return flashInfo, "Task marked as important.", nil
		}
		return flashInfo, "Task unmarked as important.", nil
	})
}

func (s *Server) editTask(c *gin.Context) {
	text := strings.TrimSpace(c.PostForm("task"))
	if text == "" {
		s.flash(c, flashWarning, "Task text cannot be empty.")
		c.Redirect(http.StatusFound, "/panel")
		return
	}

	s.withTask(c, func(userID, taskID uint) (string, string, error) {
		_, err := s.store.EditTask(c.Request.Context(), userID, taskID, text)
		return flashSuccess, "Task updated.", err
	})
}

func (s *Server) report(c *gin.Context) {
	session := currentSession(c)

	summary, err := s.store.Summary(c.Request.Context(), session.UserID)
	if err != nil {
		log.Printf("failed to build report for user %d: %v", session.UserID, err)
		s.serverError(c)
		return
	}

	s.render(c, http.StatusOK, "report.html", "Report", gin.H{"Summary": summary})
}

// withTask parses :id, runs op for the session's user and redirects to the
// panel with the flash op returns. Absent or foreign tasks get the 404 page.
func (s *Server) withTask(c *gin.Context, op func(userID, taskID uint) (string, string, error)) {
	taskID, ok := parseTaskID(c.Param("id"))
	if !ok {
		s.notFound(c)
		return
	}

	session := currentSession(c)
	category, message, err := op(session.UserID, taskID)
	if errors.Is(err, db.ErrNotFound) {
		s.notFound(c)
		return
	}
	if err != nil {
		log.Printf("task %d for user %d: %v", taskID, session.UserID, err)
		s.serverError(c)
		return
	}

	s.flash(c, category, message)
	c.Redirect(http.StatusFound, "/panel")
}

func parseTaskID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/taskpanel/internal/auth"
	"github.com/balkashynov/taskpanel/internal/config"
	"github.com/balkashynov/taskpanel/internal/db"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options tune the router
type Options struct {
	// SecureCookies marks the session and flash cookies Secure
	SecureCookies bool
	// AccessLog enables the gin request logger
	AccessLog bool
}

// Server is the browser front end over the task store and the auth service
type Server struct {
	store   *db.Store
	auth    *auth.Service
	flashes flashCodec
	opts    Options
	router  *gin.Engine
}

// New builds the server and its routes. secret signs flash cookies and
// should be the same key the auth service signs sessions with.
func New(store *db.Store, authService *auth.Service, secret []byte, opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"fmtTime": formatTime,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		store:   store,
		auth:    authService,
		flashes: flashCodec{secret: secret},
		opts:    opts,
	}
	s.setupRoutes(tmpl)
	return s, nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(tmpl *template.Template) {
	r := gin.New()
	if s.opts.AccessLog {
		r.Use(gin.Logger())
	}
	r.Use(recoveryWithLog(s))
	r.Use(secureHeaders())
	r.SetHTMLTemplate(tmpl)
	r.NoRoute(s.notFound)

	r.GET("/healthz", s.health)
	r.GET("/", s.index)

	r.GET("/register", s.registerForm)
	r.POST("/register", s.register)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)

	protected := r.Group("")
	protected.Use(s.requireSession())
	{
		protected.GET("/panel", s.panel)
		protected.POST("/panel", s.panel)
		protected.POST("/add_task", s.addTask)
		protected.GET("/complete_task/:id", s.completeTask)
		protected.GET("/delete_task/:id", s.deleteTask)
		protected.GET("/toggle_important_task/:id", s.toggleImportant)
		protected.POST("/edit_task/:id", s.editTask)
		protected.GET("/report", s.report)
	}

	s.router = r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then drains
// in-flight requests for at most timeouts.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeouts config.ServerConfig) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  timeouts.ReadTimeout,
		WriteTimeout: timeouts.WriteTimeout,
		IdleTimeout:  timeouts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("taskpanel listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

package commands

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/balkashynov/taskpanel/internal/web"
)

const purgeInterval = time.Hour

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web panel",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if !a.cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}
			if a.cfg.UsesDefaultSecret() {
				log.Println("warning: using the built-in secret key, set SECRET_KEY before exposing the server")
			}

			server, err := web.New(a.store, a.auth, []byte(a.cfg.SecretKey), web.Options{
				SecureCookies: a.cfg.SecureCookies,
				AccessLog:     true,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if a.redis == nil {
				go purgeSessions(ctx, a)
			}
			return server.ListenAndServe(ctx, a.cfg.Addr, a.cfg.Server)
		}),
	}
}

// purgeSessions drops expired SQL sessions until ctx ends. Redis expires its
// own keys.
func purgeSessions(ctx context.Context, a *app) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		n, err := a.store.PurgeExpiredSessions(ctx)
		if err != nil && ctx.Err() == nil {
			log.Printf("failed to purge expired sessions: %v", err)
		} else if n > 0 {
			log.Printf("purged %d expired sessions", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

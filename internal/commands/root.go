package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/balkashynov/taskpanel/internal/auth"
	"github.com/balkashynov/taskpanel/internal/config"
	"github.com/balkashynov/taskpanel/internal/db"
	"github.com/balkashynov/taskpanel/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli carries the configuration shared by every subcommand
type cli struct {
	v *viper.Viper
}

// app is an opened database plus the auth service over it
type app struct {
	cfg   *config.Config
	store *db.Store
	auth  *auth.Service
	redis *redis.Client
}

// NewRootCmd builds the taskpanel command tree
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "taskpanel",
		Short: "A multi-user task tracker",
		Long: `taskpanel keeps a private task list per user.

Run 'taskpanel serve' for the web panel, 'taskpanel panel' for the terminal
panel, or use the task commands (ls, add, done, edit, star, rm, report)
straight from the shell.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	if err := config.BindFlags(c.v, flags); err != nil {
		panic(err)
	}
	flags.StringP("username", "u", "", "log in as this user (or TASKPANEL_USERNAME)")
	flags.StringP("password", "p", "", "password for --username (or TASKPANEL_PASSWORD)")
	for _, name := range []string{"username", "password"} {
		if err := c.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		c.serveCmd(),
		c.migrateCmd(),
		c.registerCmd(),
		c.listCmd(),
		c.addCmd(),
		c.doneCmd(),
		c.starCmd(),
		c.editCmd(),
		c.rmCmd(),
		c.reportCmd(),
		c.panelCmd(),
		versionCmd(),
	)
	rootCmd.SetHelpCommand(helpCmd())
	return rootCmd
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// openApp loads the configuration and opens the store and session backend
func (c *cli) openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(c.v)
	if err != nil {
		return nil, err
	}

	store, err := db.Open(cfg.DBPath, db.WithDebug(cfg.Debug))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: store}

	var sessions auth.Store = auth.NewSQLStore(store)
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		sessions = auth.NewRedisStore(a.redis)
	}

	a.auth = auth.NewService(store, sessions, []byte(cfg.SecretKey), auth.WithSessionTTL(cfg.SessionTTL))
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

// withApp wraps a command function to open the application first
func (c *cli) withApp(fn func(*cobra.Command, []string, *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := c.openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

// withSession wraps a command function to run inside a login session that
// is closed again when the function returns
func (c *cli) withSession(fn func(*cobra.Command, []string, *app, *models.Session) error) func(*cobra.Command, []string) error {
	return c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
		username := c.v.GetString("username")
		password := c.v.GetString("password")
		if username == "" || password == "" {
			return errors.New("credentials required: pass --username and --password or set TASKPANEL_USERNAME and TASKPANEL_PASSWORD")
		}

		ctx := cmd.Context()
		token, session, err := a.auth.Login(ctx, username, password)
		if err != nil {
			return err
		}
		defer a.auth.Logout(context.WithoutCancel(ctx), token)

		return fn(cmd, args, a, session)
	})
}

func parseTaskID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task ID '%s'", raw)
	}
	return uint(id), nil
}

package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/taskpanel/internal/models"
)

// Store is the handle every service method hangs off. It wraps a gorm
// connection to the SQLite file and the clock used for timestamps.
type Store struct {
	DB  *gorm.DB
	now func() time.Time
}

// Option configures Open
type Option func(*options)

type options struct {
	debug bool
	clock func() time.Time
}

// WithDebug turns on SQL logging
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// Open connects to the SQLite database at path and runs migrations
func Open(path string, opts ...Option) (*Store, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// Ensure the directory exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	logMode := logger.Silent // Quiet by default
	if o.debug {
		logMode = logger.Info
	}

	clock := o.clock
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
		NowFunc:        func() time.Time { return clock().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer; queue in the pool instead of failing with SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s := &Store{DB: db, now: clock}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func dsn(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Migrate creates/updates the database schema
func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Session{},
	)
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Now returns the current time in UTC according to the store clock
func (s *Store) Now() time.Time {
	return s.now().UTC()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

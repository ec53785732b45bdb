package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"trackforge/config"
	"trackforge/pkg/logger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	General CacheClient
	Events  CacheClient
}

// DB owns the SQL store, the optional valkey cache, and the store gate.
//
// The gate serializes every mutating operation over the whole store: writers
// take the write lock for their full body (including cross-entity mutations
// like payment distribution), readers take the read lock. No operation ever
// observes a half-applied mutation of another.
type DB struct {
	SQL   *gorm.DB
	Cache Cache
	Gate  *sync.RWMutex
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database", "driver", config.DatabaseDriver)
	db := &DB{log: log, Gate: &sync.RWMutex{}}

	if err := db.initializeDB(config); err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	if err := db.initializeCacheDB(config); err != nil {
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

// NewMemory opens a fresh in-memory sqlite store with migrated models and no
// cache. Used by tests and the standalone (DB_DRIVER=memory) mode.
func NewMemory() (DB, error) {
	log := logger.New("database").Function("NewMemory")

	db := &DB{log: log, Gate: &sync.RWMutex{}}

	// Unique name per store so independent in-memory databases never share
	// state; cache=shared keeps the database visible across the pool.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), memoryGormConfig())
	if err != nil {
		return DB{}, log.Err("failed to open in-memory sqlite database", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return DB{}, log.Err("failed to get database from GORM", err)
	}
	// A shared-cache memory database only stays alive while one connection
	// holds it open.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	db.SQL = gormDB

	if err := db.MigrateModels(); err != nil {
		return DB{}, log.Err("failed to migrate in-memory database", err)
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	gormLog := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:                 gormLog,
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}

	switch config.DatabaseDriver {
	case "sqlite":
		return s.initializeSQLiteDB(gormConfig, config)
	case "memory":
		mem, err := NewMemory()
		if err != nil {
			return err
		}
		s.SQL = mem.SQL
		return nil
	default:
		return s.initializePostgresDB(gormConfig, config)
	}
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)

	log.Info("Connecting to PostgreSQL",
		"host", config.DatabaseHost,
		"port", config.DatabasePort,
		"database", config.DatabaseName,
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return log.Err("failed to open PostgreSQL database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping PostgreSQL database through GORM", err)
	}

	log.Info("Successfully connected to PostgreSQL with GORM")
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) initializeSQLiteDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	log.Info("Opening sqlite database", "path", config.DatabasePath)
	db, err := gorm.Open(sqlite.Open(config.DatabasePath), gormConfig)
	if err != nil {
		return log.Err("failed to open sqlite database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}
	// sqlite serializes writers anyway; keep one connection so the store gate
	// is the only queue.
	sqlDB.SetMaxOpenConns(1)

	s.SQL = db

	return nil
}

func memoryGormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormLogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
			},
		),
		SkipDefaultTransaction: true,
	}
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, err := s.SQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				_ = s.log.Err("failed to close database", err)
			}
		}
	}

	if s.Cache.General != nil {
		s.Cache.General.Close()
	}

	if s.Cache.Events != nil {
		s.Cache.Events.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func TXDefer(tx *gorm.DB, log logger.Logger) {
	if tx.Error != nil {
		log.Er("failed transaction, rolling back", tx.Error)
		tx.Rollback()
	} else {
		if err := tx.Commit().Error; err != nil {
			log.Er("failed to commit transaction", err)
		}
	}
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cacheClients := []struct {
		client CacheClient
		name   string
	}{
		{s.Cache.General, "General"},
		{s.Cache.Events, "Events"},
	}

	for _, cache := range cacheClients {
		if cache.client != nil {
			if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
				log.Er("Failed to flush cache database", err, "cache", cache.name)
				return err
			}
			log.Info("Successfully flushed cache database", "cache", cache.name)
		}
	}

	return nil
}

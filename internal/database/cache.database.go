package database

import (
	"context"
	"fmt"
	"time"
	"trackforge/config"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization.
const (
	// GENERAL_CACHE_INDEX (DB 0) - general purpose caching (analytics reads)
	GENERAL_CACHE_INDEX = iota

	// EVENTS_CACHE_INDEX (DB 1) - pubsub backing for the event bus
	EVENTS_CACHE_INDEX
)

// initializeCacheDB connects the valkey clients. The cache is optional: when
// no address is configured the service runs without it and every cache user
// nil-guards.
func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		log.Info("cache address not configured, running without cache")
		return nil
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Events, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    EVENTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset == 1 {
		go clearCacheDB(cacheDB)
	}

	return nil
}

func clearCacheDB(cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, client := range []CacheClient{cacheDB.General, cacheDB.Events} {
		if client == nil {
			continue
		}
		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			log.Er("failed to flush cache database on reset", err)
		}
	}
}

package database

import (
	"context"
	"fmt"
	"time"

	"maintlog/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// LOOKUP_CACHE_INDEX is the valkey database holding the factory, status and
// personnel selection lists.
const LOOKUP_CACHE_INDEX = 1

func newCacheClient(address string, port int, index int) (valkey.Client, error) {
	return valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    index,
		},
	)
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	lookup, err := newCacheClient(address, port, LOOKUP_CACHE_INDEX)
	if err != nil {
		return log.Err("failed to create lookup valkey client", err)
	}
	cacheDB := Cache{Lookup: lookup}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if index != LOOKUP_CACHE_INDEX {
		log.Warn("Invalid cache database index", "index", index)
		return
	}
	client := cacheDB.Lookup
	dbName := "Lookup"

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}

package repositories

import (
	"context"
	"time"

	"maintlog/internal/constants"
	"maintlog/internal/database"
	. "maintlog/internal/models"
	"maintlog/internal/types"

	appContext "maintlog/internal/context"

	logger "github.com/Bparsons0904/goLogger"
)

// LookupRepository serves the factory, status and personnel selection lists.
type LookupRepository interface {
	GetLookups(ctx context.Context) (*types.Lookups, error)
	Refresh(ctx context.Context) (*types.Lookups, error)
}

type lookupRepository struct {
	db    database.DB
	cache database.CacheClient
	ttl   time.Duration
}

func NewLookupRepository(db database.DB, ttl time.Duration) LookupRepository {
	if ttl <= 0 {
		ttl = constants.LookupsCacheExpiry
	}
	return &lookupRepository{
		db:    db,
		cache: db.Cache.Lookup,
		ttl:   ttl,
	}
}

func (r *lookupRepository) GetLookups(ctx context.Context) (*types.Lookups, error) {
	log := logger.New("lookupRepository").TraceFromContext(ctx).Function("GetLookups")

	if r.cache != nil {
		var cached types.Lookups
		found, err := database.NewCacheBuilder(r.cache, constants.LookupsCacheKey).
			WithContext(ctx).
			Get(&cached)
		if err != nil {
			log.Warn("failed to read lookups from cache", "error", err)
		} else if found {
			return &cached, nil
		}
	}

	lookups, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, lookups, log)
	return lookups, nil
}

// Refresh drops the cached copy, rereads the lookup tables and repopulates
// the cache entry.
func (r *lookupRepository) Refresh(ctx context.Context) (*types.Lookups, error) {
	log := logger.New("lookupRepository").TraceFromContext(ctx).Function("Refresh")

	if r.cache != nil {
		if err := database.NewCacheBuilder(r.cache, constants.LookupsCacheKey).
			WithContext(ctx).
			Delete(); err != nil {
			log.Warn("failed to drop cached lookups", "error", err)
		}
	}

	lookups, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, lookups, log)
	log.Info(
		"Lookups refreshed",
		"factories", len(lookups.Factories),
		"statuses", len(lookups.Statuses),
		"personnel", len(lookups.Personnel),
	)
	return lookups, nil
}

func (r *lookupRepository) load(ctx context.Context) (*types.Lookups, error) {
	log := logger.New("lookupRepository").TraceFromContext(ctx).Function("load")

	db := appContext.DB(ctx, r.db.SQL)
	lookups := &types.Lookups{
		Factories: []string{},
		Statuses:  []string{},
		Personnel: []string{},
	}

	if err := db.Model(&Factory{}).Pluck("factory", &lookups.Factories).Error; err != nil {
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to read factories",
			log.Err("failed to read factories", err),
		)
	}

	if err := db.Model(&Status{}).Pluck("status", &lookups.Statuses).Error; err != nil {
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to read statuses",
			log.Err("failed to read statuses", err),
		)
	}

	if err := db.Model(&Personnel{}).Pluck("name", &lookups.Personnel).Error; err != nil {
		return nil, types.WrapErr(
			types.ErrQueryFailure,
			"failed to read personnel",
			log.Err("failed to read personnel", err),
		)
	}

	return lookups, nil
}

func (r *lookupRepository) store(ctx context.Context, lookups *types.Lookups, log logger.Logger) {
	if r.cache == nil {
		return
	}

	if err := database.NewCacheBuilder(r.cache, constants.LookupsCacheKey).
		WithContext(ctx).
		WithStruct(lookups).
		WithTTL(r.ttl).
		Set(); err != nil {
		log.Warn("failed to cache lookups", "error", err)
	}
}

// staticLookupRepository serves lists fixed at startup, used with the
// in-memory ticket store.
type staticLookupRepository struct {
	lookups types.Lookups
}

func NewStaticLookupRepository(lookups types.Lookups) LookupRepository {
	return &staticLookupRepository{lookups: lookups}
}

func (r *staticLookupRepository) GetLookups(context.Context) (*types.Lookups, error) {
	return &types.Lookups{
		Factories: append([]string{}, r.lookups.Factories...),
		Statuses:  append([]string{}, r.lookups.Statuses...),
		Personnel: append([]string{}, r.lookups.Personnel...),
	}, nil
}

func (r *staticLookupRepository) Refresh(ctx context.Context) (*types.Lookups, error) {
	return r.GetLookups(ctx)
}

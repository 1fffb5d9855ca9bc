package plans

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rechargex/rechargex/internal/operator"
)

const (
	cachePrefix     = "plans:v1:"
	cacheTimeout    = 2 * time.Second
	defaultCacheTTL = 10 * time.Minute
)

// Service serves the plan catalog with a Redis read-through cache.
type Service struct {
	repo   Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a plan service. cache may be nil.
func NewService(repo Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SeedResult reports what Seed did.
type SeedResult struct {
	Created bool
	Count   int64
	Plans   []Plan
}

// ListByOperator returns active plans for the named operator, cheapest first.
func (s *Service) ListByOperator(ctx context.Context, name string) ([]Plan, error) {
	op, err := operator.Parse(name)
	if err != nil {
		return nil, err
	}
	key := cachePrefix + string(op)
	if cached, ok := s.cached(key); ok {
		return cached, nil
	}
	plans, err := s.repo.ListByOperator(ctx, op)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []Plan{}
	}
	s.store(key, plans)
	return plans, nil
}

// Seed loads the built-in catalog when the store is empty.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return SeedResult{}, err
	}
	if n > 0 {
		return SeedResult{Count: n}, nil
	}

	now := s.now()
	catalog := Catalog()
	for i := range catalog {
		catalog[i].ID = uuid.NewString()
		catalog[i].CreatedAt = now
		if err := catalog[i].Validate(); err != nil {
			return SeedResult{}, err
		}
	}
	if err := s.repo.InsertMany(ctx, catalog); err != nil {
		return SeedResult{}, err
	}
	s.invalidate()
	s.logger.Info("plan catalog seeded", slog.Int("count", len(catalog)))
	return SeedResult{Created: true, Count: int64(len(catalog)), Plans: catalog}, nil
}

// Grouped returns all plans keyed by operator and the total count.
func (s *Service) Grouped(ctx context.Context) (map[operator.Operator][]Plan, int, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	grouped := make(map[operator.Operator][]Plan)
	for _, p := range all {
		grouped[p.Operator] = append(grouped[p.Operator], p)
	}
	return grouped, len(all), nil
}

// Purge deletes every plan and drops cached listings.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.invalidate()
	s.logger.Info("plan catalog purged", slog.Int64("deleted", n))
	return n, nil
}

func (s *Service) cached(key string) ([]Plan, bool) {
	if s.cache == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("plan cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var plans []Plan
	if err := json.Unmarshal(raw, &plans); err != nil {
		s.logger.Warn("plan cache entry unreadable", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return plans, true
}

func (s *Service) store(key string, plans []Plan) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(plans)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("plan cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) invalidate() {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(operator.Carriers))
	for _, op := range operator.Carriers {
		keys = append(keys, cachePrefix+string(op))
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("plan cache invalidation failed", slog.Any("error", err))
	}
}

// Package usage reads per-SIM consumption counters. Metering itself happens
// elsewhere; this service only reports what has been recorded.
package usage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rechargex/rechargex/internal/apperr"
)

// ErrStatsNotFound is returned when no counters were recorded for a SIM.
var ErrStatsNotFound = fmt.Errorf("usage stats %w", apperr.ErrNotFound)

// Stats holds consumption counters for one SIM.
type Stats struct {
	UserID    string    `json:"-"`
	SimID     string    `json:"-"`
	DataUsed  float64   `json:"dataUsed"`
	DataTotal float64   `json:"dataTotal"`
	CallsUsed int64     `json:"callsUsed"`
	SMSUsed   int64     `json:"smsUsed"`
	UpdatedAt time.Time `json:"-"`
}

// Defaults are reported for SIMs without recorded counters.
func Defaults() Stats {
	return Stats{DataUsed: 0, DataTotal: 100, CallsUsed: 0, SMSUsed: 0}
}

// Repository reads and writes usage counters.
type Repository interface {
	Find(ctx context.Context, userID, simID string) (Stats, error)
	Upsert(ctx context.Context, stats Stats) error
}

// Service reports usage with defaults for SIMs that have none.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ForSim returns the counters for simID, or Defaults when none exist.
func (s *Service) ForSim(ctx context.Context, userID, simID string) (Stats, error) {
	if simID == "" {
		return Defaults(), nil
	}
	stats, err := s.repo.Find(ctx, userID, simID)
	if errors.Is(err, ErrStatsNotFound) {
		d := Defaults()
		d.UserID, d.SimID = userID, simID
		return d, nil
	}
	return stats, err
}

// Record stores counters reported by the metering side.
func (s *Service) Record(ctx context.Context, stats Stats) error {
	if stats.UserID == "" || stats.SimID == "" {
		return fmt.Errorf("%w: user and SIM are required", apperr.ErrValidation)
	}
	if stats.UpdatedAt.IsZero() {
		stats.UpdatedAt = time.Now().UTC()
	}
	return s.repo.Upsert(ctx, stats)
}

// PostgresRepository stores usage counters in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, userID, simID string) (Stats, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Stats{}, ErrStatsNotFound
	}
	sid, err := uuid.Parse(simID)
	if err != nil {
		return Stats{}, ErrStatsNotFound
	}
	s := Stats{UserID: userID, SimID: simID}
	err = r.db.QueryRow(ctx, `SELECT data_used, data_total, calls_used, sms_used, updated_at
        FROM usage_stats WHERE user_id = $1 AND sim_id = $2`, uid, sid).
		Scan(&s.DataUsed, &s.DataTotal, &s.CallsUsed, &s.SMSUsed, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stats{}, ErrStatsNotFound
	}
	if err != nil {
		return Stats{}, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, s Stats) error {
	uid, err := uuid.Parse(s.UserID)
	if err != nil {
		return err
	}
	sid, err := uuid.Parse(s.SimID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO usage_stats (user_id, sim_id, data_used, data_total, calls_used, sms_used, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id, sim_id) DO UPDATE
        SET data_used = EXCLUDED.data_used, data_total = EXCLUDED.data_total,
            calls_used = EXCLUDED.calls_used, sms_used = EXCLUDED.sms_used, updated_at = EXCLUDED.updated_at`,
		uid, sid, s.DataUsed, s.DataTotal, s.CallsUsed, s.SMSUsed, s.UpdatedAt.UTC())
	return err
}

type memoryRepository struct {
	mu    sync.RWMutex
	stats map[string]Stats
}

// NewMemoryRepository builds an in-memory usage store for tests and local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{stats: make(map[string]Stats)}
}

func (r *memoryRepository) Find(_ context.Context, userID, simID string) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stats[userID+"/"+simID]
	if !ok {
		return Stats{}, ErrStatsNotFound
	}
	return s, nil
}

func (r *memoryRepository) Upsert(_ context.Context, s Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[s.UserID+"/"+s.SimID] = s
	return nil
}

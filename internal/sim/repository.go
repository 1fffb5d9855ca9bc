package sim

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rechargex/rechargex/internal/operator"
)

// Repository persists SIM records.
type Repository interface {
	// EnsurePrimary stores sim as the user's primary SIM unless the user
	// already has one, in which case the existing record is returned.
	// The boolean reports whether sim was inserted.
	EnsurePrimary(ctx context.Context, sim Sim) (Sim, bool, error)
	ListActive(ctx context.Context, userID string) ([]Sim, error)
	FindOwned(ctx context.Context, id, userID string) (Sim, error)
}

const simColumns = `id, user_id, mobile_number, operator, is_primary, is_active, created_at`

// PostgresRepository stores SIMs in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsurePrimary relies on the sims_one_primary_per_user partial unique index;
// concurrent callers race on the insert and the loser reads the winner's row.
func (r *PostgresRepository) EnsurePrimary(ctx context.Context, sim Sim) (Sim, bool, error) {
	simID, err := uuid.Parse(sim.ID)
	if err != nil {
		return Sim{}, false, err
	}
	userID, err := uuid.Parse(sim.UserID)
	if err != nil {
		return Sim{}, false, err
	}

	row := r.db.QueryRow(ctx, `INSERT INTO sims (id, user_id, mobile_number, operator, is_primary, is_active, created_at)
        VALUES ($1, $2, $3, $4, TRUE, TRUE, $5)
        ON CONFLICT DO NOTHING
        RETURNING `+simColumns,
		simID, userID, sim.MobileNumber, string(sim.Operator), sim.CreatedAt.UTC())
	inserted, err := scanSim(row)
	if err == nil {
		return inserted, true, nil
	}
	if !errors.Is(err, ErrSimNotFound) {
		return Sim{}, false, err
	}

	existing, err := scanSim(r.db.QueryRow(ctx, `SELECT `+simColumns+` FROM sims
        WHERE user_id = $1 AND (is_primary OR mobile_number = $2)
        ORDER BY is_primary DESC, created_at ASC
        LIMIT 1`, userID, sim.MobileNumber))
	if err != nil {
		return Sim{}, false, err
	}
	return existing, false, nil
}

// ListActive returns the user's active SIMs, primary first.
func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]Sim, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+simColumns+` FROM sims
        WHERE user_id = $1 AND is_active
        ORDER BY is_primary DESC, created_at ASC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sims []Sim
	for rows.Next() {
		s, err := scanSim(rows)
		if err != nil {
			return nil, err
		}
		sims = append(sims, s)
	}
	return sims, rows.Err()
}

// FindOwned fetches a SIM only if it belongs to userID.
func (r *PostgresRepository) FindOwned(ctx context.Context, id, userID string) (Sim, error) {
	simID, err := uuid.Parse(id)
	if err != nil {
		return Sim{}, ErrSimNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Sim{}, ErrSimNotFound
	}
	return scanSim(r.db.QueryRow(ctx, `SELECT `+simColumns+` FROM sims WHERE id = $1 AND user_id = $2`, simID, uid))
}

func scanSim(row pgx.Row) (Sim, error) {
	var (
		id        uuid.UUID
		userID    uuid.UUID
		op        string
		createdAt time.Time
		s         Sim
	)
	if err := row.Scan(&id, &userID, &s.MobileNumber, &op, &s.IsPrimary, &s.IsActive, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sim{}, ErrSimNotFound
		}
		return Sim{}, err
	}
	s.ID = id.String()
	s.UserID = userID.String()
	s.Operator = operator.Operator(op)
	s.CreatedAt = createdAt.UTC()
	return s, nil
}

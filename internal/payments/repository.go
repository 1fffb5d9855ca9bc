package payments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository appends and lists payments.
type Repository interface {
	Append(ctx context.Context, p Payment) error
	Recent(ctx context.Context, userID string, limit int) ([]Payment, error)
}

// PostgresRepository stores payments in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, p Payment) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return err
	}
	var simID *uuid.UUID
	if p.SimID != "" {
		parsed, err := uuid.Parse(p.SimID)
		if err != nil {
			return err
		}
		simID = &parsed
	}
	_, err = r.db.Exec(ctx, `INSERT INTO payments (id, user_id, sim_id, plan_id, amount, recharge_type, friend_mobile, status, transaction_id, reference, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''), $11)`,
		id, userID, simID, p.PlanID, p.Amount, string(p.RechargeType), p.FriendMobile, string(p.Status), p.TransactionID, p.Reference, p.Date.UTC())
	return err
}

func (r *PostgresRepository) Recent(ctx context.Context, userID string, limit int) ([]Payment, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, sim_id, COALESCE(plan_id, ''), amount, recharge_type,
            COALESCE(friend_mobile, ''), status, transaction_id, COALESCE(reference, ''), created_at
        FROM payments WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var (
			id, owner    uuid.UUID
			simID        *uuid.UUID
			rechargeType string
			status       string
			createdAt    time.Time
			p            Payment
		)
		if err := rows.Scan(&id, &owner, &simID, &p.PlanID, &p.Amount, &rechargeType,
			&p.FriendMobile, &status, &p.TransactionID, &p.Reference, &createdAt); err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.UserID = owner.String()
		if simID != nil {
			p.SimID = simID.String()
		}
		p.RechargeType = RechargeType(rechargeType)
		p.Status = Status(status)
		p.Date = createdAt.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

type memoryRepository struct {
	mu       sync.RWMutex
	payments []Payment
}

// NewMemoryRepository builds an in-memory payment store for tests and local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Append(_ context.Context, p Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, p)
	return nil
}

func (r *memoryRepository) Recent(_ context.Context, userID string, limit int) ([]Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Payment
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].UserID == userID {
			out = append(out, r.payments[i])
		}
	}
	// Newest first; equal timestamps keep the latest append first.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package plans

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rechargex/rechargex/internal/operator"
)

// Repository persists the plan catalog.
type Repository interface {
	ListByOperator(ctx context.Context, op operator.Operator) ([]Plan, error)
	ListAll(ctx context.Context) ([]Plan, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, plans []Plan) error
	DeleteAll(ctx context.Context) (int64, error)
}

const planColumns = `id, operator, name, price, validity, benefit_data, benefit_calls, benefit_sms, category, popular, is_active, created_at`

// PostgresRepository stores plans in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOperator returns the operator's active plans, cheapest first.
func (r *PostgresRepository) ListByOperator(ctx context.Context, op operator.Operator) ([]Plan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM plans
        WHERE operator = $1 AND is_active
        ORDER BY price ASC, name ASC`, string(op))
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListAll returns every plan ordered by operator then price.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Plan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM plans ORDER BY operator ASC, price ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&n)
	return n, err
}

// InsertMany bulk loads plans with COPY.
func (r *PostgresRepository) InsertMany(ctx context.Context, plans []Plan) error {
	rows := make([][]any, 0, len(plans))
	for _, p := range plans {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			id, string(p.Operator), p.Name, p.Price, p.Validity,
			p.Benefits.Data, p.Benefits.Calls, p.Benefits.SMS,
			string(p.Category), p.Popular, p.IsActive, p.CreatedAt.UTC(),
		})
	}
	_, err := r.db.CopyFrom(ctx, pgx.Identifier{"plans"}, []string{
		"id", "operator", "name", "price", "validity",
		"benefit_data", "benefit_calls", "benefit_sms",
		"category", "popular", "is_active", "created_at",
	}, pgx.CopyFromRows(rows))
	return err
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM plans`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func collect(rows pgx.Rows) ([]Plan, error) {
	defer rows.Close()
	var out []Plan
	for rows.Next() {
		var (
			id        uuid.UUID
			op, cat   string
			createdAt time.Time
			p         Plan
		)
		if err := rows.Scan(&id, &op, &p.Name, &p.Price, &p.Validity,
			&p.Benefits.Data, &p.Benefits.Calls, &p.Benefits.SMS,
			&cat, &p.Popular, &p.IsActive, &createdAt); err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.Operator = operator.Operator(op)
		p.Category = Category(cat)
		p.CreatedAt = createdAt.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

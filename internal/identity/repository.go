package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByMobile(ctx context.Context, mobile string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByFirebaseUID(ctx context.Context, uid string) (User, error)
}

const uniqueViolation = "23505"

const userColumns = `id, COALESCE(mobile, ''), COALESCE(email, ''), COALESCE(name, ''), COALESCE(firebase_uid, ''), created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, mobile, email, name, firebase_uid, created_at, updated_at)
        VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
		userID, user.Mobile, user.Email, user.Name, user.FirebaseUID, user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	return mapWriteError(err)
}

// Update overwrites the mutable identity fields of an existing user.
func (r *PostgresRepository) Update(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return ErrUserNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users
        SET mobile = NULLIF($2, ''), email = NULLIF($3, ''), name = NULLIF($4, ''), firebase_uid = NULLIF($5, ''), updated_at = $6
        WHERE id = $1`,
		userID, user.Mobile, user.Email, user.Name, user.FirebaseUID, user.UpdatedAt.UTC())
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindByID fetches a user by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// FindByMobile fetches a user by mobile number.
func (r *PostgresRepository) FindByMobile(ctx context.Context, mobile string) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile)
}

// FindByEmail fetches a user by normalized email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email))
}

// FindByFirebaseUID fetches a user by the Firebase account id.
func (r *PostgresRepository) FindByFirebaseUID(ctx context.Context, uid string) (User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`, uid)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		user      User
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(&id, &user.Mobile, &user.Email, &user.Name, &user.FirebaseUID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return user, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUserExists
	}
	return err
}

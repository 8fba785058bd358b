package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpetrov/user-service/internal/model"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

var _ model.UserStore = (*UserRepository)(nil)
var _ model.DatabaseHealth = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

// NewUserRepository creates a repository over db. The connection may carry a
// nil pool when the database was unreachable at startup; every method then
// returns model.ErrUnavailable instead of panicking, so the process keeps
// serving in degraded mode.
func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) available() error {
	if r.db == nil || r.db.Pool == nil {
		return model.ErrUnavailable
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	if err := r.available(); err != nil {
		return nil, err
	}

	query := `SELECT id, name, email, age, created_at
			  FROM users ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Age, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	if err := r.available(); err != nil {
		return model.User{}, err
	}

	var user model.User
	query := `SELECT id, name, email, age, created_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Age, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	if err := r.available(); err != nil {
		return model.User{}, err
	}

	query := `INSERT INTO users (name, email, age)
			  VALUES ($1, $2, $3)
			  RETURNING id, name, email, age, created_at`

	var user model.User
	err := r.db.QueryRow(ctx, query, params.Name, params.Email, params.Age).Scan(
		&user.ID, &user.Name, &user.Email, &user.Age, &user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.available(); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	if err := r.available(); err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.available(); err != nil {
		return err
	}
	return r.db.Ping(ctx)
}

func (r *UserRepository) Stats(ctx context.Context) (model.DatabaseStats, error) {
	if err := r.available(); err != nil {
		return model.DatabaseStats{}, err
	}

	var stats model.DatabaseStats
	query := `SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM users`

	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.FirstUserCreated, &stats.LastUserCreated,
	)
	if err != nil {
		return model.DatabaseStats{}, fmt.Errorf("failed to get user stats: %w", err)
	}

	var sizeBytes int64
	if err := r.db.QueryRow(ctx, `SELECT pg_total_relation_size('users')`).Scan(&sizeBytes); err != nil {
		return model.DatabaseStats{}, fmt.Errorf("failed to get table size: %w", err)
	}
	stats.TableSizeMB = float64(sizeBytes) / 1024 / 1024

	return stats, nil
}

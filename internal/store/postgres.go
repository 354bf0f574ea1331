package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bothost-dev/backend/internal/apperr"
	"github.com/bothost-dev/backend/internal/models"
)

// PostgresUserStore handles account CRUD against PostgreSQL.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresUserStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY,
			username   VARCHAR(50)  NOT NULL,
			email      VARCHAR(255) UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			plan       VARCHAR(20)  NOT NULL DEFAULT 'free',
			coins      INTEGER      NOT NULL DEFAULT 0,
			avatar     TEXT         NOT NULL DEFAULT '',
			settings   JSONB        NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			last_login TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	// Username uniqueness is case-insensitive, matching the memory store.
	_, err = s.pool.Exec(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx ON users (LOWER(username))`)
	return err
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, u *models.User) error {
	settings, err := settingsJSON(u.Settings)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password, plan, coins, avatar, settings, created_at, last_login)
		 VALUES ($1, $2, LOWER($3), $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Username, u.Email, u.Password, u.Plan, u.Coins, u.Avatar, settings, u.CreatedAt, u.LastLogin,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("username or email already exists")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, plan, coins, avatar, settings, created_at, last_login
		 FROM users WHERE id = $1`, id))
}

func (s *PostgresUserStore) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, plan, coins, avatar, settings, created_at, last_login
		 FROM users WHERE LOWER(username) = LOWER($1) OR email = LOWER($1)`, identifier))
}

func (s *PostgresUserStore) UpdateUser(ctx context.Context, u *models.User) error {
	settings, err := settingsJSON(u.Settings)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET plan = $2, coins = $3, avatar = $4, settings = $5, last_login = $6
		 WHERE id = $1`,
		u.ID, u.Plan, u.Coins, u.Avatar, settings, u.LastLogin,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *PostgresUserStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var settings []byte
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Plan, &u.Coins,
		&u.Avatar, &settings, &u.CreatedAt, &u.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &u.Settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}
	return &u, nil
}

func settingsJSON(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return b, nil
}

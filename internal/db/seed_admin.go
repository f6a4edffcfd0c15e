package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/repo/postgres"
	"github.com/okellodaniel/stackbase/internal/security"
)

const adminRole = "admin"

// EnsureAdminUser seeds a superuser when ADMIN_EMAIL/ADMIN_PASSWORD are
// configured and grants it the admin role. Safe to run on every boot.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var id string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&id)

	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		hash, hashErr := security.HashPassword(cfg.AdminPassword)

		if hashErr != nil {
			return hashErr
		}

		id = uuid.NewString()

		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, is_active, is_superuser, created_at)
			VALUES ($1, $2, $3, TRUE, TRUE, $4)
			`,
			id, cfg.AdminEmail, hash, time.Now().UTC(),
		)

		if err != nil {
			return err
		}
	}

	// role grant is idempotent; superusers bypass checks anyway, but the
	// explicit membership keeps the role table populated
	return postgres.NewUsersRepo(pool, nil).AssignRole(ctx, id, adminRole)
}

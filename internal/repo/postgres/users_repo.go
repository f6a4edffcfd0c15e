package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okellodaniel/stackbase/internal/domain/user"
	"github.com/okellodaniel/stackbase/internal/observability"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash string) (user.User, error) {
	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		Roles:        []string{},
	}

	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users(id, email, password_hash, is_active, is_superuser, created_at)
			 VALUES($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser, u.CreatedAt)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, ErrEmailAlreadyUsed
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, is_active, is_superuser, created_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.IsActive,
			&u.IsSuperuser,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	if err := r.loadRoles(ctx, &u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, is_active, is_superuser, created_at
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.IsActive,
			&u.IsSuperuser,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}

		return user.User{}, err
	}

	if err := r.loadRoles(ctx, &u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) loadRoles(ctx context.Context, u *user.User) error {
	return r.observe("users.load_roles", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT ro.name
			 FROM roles ro
			 JOIN user_roles ur ON ur.role_id = ro.id
			 WHERE ur.user_id = $1
			 ORDER BY ro.name`,
			u.ID)

		if err != nil {
			return err
		}

		defer rows.Close()

		u.Roles = []string{}

		for rows.Next() {
			var name string

			if err := rows.Scan(&name); err != nil {
				return err
			}

			u.Roles = append(u.Roles, name)
		}

		return rows.Err()
	})
}

// EnsureRole creates the named role if missing and returns its id.
func (r *UsersRepo) EnsureRole(ctx context.Context, name string) (string, error) {
	var id string

	err := r.observe("roles.ensure", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO roles(id, name) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			uuid.NewString(), name).Scan(&id)
	})

	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *UsersRepo) AssignRole(ctx context.Context, userID, roleName string) error {
	roleID, err := r.EnsureRole(ctx, roleName)

	if err != nil {
		return err
	}

	return r.observe("users.assign_role", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO user_roles(user_id, role_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			userID, roleID)
		return err
	})
}

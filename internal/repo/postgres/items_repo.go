package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okellodaniel/stackbase/internal/domain/item"
	"github.com/okellodaniel/stackbase/internal/observability"
)

type ItemsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewItemsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ItemsRepo {
	return &ItemsRepo{pool: pool, prom: prom}
}

func (r *ItemsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ItemsRepo) Create(ctx context.Context, req item.CreateItemRequest) (item.Item, error) {
	it := item.NewFromCreateRequest(req)

	err := r.observe("items.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO items(id, slug, name, description, created_at)
			 VALUES($1, $2, $3, $4, $5)`,
			it.ID, it.Slug, it.Name, it.Description, it.CreatedAt)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return item.Item{}, item.ErrSlugTaken
		}

		return item.Item{}, err
	}

	return it, nil
}

// ListRecent returns the newest items, capped at limit.
func (r *ItemsRepo) ListRecent(ctx context.Context, limit int) ([]item.Item, error) {
	output := make([]item.Item, 0, limit)

	err := r.observe("items.list_recent", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, slug, name, description, created_at
			 FROM items
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var it item.Item
			var description *string

			if err := rows.Scan(&it.ID, &it.Slug, &it.Name, &description, &it.CreatedAt); err != nil {
				return err
			}

			if description != nil {
				it.Description = *description
			}

			output = append(output, it)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ItemsRepo) Delete(ctx context.Context, id string) error {
	var err error

	obsErr := r.observe("items.delete", func() error {
		tag, execErr := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)

		if execErr != nil {
			return execErr
		}

		if tag.RowsAffected() == 0 {
			err = item.ErrNotFound
		}

		return nil
	})

	if obsErr != nil {
		return obsErr
	}

	return err
}

func (r *ItemsRepo) GetByID(ctx context.Context, id string) (item.Item, error) {
	var it item.Item
	var description *string

	err := r.observe("items.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, slug, name, description, created_at
			 FROM items WHERE id = $1`,
			id,
		).Scan(&it.ID, &it.Slug, &it.Name, &description, &it.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}

		return item.Item{}, err
	}

	if description != nil {
		it.Description = *description
	}

	return it, nil
}

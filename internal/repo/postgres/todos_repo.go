package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okellodaniel/stackbase/internal/domain/todo"
	"github.com/okellodaniel/stackbase/internal/observability"
)

type TodosRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTodosRepo(pool *pgxpool.Pool, prom *observability.Prom) *TodosRepo {
	return &TodosRepo{pool: pool, prom: prom}
}

func (r *TodosRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TodosRepo) Create(ctx context.Context, userID string, req todo.CreateTodoRequest) (todo.Todo, error) {
	t := todo.Todo{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	err := r.observe("todos.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO todos(id, user_id, title, description, is_done, created_at)
			 VALUES($1, $2, $3, $4, $5, $6)`,
			t.ID, t.UserID, t.Title, t.Description, t.IsDone, t.CreatedAt)
		return err
	})

	if err != nil {
		return todo.Todo{}, err
	}

	return t, nil
}

func (r *TodosRepo) ListByUser(ctx context.Context, userID string) ([]todo.Todo, error) {
	var output []todo.Todo

	err := r.observe("todos.list_by_user", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, title, description, is_done, created_at
			 FROM todos
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC`,
			userID)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var t todo.Todo
			var description *string

			if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &description, &t.IsDone, &t.CreatedAt); err != nil {
				return err
			}

			if description != nil {
				t.Description = *description
			}

			output = append(output, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Toggle flips is_done. Ownership is enforced in SQL: a todo belonging
// to another user is indistinguishable from a missing one.
func (r *TodosRepo) Toggle(ctx context.Context, userID, todoID string) error {
	var err error

	obsErr := r.observe("todos.toggle", func() error {
		tag, execErr := r.pool.Exec(ctx,
			`UPDATE todos SET is_done = NOT is_done
			 WHERE id = $1 AND user_id = $2`,
			todoID, userID)

		if execErr != nil {
			return execErr
		}

		if tag.RowsAffected() == 0 {
			err = todo.ErrNotFound
		}

		return nil
	})

	if obsErr != nil {
		return obsErr
	}

	return err
}

func (r *TodosRepo) Delete(ctx context.Context, userID, todoID string) error {
	var err error

	obsErr := r.observe("todos.delete", func() error {
		tag, execErr := r.pool.Exec(ctx,
			`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
			todoID, userID)

		if execErr != nil {
			return execErr
		}

		if tag.RowsAffected() == 0 {
			err = todo.ErrNotFound
		}

		return nil
	})

	if obsErr != nil {
		return obsErr
	}

	return err
}

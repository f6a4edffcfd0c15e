package todo

import (
	"errors"
	"time"
)

// Todo is a per-user list entry shown on the dashboard.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsDone      bool      `json:"isDone"`
	CreatedAt   time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("todo not found")

type CreateTodoRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=255"`
	Description string `form:"description" binding:"omitempty,max=1024"`
}

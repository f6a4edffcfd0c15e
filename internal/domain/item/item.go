package item

import (
	"errors"
	"time"
)

type Item struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	ErrNotFound  = errors.New("item not found")
	ErrSlugTaken = errors.New("item slug already in use")
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"omitempty,max=1024"`
}

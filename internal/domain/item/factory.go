package item

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func NewFromCreateRequest(req CreateItemRequest) Item {
	return Item{
		ID:          uuid.NewString(),
		Slug:        slug.Make(req.Name),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
}

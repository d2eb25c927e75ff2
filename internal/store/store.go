// Package store persists ingredient records.
package store

import (
	"context"

	"github.com/seshat-app/ingredients/backend/internal/model"
)

// Store is the record store contract. Get returns (nil, nil) for an unknown
// id, Delete of an unknown id succeeds, and Put overwrites unconditionally.
type Store interface {
	List(ctx context.Context) ([]model.Ingredient, error)
	Get(ctx context.Context, id string) (*model.Ingredient, error)
	Put(ctx context.Context, ing *model.Ingredient) error
	Delete(ctx context.Context, id string) error
}

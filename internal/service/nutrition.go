package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/seshat-app/ingredients/backend/internal/model"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
)

// NutritionService serves ingredient searches and nutrition lookups from
// spoonacular. Lookups are cached when a cache is configured; search results
// are not.
type NutritionService struct {
	spoon SpoonAPI
	cache Cache
	ttl   time.Duration
}

// NewNutritionService creates a new NutritionService. cache may be nil.
func NewNutritionService(client SpoonAPI, cache Cache, ttl time.Duration) *NutritionService {
	return &NutritionService{spoon: client, cache: cache, ttl: ttl}
}

func lookupKey(id int) string {
	return fmt.Sprintf("spoon:ingredient:%d", id)
}

// Search returns the candidates matching query, never nil
func (s *NutritionService) Search(ctx context.Context, query string) ([]spoon.Candidate, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrUsage)
	}
	results, err := s.spoon.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return results, nil
}

// Lookup returns the normalized record of one ingredient for a 100 g serving
func (s *NutritionService) Lookup(ctx context.Context, id int) (*model.Ingredient, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive, got %d", ErrUsage, id)
	}

	if ing := s.cached(ctx, id); ing != nil {
		return ing, nil
	}

	info, err := s.spoon.Information(ctx, id, spoon.DefaultAmount, spoon.DefaultUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	ing := spoon.Normalize(info)

	s.store(ctx, id, ing)
	return ing, nil
}

// cached reads a lookup from the cache; read failures count as a miss
func (s *NutritionService) cached(ctx context.Context, id int) *model.Ingredient {
	if s.cache == nil {
		return nil
	}
	data, ok, err := s.cache.Get(ctx, lookupKey(id))
	if err != nil {
		slog.WarnContext(ctx, "nutrition cache read failed", "id", id, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var ing model.Ingredient
	if err := json.Unmarshal(data, &ing); err != nil {
		slog.WarnContext(ctx, "discarding unreadable cache entry", "id", id, "error", err)
		return nil
	}
	return &ing
}

func (s *NutritionService) store(ctx context.Context, id int, ing *model.Ingredient) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(ing)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, lookupKey(id), data, s.ttl); err != nil {
		slog.WarnContext(ctx, "nutrition cache write failed", "id", id, "error", err)
	}
}

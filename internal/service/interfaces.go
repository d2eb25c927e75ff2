package service

import (
	"context"

	"github.com/seshat-app/ingredients/backend/internal/model"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
)

// IEnrichmentService resolves the nutrition record of an upstream ingredient
type IEnrichmentService interface {
	Lookup(ctx context.Context, spoonID int) (*model.Ingredient, error)
}

// INutritionService defines the nutrition proxy operations
type INutritionService interface {
	Search(ctx context.Context, query string) ([]spoon.Candidate, error)
	Lookup(ctx context.Context, id int) (*model.Ingredient, error)
}

// SpoonAPI is the part of the spoonacular client the nutrition service uses
type SpoonAPI interface {
	Search(ctx context.Context, query string) ([]spoon.Candidate, error)
	Information(ctx context.Context, id int, amount int, unit string) (*spoon.Information, error)
}

var (
	_ IEnrichmentService = (*EnrichmentService)(nil)
	_ INutritionService  = (*NutritionService)(nil)
	_ SpoonAPI           = (*spoon.Client)(nil)
)

package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/seshat-app/ingredients/backend/internal/model"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]model.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id string) (*model.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, ing *model.Ingredient) error {
	return m.Called(ctx, ing).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockEnrichment struct {
	mock.Mock
}

func (m *mockEnrichment) Lookup(ctx context.Context, spoonID int) (*model.Ingredient, error) {
	args := m.Called(ctx, spoonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

type mockNutrition struct {
	mock.Mock
}

func (m *mockNutrition) Search(ctx context.Context, query string) ([]spoon.Candidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]spoon.Candidate), args.Error(1)
}

func (m *mockNutrition) Lookup(ctx context.Context, id int) (*model.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingredient), args.Error(1)
}

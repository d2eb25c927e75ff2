package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seshat-app/ingredients/backend/internal/model"
)

// ingredientRow is the SQL table layout; nutrient amounts are JSON columns
type ingredientRow struct {
	ID            string `gorm:"primaryKey;type:varchar(64)"`
	Title         string `gorm:"not null"`
	Image         string
	Calories      *model.Amount `gorm:"serializer:json;type:text"`
	Fat           *model.Amount `gorm:"serializer:json;type:text"`
	Carbohydrates *model.Amount `gorm:"serializer:json;type:text"`
}

func (ingredientRow) TableName() string { return "ingredients" }

func rowFromModel(ing *model.Ingredient) *ingredientRow {
	return &ingredientRow{
		ID:            ing.ID,
		Title:         ing.Title,
		Image:         ing.Image,
		Calories:      ing.Calories,
		Fat:           ing.Fat,
		Carbohydrates: ing.Carbohydrates,
	}
}

func (r *ingredientRow) toModel() model.Ingredient {
	return model.Ingredient{
		ID:            r.ID,
		Title:         r.Title,
		Image:         r.Image,
		Calories:      r.Calories,
		Fat:           r.Fat,
		Carbohydrates: r.Carbohydrates,
	}
}

// SQLStore keeps ingredients in a SQL table through gorm. It is meant for
// local development against sqlite or postgres.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates the ingredients table if needed and returns the store
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&ingredientRow{}); err != nil {
		return nil, fmt.Errorf("failed to create ingredients table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// List returns every ingredient ordered by id
func (s *SQLStore) List(ctx context.Context) ([]model.Ingredient, error) {
	var rows []ingredientRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	items := make([]model.Ingredient, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toModel())
	}
	return items, nil
}

// Get reads one ingredient
func (s *SQLStore) Get(ctx context.Context, id string) (*model.Ingredient, error) {
	var row ingredientRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %s: %w", id, err)
	}

	ing := row.toModel()
	return &ing, nil
}

// Put inserts ing or overwrites every column of an existing row
func (s *SQLStore) Put(ctx context.Context, ing *model.Ingredient) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rowFromModel(ing)).Error
	if err != nil {
		return fmt.Errorf("failed to put ingredient %s: %w", ing.ID, err)
	}
	return nil
}

// Delete removes one ingredient; zero affected rows is not an error
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&ingredientRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete ingredient %s: %w", id, err)
	}
	return nil
}

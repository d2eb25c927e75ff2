package spoon

import (
	"strconv"
	"strings"

	"github.com/seshat-app/ingredients/backend/internal/model"
)

// DefaultAmount and DefaultUnit are the serving the detail lookup asks for
const (
	DefaultAmount = 100
	DefaultUnit   = "g"
)

// Normalize reshapes an information payload into the stored record shape.
// Nutrients are matched by name regardless of case or list order; a nutrient
// the payload does not report stays nil.
func Normalize(info *Information) *model.Ingredient {
	ing := &model.Ingredient{
		ID:    strconv.Itoa(info.ID),
		Title: info.Name,
		Image: info.Image,
	}
	if info.Nutrition == nil {
		return ing
	}

	ing.Calories = findNutrient(info.Nutrition.Nutrients, "calories")
	ing.Fat = findNutrient(info.Nutrition.Nutrients, "fat")
	ing.Carbohydrates = findNutrient(info.Nutrition.Nutrients, "carbohydrates")
	return ing
}

func findNutrient(nutrients []Nutrient, name string) *model.Amount {
	for _, n := range nutrients {
		if strings.EqualFold(strings.TrimSpace(n.Name), name) {
			return &model.Amount{Amount: n.Amount, Unit: n.Unit}
		}
	}
	return nil
}

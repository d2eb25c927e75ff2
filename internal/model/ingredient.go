package model

// Amount is a nutrient quantity as reported by the nutrition source
type Amount struct {
	Amount float64 `json:"amount" dynamodbav:"amount"`
	Unit   string  `json:"unit" dynamodbav:"unit"`
}

// Ingredient is the persisted ingredient record. Nutrient fields are nil when
// the nutrition source has no entry for them.
type Ingredient struct {
	ID            string  `json:"id" dynamodbav:"id"`
	Title         string  `json:"title" dynamodbav:"title"`
	Image         string  `json:"image" dynamodbav:"image,omitempty"`
	Calories      *Amount `json:"calories,omitempty" dynamodbav:"calories,omitempty"`
	Fat           *Amount `json:"fat,omitempty" dynamodbav:"fat,omitempty"`
	Carbohydrates *Amount `json:"carbohydrates,omitempty" dynamodbav:"carbohydrates,omitempty"`
}

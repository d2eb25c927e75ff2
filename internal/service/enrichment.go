package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/seshat-app/ingredients/backend/internal/model"
	"github.com/seshat-app/ingredients/backend/internal/relay"
)

// EnrichmentService fetches normalized nutrition records from the nutrition
// proxy over a relay
type EnrichmentService struct {
	invoker relay.Invoker
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(invoker relay.Invoker) *EnrichmentService {
	return &EnrichmentService{invoker: invoker}
}

// Lookup asks the proxy for one ingredient by upstream id. The relay response
// is an envelope whose body holds the proxy's own JSON, so it is decoded twice.
func (s *EnrichmentService) Lookup(ctx context.Context, spoonID int) (*model.Ingredient, error) {
	payload, err := json.Marshal(events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"id": strconv.Itoa(spoonID)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build relay payload: %w", err)
	}

	raw, err := s.invoker.Invoke(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	var envelope events.APIGatewayProxyResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode relay envelope: %w", ErrUpstream, err)
	}
	if envelope.StatusCode < 200 || envelope.StatusCode > 299 {
		return nil, fmt.Errorf("%w: nutrition proxy answered %d: %s", ErrUpstream, envelope.StatusCode, envelope.Body)
	}

	var ing model.Ingredient
	if err := json.Unmarshal([]byte(envelope.Body), &ing); err != nil {
		return nil, fmt.Errorf("%w: failed to decode nutrition record: %w", ErrUpstream, err)
	}
	if ing.ID == "" {
		return nil, fmt.Errorf("%w: nutrition record for %d has no id", ErrUpstream, spoonID)
	}
	return &ing, nil
}

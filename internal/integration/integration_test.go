package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seshat-app/ingredients/backend/internal/api"
	"github.com/seshat-app/ingredients/backend/internal/model"
	"github.com/seshat-app/ingredients/backend/internal/relay"
	"github.com/seshat-app/ingredients/backend/internal/service"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
	"github.com/seshat-app/ingredients/backend/internal/store"
)

// newHandler wires the CRUD handler over s, with the nutrition proxy running
// in-process against a fixture upstream
func newHandler(t *testing.T, s store.Store) *api.IngredientsHandler {
	t.Helper()
	fixture, err := os.ReadFile(filepath.Join("..", "spoon", "testdata", "information_garlic.json"))
	require.NoError(t, err)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/food/ingredients/11215/information" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(fixture)
	}))
	t.Cleanup(upstream.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	nutrition := api.NewNutritionHandler(service.NewNutritionService(spoon.NewClient(upstream.URL, "k"), nil, 0), log)
	return api.NewIngredientsHandler(s, service.NewEnrichmentService(relay.NewLocalInvoker("spoon", nutrition.Handle)), log)
}

// runLifecycle creates, reads, lists and deletes one ingredient through h
func runLifecycle(t *testing.T, h *api.IngredientsHandler) {
	ctx := context.Background()
	byID := map[string]string{"id": "11215"}

	resp, err := h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "POST", Resource: "/ingredients", Body: `{"spoonId":"11215"}`})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	// creating the same upstream ingredient again overwrites the record
	resp, err = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "POST", Resource: "/ingredients", Body: `{"spoonId":11215}`})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	resp, err = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "GET", Resource: "/ingredients/{ingrId}", PathParameters: map[string]string{"ingrId": "11215"}})
	require.NoError(t, err)
	var got model.Ingredient
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &got))
	assert.Equal(t, "garlic", got.Title)
	assert.Equal(t, &model.Amount{Amount: 149, Unit: "kcal"}, got.Calories)

	resp, err = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "GET", Resource: "/ingredients"})
	require.NoError(t, err)
	var all []model.Ingredient
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &all))
	assert.Len(t, all, 1)

	for i := 0; i < 2; i++ {
		resp, err = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "DELETE", Resource: "/ingredients/{id}", PathParameters: byID})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "GET", Resource: "/ingredients/{id}", PathParameters: byID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

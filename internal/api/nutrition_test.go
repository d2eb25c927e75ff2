package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seshat-app/ingredients/backend/internal/service"
	"github.com/seshat-app/ingredients/backend/internal/spoon"
)

func query(params map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:            "GET",
		Resource:              "/spoon",
		QueryStringParameters: params,
	}
}

func TestNutritionHandler_Search(t *testing.T) {
	n := new(mockNutrition)
	n.On("Search", mock.Anything, "garlic").Return([]spoon.Candidate{{ID: 11215, Name: "garlic", Image: "garlic.png"}}, nil)

	resp, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(map[string]string{"q": "garlic"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":11215,"name":"garlic","image":"garlic.png"}]`, resp.Body)
}

func TestNutritionHandler_SearchNoResults(t *testing.T) {
	n := new(mockNutrition)
	n.On("Search", mock.Anything, "zzzz").Return([]spoon.Candidate{}, nil)

	resp, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(map[string]string{"q": "zzzz"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", resp.Body)
}

func TestNutritionHandler_Lookup(t *testing.T) {
	n := new(mockNutrition)
	ing := garlic()
	ing.Carbohydrates = nil
	n.On("Lookup", mock.Anything, 1030).Return(ing, nil)

	resp, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(map[string]string{"id": "1030"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &fields))
	assert.ElementsMatch(t, []string{"id", "title", "image", "calories", "fat"}, keys(fields))
}

func TestNutritionHandler_IDWins(t *testing.T) {
	n := new(mockNutrition)
	n.On("Lookup", mock.Anything, 1030).Return(garlic(), nil)

	_, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(map[string]string{"id": "1030", "q": "garlic"}))
	require.NoError(t, err)
	n.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestNutritionHandler_Usage(t *testing.T) {
	for name, params := range map[string]map[string]string{
		"nil":   nil,
		"empty": {},
		"blank": {"q": "", "id": ""},
		"other": {"name": "garlic"},
	} {
		t.Run(name, func(t *testing.T) {
			n := new(mockNutrition)
			resp, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(params))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"message":"Must supply one of id or q parameters."}`, resp.Body)
			assert.Empty(t, n.Calls)
		})
	}
}

func TestNutritionHandler_InvalidID(t *testing.T) {
	n := new(mockNutrition)
	resp, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(map[string]string{"id": "garlic"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, n.Calls)
}

func TestNutritionHandler_Failures(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: %w", service.ErrUpstream, &spoon.APIError{StatusCode: 402, Body: "quota"}), http.StatusBadGateway},
		{fmt.Errorf("%w: id must be positive", service.ErrUsage), http.StatusBadRequest},
	}

	for _, tt := range tests {
		n := new(mockNutrition)
		n.On("Lookup", mock.Anything, 7).Return(nil, tt.err)

		resp, err := NewNutritionHandler(n, nil).Handle(context.Background(), query(map[string]string{"id": "7"}))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode)
		assert.Equal(t, tt.err.Error(), decodeError(t, resp).ErrorMsg)
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

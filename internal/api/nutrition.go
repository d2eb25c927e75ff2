package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"

	"github.com/seshat-app/ingredients/backend/internal/service"
)

const usageMessage = "Must supply one of id or q parameters."

// NutritionHandler is the nutrition proxy: a free-text search over `q` or a
// normalized lookup over `id`. When both are given, `id` wins.
type NutritionHandler struct {
	nutrition service.INutritionService
	logger    *slog.Logger
}

// NewNutritionHandler creates a new NutritionHandler
func NewNutritionHandler(nutrition service.INutritionService, logger *slog.Logger) *NutritionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NutritionHandler{nutrition: nutrition, logger: logger}
}

// Handle serves one nutrition lookup. An id parameter wins over q; failures
// are reported in the response and the returned error is always nil.
func (h *NutritionHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.QueryStringParameters["id"]
	q := req.QueryStringParameters["q"]
	h.logger.DebugContext(ctx, "nutrition request", "id", id, "q", q)

	switch {
	case id != "":
		spoonID, err := strconv.Atoi(id)
		if err != nil || spoonID <= 0 {
			return jsonResponse(http.StatusBadRequest, ErrorBody{Message: "Invalid id parameter: " + strconv.Quote(id)}), nil
		}
		ing, err := h.nutrition.Lookup(ctx, spoonID)
		if err != nil {
			return h.fail(ctx, "Failed to look up ingredient "+id+".", err), nil
		}
		return jsonResponse(http.StatusOK, ing), nil

	case q != "":
		results, err := h.nutrition.Search(ctx, q)
		if err != nil {
			return h.fail(ctx, "Failed to search ingredients.", err), nil
		}
		return jsonResponse(http.StatusOK, results), nil

	default:
		return jsonResponse(http.StatusBadRequest, ErrorBody{Message: usageMessage}), nil
	}
}

func (h *NutritionHandler) fail(ctx context.Context, message string, err error) events.APIGatewayProxyResponse {
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrUsage) {
		status = http.StatusBadRequest
	}
	h.logger.ErrorContext(ctx, "nutrition request failed", "status", status, "error", err)
	return jsonResponse(status, NewErrorBody(message, err))
}

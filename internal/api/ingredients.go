package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/seshat-app/ingredients/backend/internal/service"
	"github.com/seshat-app/ingredients/backend/internal/store"
)

// Route keys served by IngredientsHandler
const (
	RouteList   = "GET /ingredients"
	RouteCreate = "POST /ingredients"
	RouteGet    = "GET /ingredients/{id}"
	RouteDelete = "DELETE /ingredients/{id}"
)

const missingBody = "Missing body parameter."

var handledRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ingredients_handler_requests_total",
		Help: "Requests dispatched by the ingredients handler",
	},
	[]string{"route", "status"},
)

// IngredientsHandler serves the ingredient CRUD routes from API Gateway proxy
// events
type IngredientsHandler struct {
	store  store.Store
	enrich service.IEnrichmentService
	logger *slog.Logger
}

// NewIngredientsHandler creates a new IngredientsHandler
func NewIngredientsHandler(s store.Store, enrich service.IEnrichmentService, logger *slog.Logger) *IngredientsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngredientsHandler{store: s, enrich: enrich, logger: logger}
}

type createRequest struct {
	SpoonID json.Number `json:"spoonId"`
}

// RouteKey is the dispatch key of req. The deployed resource names its path
// parameter {ingrId}; it is folded into {id}.
func RouteKey(req events.APIGatewayProxyRequest) string {
	return req.HTTPMethod + " " + strings.Replace(req.Resource, "{ingrId}", "{id}", 1)
}

func pathID(req events.APIGatewayProxyRequest) string {
	if id := req.PathParameters["id"]; id != "" {
		return id
	}
	return req.PathParameters["ingrId"]
}

// Handle dispatches req to its operation. Every failure is rendered into the
// response; the returned error is always nil.
func (h *IngredientsHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, _ error) {
	key := RouteKey(req)
	h.logger.InfoContext(ctx, "ingredients request",
		"method", req.HTTPMethod,
		"resource", req.Resource,
		"path_parameters", req.PathParameters,
		"query", req.QueryStringParameters,
	)
	h.logger.DebugContext(ctx, "ingredients request body", "route", key, "body", req.Body)

	metricRoute := key
	defer func() {
		if r := recover(); r != nil {
			resp = h.fail(ctx, key, "Internal error.", errors.Errorf("panic: %v", r))
		}
		handledRequestsTotal.WithLabelValues(metricRoute, strconv.Itoa(resp.StatusCode)).Inc()
	}()

	switch key {
	case RouteList:
		return h.list(ctx, key), nil
	case RouteCreate:
		return h.create(ctx, key, req), nil
	case RouteGet:
		return h.get(ctx, key, pathID(req)), nil
	case RouteDelete:
		return h.delete(ctx, key, pathID(req)), nil
	default:
		metricRoute = "unsupported"
		raw := req.HTTPMethod + " " + req.Resource
		err := errors.Errorf("Unsupported route: %q", raw)
		return h.fail(ctx, raw, req.QueryStringParameters, err), nil
	}
}

func (h *IngredientsHandler) fail(ctx context.Context, key string, message any, err error) events.APIGatewayProxyResponse {
	h.logger.ErrorContext(ctx, "ingredients request failed", "route", key, "message", message, "error", err)
	return jsonResponse(http.StatusInternalServerError, NewErrorBody(message, err))
}

func (h *IngredientsHandler) list(ctx context.Context, key string) events.APIGatewayProxyResponse {
	items, err := h.store.List(ctx)
	if err != nil {
		return h.fail(ctx, key, "Failed to retrieve ingredients.", err)
	}
	return jsonResponse(http.StatusOK, items)
}

func (h *IngredientsHandler) get(ctx context.Context, key, id string) events.APIGatewayProxyResponse {
	if id == "" {
		return h.fail(ctx, key, "Failed to retrieve ingredient.", errors.New("missing id path parameter"))
	}
	ing, err := h.store.Get(ctx, id)
	if err != nil {
		return h.fail(ctx, key, "Failed to retrieve ingredient.", err)
	}
	if ing == nil {
		return jsonResponse(http.StatusOK, nil)
	}
	return jsonResponse(http.StatusOK, ing)
}

func (h *IngredientsHandler) delete(ctx context.Context, key, id string) events.APIGatewayProxyResponse {
	if id == "" {
		return h.fail(ctx, key, "Failed to delete ingredient.", errors.New("missing id path parameter"))
	}
	if err := h.store.Delete(ctx, id); err != nil {
		return h.fail(ctx, key, "Failed to delete ingredient.", err)
	}
	return jsonResponse(http.StatusOK, nil)
}

// create resolves the nutrition record for spoonId and stores it under the
// id the nutrition source reports
func (h *IngredientsHandler) create(ctx context.Context, key string, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	body := req.Body
	if body == "" {
		return jsonResponse(http.StatusBadRequest, missingBody)
	}
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return h.fail(ctx, key, "Failed to create ingredient.", errors.Wrap(err, "failed to decode body"))
		}
		body = string(decoded)
	}

	var in createRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return h.fail(ctx, key, "Failed to create ingredient.", errors.Wrap(err, "failed to parse body"))
	}

	failed := fmt.Sprintf("Failed to create ingredient with id %s", in.SpoonID)
	spoonID, err := strconv.Atoi(in.SpoonID.String())
	if err != nil {
		return h.fail(ctx, key, failed, errors.Errorf("invalid spoonId %q", in.SpoonID))
	}

	ing, err := h.enrich.Lookup(ctx, spoonID)
	if err != nil {
		return h.fail(ctx, key, failed, err)
	}
	if err := h.store.Put(ctx, ing); err != nil {
		return h.fail(ctx, key, failed, err)
	}

	h.logger.InfoContext(ctx, "ingredient created", "id", ing.ID, "title", ing.Title)
	return jsonResponse(http.StatusOK, "Successfully created ingredient with id "+ing.ID)
}

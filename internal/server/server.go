package server

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seshat-app/ingredients/backend/config"
	"github.com/seshat-app/ingredients/backend/internal/api"
	"github.com/seshat-app/ingredients/backend/internal/middleware"
	"github.com/seshat-app/ingredients/backend/internal/relay"
)

// Server serves the Lambda handlers over plain HTTP for local development
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New creates a server for the ingredients and nutrition handlers. limiter
// may be nil, which disables rate limiting.
func New(cfg *config.Config, ingredients *api.IngredientsHandler, nutrition *api.NutritionHandler, limiter *middleware.RateLimiter, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes := router.Group("/")
	if limiter != nil {
		routes.Use(limiter.RateLimitMiddleware())
	}
	routes.GET("/ingredients", proxy(ingredients.Handle, "/ingredients"))
	routes.POST("/ingredients", proxy(ingredients.Handle, "/ingredients"))
	routes.GET("/ingredients/:id", proxy(ingredients.Handle, "/ingredients/{id}"))
	routes.DELETE("/ingredients/:id", proxy(ingredients.Handle, "/ingredients/{id}"))
	routes.GET("/spoon", proxy(nutrition.Handle, "/spoon"))

	// Anything else reaches the ingredients handler, which reports the
	// unsupported route key
	router.NoRoute(proxy(ingredients.Handle, ""))

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// proxy adapts a proxy-event handler to gin. An empty resource means the
// request path itself is the resource.
func proxy(handler relay.HandlerFunc, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := toProxyRequest(c, resource)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorBody("Failed to read request body.", err))
			return
		}

		ctx := lambdacontext.NewContext(c.Request.Context(), &lambdacontext.LambdaContext{
			AwsRequestID: req.RequestContext.RequestID,
		})
		resp, err := handler(ctx, req)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorBody("Internal error.", err))
			return
		}
		writeProxyResponse(c, resp)
	}
}

func toProxyRequest(c *gin.Context, resource string) (events.APIGatewayProxyRequest, error) {
	if resource == "" {
		resource = c.Request.URL.Path
	}

	var body []byte
	if c.Request.Body != nil {
		var err error
		if body, err = io.ReadAll(c.Request.Body); err != nil {
			return events.APIGatewayProxyRequest{}, err
		}
	}

	var params map[string]string
	if len(c.Params) > 0 {
		params = make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
	}

	query, multiQuery := flatten(c.Request.URL.Query())
	headers, multiHeaders := flatten(c.Request.Header)

	return events.APIGatewayProxyRequest{
		Resource:                        resource,
		Path:                            c.Request.URL.Path,
		HTTPMethod:                      c.Request.Method,
		Headers:                         headers,
		MultiValueHeaders:               multiHeaders,
		QueryStringParameters:           query,
		MultiValueQueryStringParameters: multiQuery,
		PathParameters:                  params,
		Body:                            string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:    middleware.GetRequestID(c),
			ResourcePath: resource,
			HTTPMethod:   c.Request.Method,
			Path:         c.Request.URL.Path,
			Identity: events.APIGatewayRequestIdentity{
				SourceIP:  c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
			},
		},
	}, nil
}

// flatten keeps the last value of every key, as API Gateway does, next to the
// full multi-value map. Both are nil when values is empty.
func flatten(values map[string][]string) (map[string]string, map[string][]string) {
	if len(values) == 0 {
		return nil, nil
	}
	single := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			single[k] = v[len(v)-1]
		}
	}
	return single, values
}

func writeProxyResponse(c *gin.Context, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			c.Writer.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, api.NewErrorBody("Handler returned an undecodable body.", err))
			return
		}
		body = decoded
	}

	c.Status(resp.StatusCode)
	if len(body) > 0 {
		c.Writer.Write(body)
	} else {
		c.Writer.WriteHeaderNow()
	}
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ErrorBody is the error envelope shared by every handler
type ErrorBody struct {
	Message    any    `json:"message"`
	ErrorMsg   string `json:"errorMsg,omitempty"`
	ErrorStack string `json:"errorStack,omitempty"`
}

// NewErrorBody builds the envelope for err. The stack is the one recorded by
// github.com/pkg/errors, added here when err does not carry one yet.
func NewErrorBody(message any, err error) ErrorBody {
	body := ErrorBody{Message: message}
	if err == nil {
		return body
	}

	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	if !errors.As(err, &st) {
		err = errors.WithStack(err)
	}
	body.ErrorMsg = err.Error()
	body.ErrorStack = fmt.Sprintf("%+v", err)
	return body
}

// jsonResponse encodes payload as the response body. A nil payload leaves the
// body empty.
func jsonResponse(status int, payload any) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
	if payload == nil {
		return resp
	}

	data, err := json.Marshal(payload)
	if err != nil {
		fallback, _ := json.Marshal(NewErrorBody("Failed to encode response.", err))
		resp.StatusCode = http.StatusInternalServerError
		resp.Body = string(fallback)
		return resp
	}
	resp.Body = string(data)
	return resp
}

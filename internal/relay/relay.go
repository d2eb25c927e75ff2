// Package relay invokes another compute unit synchronously and hands back its
// raw response payload.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/google/uuid"
)

// Invoker sends a JSON payload and waits for the single JSON response
type Invoker interface {
	Invoke(ctx context.Context, payload []byte) ([]byte, error)
}

// FunctionError is returned when the invoked function itself failed
type FunctionError struct {
	Function string
	Kind     string
	Payload  string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s failed (%s): %s", e.Function, e.Kind, e.Payload)
}

// LambdaAPI is the part of the Lambda client the relay needs
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

var _ LambdaAPI = (*lambda.Client)(nil)

// LambdaInvoker calls a Lambda function with the RequestResponse invocation type
type LambdaInvoker struct {
	client   LambdaAPI
	function string
}

// NewLambdaInvoker creates an invoker for the named function
func NewLambdaInvoker(client LambdaAPI, function string) *LambdaInvoker {
	return &LambdaInvoker{client: client, function: function}
}

// NewLambdaClient creates a Lambda client for the relay from awsCfg
func NewLambdaClient(awsCfg aws.Config) *lambda.Client {
	return lambda.NewFromConfig(awsCfg)
}

func (i *LambdaInvoker) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", i.function, err)
	}
	if out.FunctionError != nil {
		return nil, &FunctionError{
			Function: i.function,
			Kind:     aws.ToString(out.FunctionError),
			Payload:  string(out.Payload),
		}
	}
	return out.Payload, nil
}

// HandlerFunc is the signature of an API Gateway proxy handler
type HandlerFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LocalInvoker runs a proxy handler in-process. The payload is decoded into a
// proxy request and the handler's response is encoded back, so callers see the
// same bytes a Lambda invocation would return.
type LocalInvoker struct {
	name    string
	handler HandlerFunc
}

// NewLocalInvoker wraps handler under the given function name
func NewLocalInvoker(name string, handler HandlerFunc) *LocalInvoker {
	return &LocalInvoker{name: name, handler: handler}
}

func (i *LocalInvoker) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("failed to decode payload for %s: %w", i.name, err)
	}

	lc := &lambdacontext.LambdaContext{AwsRequestID: uuid.NewString()}
	resp, err := i.handler(lambdacontext.NewContext(ctx, lc), req)
	if err != nil {
		var fnErr *FunctionError
		if errors.As(err, &fnErr) {
			return nil, err
		}
		return nil, &FunctionError{Function: i.name, Kind: "Unhandled", Payload: err.Error()}
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response of %s: %w", i.name, err)
	}
	return out, nil
}

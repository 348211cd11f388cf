package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/ilocksmithindiana/lead-service/internal/app/bootstrap"
	appconfig "github.com/ilocksmithindiana/lead-service/internal/config"
	"github.com/ilocksmithindiana/lead-service/internal/http/handlers"
	"github.com/ilocksmithindiana/lead-service/internal/submission"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// processor is the slice of the submit handler the Lambda needs.
type processor interface {
	Process(ctx context.Context, raw submission.RawSubmission, remoteIP string) (int, handlers.Response)
}

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, X-Requested-With",
}

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-service lambda", "env", cfg.Env)

	pipeline := bootstrap.NewPipeline(cfg, logger, nil)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, pipeline.Handler, evt)
	})
}

// handle translates an API Gateway event into the shared pipeline. The
// CAPTCHA gate is the same Verifier both entry points get from bootstrap,
// so the development bypass is never reachable in production here either.
func handle(ctx context.Context, proc processor, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))

	if method == http.MethodOptions {
		return jsonResponse(http.StatusOK, handlers.Response{Success: true, Message: "ok"})
	}
	if method != http.MethodPost {
		return jsonResponse(http.StatusMethodNotAllowed, handlers.Response{Success: false, Message: "Method not allowed"})
	}

	body := []byte(evt.Body)
	if evt.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(evt.Body)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, handlers.Response{Success: false, Message: "Invalid request body"})
		}
		body = decoded
	}

	var raw submission.RawSubmission
	if err := json.Unmarshal(body, &raw); err != nil {
		return jsonResponse(http.StatusBadRequest, handlers.Response{Success: false, Message: "Invalid request body"})
	}

	status, resp := proc.Process(ctx, raw, evt.RequestContext.HTTP.SourceIP)
	return jsonResponse(status, resp)
}

func jsonResponse(status int, resp handlers.Response) (events.APIGatewayV2HTTPResponse, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError, Headers: corsHeaders}, nil
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

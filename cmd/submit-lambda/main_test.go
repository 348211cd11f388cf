package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/ilocksmithindiana/lead-service/internal/http/handlers"
	"github.com/ilocksmithindiana/lead-service/internal/notify"
	"github.com/ilocksmithindiana/lead-service/internal/submission"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

type fakeProcessor struct {
	status  int
	resp    handlers.Response
	lastRaw submission.RawSubmission
	lastIP  string
	invoked int
}

func (f *fakeProcessor) Process(_ context.Context, raw submission.RawSubmission, remoteIP string) (int, handlers.Response) {
	f.invoked++
	f.lastRaw = raw
	f.lastIP = remoteIP
	return f.status, f.resp
}

func postEvent(body string, b64 bool) events.APIGatewayV2HTTPRequest {
	evt := events.APIGatewayV2HTTPRequest{
		Body:            body,
		IsBase64Encoded: b64,
	}
	evt.RequestContext.HTTP.Method = http.MethodPost
	evt.RequestContext.HTTP.SourceIP = "198.51.100.7"
	return evt
}

func TestHandle_Options(t *testing.T) {
	proc := &fakeProcessor{}
	evt := events.APIGatewayV2HTTPRequest{}
	evt.RequestContext.HTTP.Method = http.MethodOptions

	resp, err := handle(context.Background(), proc, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", resp.StatusCode)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatal("expected permissive CORS headers")
	}
	if proc.invoked != 0 {
		t.Fatal("preflight must not run the pipeline")
	}
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	proc := &fakeProcessor{}
	evt := events.APIGatewayV2HTTPRequest{}
	evt.RequestContext.HTTP.Method = http.MethodGet

	resp, _ := handle(context.Background(), proc, evt)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	proc := &fakeProcessor{}
	resp, _ := handle(context.Background(), proc, postEvent("{nope", false))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if proc.invoked != 0 {
		t.Fatal("malformed body must not run the pipeline")
	}
}

func TestHandle_ForwardsToPipeline(t *testing.T) {
	proc := &fakeProcessor{status: http.StatusOK, resp: handlers.Response{Success: true, Message: "Form submitted successfully"}}

	resp, err := handle(context.Background(), proc, postEvent(`{"name":"Jane Doe","phone":"5743187797"}`, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if proc.lastRaw.Name != "Jane Doe" {
		t.Errorf("expected parsed submission, got %+v", proc.lastRaw)
	}
	if proc.lastIP != "198.51.100.7" {
		t.Errorf("expected source IP from request context, got %q", proc.lastIP)
	}
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(context.Context, submission.CanonicalSubmission) notify.DispatchOutcome {
	panic("template assertion failed")
}

func TestHandle_PipelinePanicAnswers500(t *testing.T) {
	h := handlers.NewSubmitHandler(nil, panickingDispatcher{}, "(574) 318-7797", nil, logging.New("error"))
	body := `{"name":"Jane Doe","phone":"5743187797","email":"jane@example.com","address":"123 Main St","service_type":"lockout"}`

	resp, err := handle(context.Background(), h, postEvent(body, false))
	if err != nil {
		t.Fatalf("a pipeline panic must not surface as a function error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, "(574) 318-7797") {
		t.Errorf("expected the generic error body with the business phone, got %q", resp.Body)
	}
	if strings.Contains(resp.Body, "template assertion failed") {
		t.Errorf("panic detail leaked into the response: %q", resp.Body)
	}
}

func TestHandle_Base64Body(t *testing.T) {
	proc := &fakeProcessor{status: http.StatusOK, resp: handlers.Response{Success: true}}
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"name":"Jane Doe"}`))

	resp, _ := handle(context.Background(), proc, postEvent(encoded, true))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if proc.lastRaw.Name != "Jane Doe" {
		t.Errorf("expected base64 body decoded, got %+v", proc.lastRaw)
	}
}

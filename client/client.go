package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apikit/auth"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/transport"
)

// maxErrorBody caps how much of a failed response body is attached to
// errors and log lines.
const maxErrorBody = 2048

// Client executes authenticated HTTP requests against one base URL with
// retries, a shared transport pool and outcome classification.
type Client struct {
	config  Config
	pool    *transport.Pool
	authn   *auth.Authenticator
	tokens  *auth.TokenCache
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
	ins     *instruments
}

// New creates a client from config. The config is defaulted, then
// validated; an unusable config fails construction rather than the first
// request.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Code: ErrCodeInvalidArgument, Message: "invalid configuration", Err: err}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	var tokens *auth.TokenCache
	if cfg.Credentials != nil {
		opts := []auth.TokenCacheOption{
			auth.WithExpiryBuffer(cfg.ExpiryBuffer),
			auth.WithLogger(log),
		}
		if cfg.SingleFlightTokens {
			opts = append(opts, auth.WithSingleFlight())
		}
		tokens = auth.NewTokenCache(cfg.Credentials, opts...)
	}

	var breaker *resilience.CircuitBreaker
	if cfg.CircuitBreaker != nil {
		bc := *cfg.CircuitBreaker
		if bc.Name == "" {
			bc.Name = cfg.Name
		}
		breaker = resilience.NewCircuitBreaker(bc)
	}

	return &Client{
		config: cfg,
		pool: transport.NewPool(
			transport.WithTimeout(cfg.Timeout),
			transport.WithTLS(cfg.TLS),
			transport.WithLogger(log),
		),
		authn:   auth.NewAuthenticator(tokens, log),
		tokens:  tokens,
		breaker: breaker,
		log:     log.WithComponent("client"),
		ins:     newInstruments(),
	}, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// Prepare builds a request for the resource and runs every configured
// authentication scheme against it.
func (c *Client) Prepare(ctx context.Context, method, resource string) (*Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(method, resource, err)
	}
	if resource == "" {
		return nil, &Error{Code: ErrCodeInvalidArgument, Method: method, Message: "resource must not be empty"}
	}
	if method == "" {
		method = http.MethodGet
	}

	req := &Request{
		ID:       uuid.NewString(),
		Method:   method,
		Resource: resource,
		Headers:  make(map[string]string, len(c.config.Headers)+2),
		Query:    make(map[string]string),
	}
	for k, v := range c.config.Headers {
		req.Headers[k] = v
	}

	if err := c.authn.Apply(ctx, req, c.config.Schemes); err != nil {
		if errors.Is(err, auth.ErrEmptyAudience) {
			return nil, &Error{Code: ErrCodeInvalidArgument, Method: method, Resource: resource,
				Message: "bearer scheme has an empty audience", Err: err}
		}
		return nil, &Error{Code: ErrCodeAuth, Method: method, Resource: resource,
			Message: "authentication failed", Err: err}
	}
	return req, nil
}

// Execute runs a prepared request through the retry loop and classifies
// the outcome. Statuses in the accepted set come back as a Response;
// terminal rejections and exhausted retries surface as *Error.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &Error{Code: ErrCodeInvalidArgument, Message: "request must not be nil"}
	}

	start := time.Now()
	ctx, span := c.ins.tracer.Start(ctx, fmt.Sprintf("%s %s", req.Method, req.Resource),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Resource),
			attribute.String("request.id", req.ID),
		))
	defer span.End()

	retryCfg := resilience.RetryConfig{
		MaxRetries: c.config.MaxRetries,
		BaseDelay:  c.config.RetryBaseDelay,
		Jitter:     c.config.RetryJitter,
		RetryIf:    isRetryable,
		OnRetry: func(retry int, err error, delay time.Duration) {
			c.ins.addRetry(ctx)
			c.log.Warn("attempt failed, retrying", logger.Fields(
				logger.FieldRequestID, req.ID,
				logger.FieldMethod, req.Method,
				logger.FieldResource, req.Resource,
				logger.FieldStatus, statusOf(err),
				logger.FieldAttempt, retry,
				logger.FieldDelayMS, delay.Milliseconds(),
				logger.FieldError, err.Error(),
			))
		},
	}

	resp, err := resilience.Retry(ctx, retryCfg, func() (*Response, error) {
		return c.attempt(ctx, req)
	})
	if err != nil {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			err = cancelled(req.Method, req.Resource, err)
		}
		return nil, c.fail(ctx, span, req, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if !IsAcceptedStatus(resp.StatusCode) {
		return nil, c.fail(ctx, span, req, &Error{
			Code:       ErrCodeHTTP,
			StatusCode: resp.StatusCode,
			Method:     req.Method,
			Resource:   req.Resource,
			Message:    http.StatusText(resp.StatusCode),
			Body:       truncate(resp.Body),
		})
	}

	span.SetStatus(codes.Ok, "")
	c.log.Debug("request completed", logger.Fields(
		logger.FieldRequestID, req.ID,
		logger.FieldMethod, req.Method,
		logger.FieldResource, req.Resource,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return resp, nil
}

// Do prepares and executes a request in one call.
func (c *Client) Do(ctx context.Context, method, resource string, body any) (*Response, error) {
	req, err := c.Prepare(ctx, method, resource)
	if err != nil {
		return nil, err
	}
	req.Body = body
	return c.Execute(ctx, req)
}

// Close releases the transport pool and wipes cached tokens.
func (c *Client) Close() error {
	if c.tokens != nil {
		c.tokens.Clear()
	}
	return c.pool.Close()
}

// attempt performs one HTTP exchange. A terminal status returns the
// response with a nil error; everything else returns an error the retry
// policy inspects.
func (c *Client) attempt(ctx context.Context, req *Request) (*Response, error) {
	c.ins.addAttempt(ctx)

	httpReq, err := c.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var httpResp *http.Response
	do := func() error {
		var doErr error
		httpResp, doErr = c.pool.Do(c.config.BaseURL, httpReq)
		return doErr
	}
	if c.breaker != nil {
		err = c.breaker.Execute(do)
	} else {
		err = do()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelled(req.Method, req.Resource, err)
		}
		msg := "request failed"
		if errors.Is(err, resilience.ErrCircuitOpen) {
			msg = "circuit breaker open"
		}
		return nil, &Error{Code: ErrCodeTransport, Method: req.Method, Resource: req.Resource,
			Message: msg, Err: err}
	}
	if httpResp == nil {
		// A transport returning neither response nor error is a transport
		// fault, not a protocol outcome.
		return nil, &Error{Code: ErrCodeTransport, Method: req.Method, Resource: req.Resource,
			Message: "no response received"}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Code: ErrCodeTransport, StatusCode: httpResp.StatusCode,
			Method: req.Method, Resource: req.Resource, Message: "reading response body", Err: err}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    flattenHeaders(httpResp.Header),
		Body:       body,
	}
	if !IsTerminalStatus(resp.StatusCode) {
		return nil, &Error{Code: ErrCodeHTTP, StatusCode: resp.StatusCode,
			Method: req.Method, Resource: req.Resource,
			Message: http.StatusText(resp.StatusCode), Body: truncate(body)}
	}
	return resp, nil
}

// buildHTTPRequest assembles the wire request from the prepared one.
// Called once per attempt so non-reader bodies are re-encoded fresh.
func (c *Client) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := req.Resource
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Resource, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidArgument, Method: req.Method, Resource: req.Resource,
			Message: "encoding request body", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidArgument, Method: req.Method, Resource: req.Resource,
			Message: "building request", Err: err}
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// fail logs and records a final failure. Cancellations are reported at
// debug level; they are an outcome, not a fault.
func (c *Client) fail(ctx context.Context, span trace.Span, req *Request, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Code: ErrCodeTransport, Method: req.Method, Resource: req.Resource,
			Message: "request failed", Err: err}
	}

	span.RecordError(e)
	span.SetStatus(codes.Error, e.Code.String())
	if e.StatusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", e.StatusCode))
	}

	fields := logger.Fields(
		logger.FieldRequestID, req.ID,
		logger.FieldMethod, req.Method,
		logger.FieldResource, req.Resource,
		logger.FieldStatus, e.StatusCode,
		logger.FieldError, e.Error(),
	)
	if e.Code == ErrCodeCancelled {
		c.log.Debug("request cancelled", fields)
	} else {
		if len(e.Body) > 0 {
			fields["body"] = string(e.Body)
		}
		c.log.Error("request failed", fields)
	}
	return e
}

func cancelled(method, resource string, err error) *Error {
	return &Error{Code: ErrCodeCancelled, Method: method, Resource: resource,
		Message: "request cancelled", Err: err}
}

// statusOf extracts the HTTP status from a classified error, 0 otherwise.
func statusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// truncate bounds error bodies to maxErrorBody bytes.
func truncate(body []byte) []byte {
	if len(body) <= maxErrorBody {
		return body
	}
	return body[:maxErrorBody]
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Static errors for err113 compliance.
var (
	ErrBodyConflict = errors.New("request cannot carry both Body and RawBody")
)

// TokenManager supplies bearer tokens for outgoing requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Client is the HTTP transport shared by all resource clients.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	logger       bc.Logger
	debug        bool
	userAgent    string
	interceptors *bc.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger bc.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig opts in to retries of 5xx, 429 and connection failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax

		if waitMin > 0 {
			c.httpClient.RetryWaitMin = waitMin
		}

		if waitMax > 0 {
			c.httpClient.RetryWaitMax = waitMax
		}
	}
}

// WithHTTPTimeout bounds each attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *bc.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// Request describes an API call. Body is JSON-encoded; RawBody is sent as is
// with ContentType.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        interface{}
	RawBody     []byte
	ContentType string
	Headers     map[string]string
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// NewClient creates a new HTTP client. A nil tokenManager sends no
// Authorization header.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.RequestLogHook = client.logRetry

	return client
}

// Do sends req. A non-2xx status yields both the response and a
// *bc.ResponseError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	headers := make(http.Header)
	headers.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	headers.Set(constants.HeaderUserAgent, c.userAgent)
	headers.Set(constants.HeaderClientRequestID, uuid.NewString())

	if contentType != "" {
		headers.Set(constants.HeaderContentType, contentType)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		headers.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	outgoing := &bc.Request{
		Method:   req.Method,
		Path:     req.Path,
		Headers:  headers,
		Body:     body,
		Metadata: make(map[string]interface{}),
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, outgoing)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.send(ctx, req.Query, outgoing)

	if c.interceptors != nil {
		incoming := &bc.Response{Error: err}
		if resp != nil {
			incoming.StatusCode = resp.StatusCode
			incoming.Headers = resp.Headers
			incoming.Body = resp.Body
		}

		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, outgoing, incoming)
		if interceptErr != nil && err == nil {
			err = interceptErr
		}
	}

	return resp, err
}

func (c *Client) send(ctx context.Context, query url.Values, outgoing *bc.Request) (*Response, error) {
	fullURL := c.buildURL(outgoing.Path, query)

	var rawBody interface{}
	if len(outgoing.Body) > 0 {
		rawBody = outgoing.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, outgoing.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = outgoing.Headers

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     outgoing.Method,
			"url":        fullURL,
			"request_id": outgoing.Headers.Get(constants.HeaderClientRequestID),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(respBody),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return resp, bc.ParseResponseError(httpResp.StatusCode, respBody)
	}

	return resp, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	if len(query) > 0 {
		fullURL += "?" + encodeQuery(query)
	}

	return fullURL
}

func (c *Client) logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 || c.logger == nil {
		return
	}

	c.logger.Warn("Retrying HTTP request", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"attempt": attempt,
	})
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.Body != nil && req.RawBody != nil {
		return nil, "", ErrBodyConflict
	}

	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return data, constants.ContentTypeJSON, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body and extra headers.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body, Headers: headers})
}

// Delete performs a DELETE request with extra headers.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Headers: headers})
}

// PatchRaw performs a PATCH request with a pre-encoded body.
func (c *Client) PatchRaw(ctx context.Context, path string, body []byte, contentType string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodPatch,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
		Headers:     headers,
	})
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/common"
)

const DefaultTimeout = 15 * time.Second

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestInterceptor runs before every request. Returning an error aborts
// the request.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// SuccessHandler runs on every 2xx response and may replace it.
type SuccessHandler func(ctx context.Context, req *http.Request, resp *Response) (*Response, error)

// ErrorHandler runs on every failed request. It receives the error produced
// so far and returns the error the caller will see.
type ErrorHandler func(ctx context.Context, req *http.Request, err error) error

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header

	requestInterceptors []RequestInterceptor
	successHandlers     []SuccessHandler
	errorHandlers       []ErrorHandler
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on a copy of the current
// *http.Client, so a client passed via WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		hc := &http.Client{}
		if c.httpClient != nil {
			copied := *c.httpClient
			hc = &copied
		}
		hc.Timeout = timeout
		c.httpClient = hc
	}
}

// WithHeader adds a default header sent with every request.
func WithHeader(name, value string) Option {
	return func(c *HTTPClient) {
		c.headers.Set(name, value)
	}
}

// WithRequestInterceptor appends a request stage. Stages run in the order added.
func WithRequestInterceptor(fn RequestInterceptor) Option {
	return func(c *HTTPClient) {
		c.requestInterceptors = append(c.requestInterceptors, fn)
	}
}

// WithResponseInterceptor appends a response stage pair. Either handler may be nil.
func WithResponseInterceptor(onSuccess SuccessHandler, onError ErrorHandler) Option {
	return func(c *HTTPClient) {
		if onSuccess != nil {
			c.successHandlers = append(c.successHandlers, onSuccess)
		}
		if onError != nil {
			c.errorHandlers = append(c.errorHandlers, onError)
		}
	}
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = common.DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		headers:    http.Header{},
	}
	c.headers.Set(common.ContentTypeHeaderName, common.ContentTypeJSON)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// URL resolves path against the base URL. Absolute URLs are returned as is.
func (c *HTTPClient) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do sends a request and decodes a JSON response into out (when non-nil).
//
// body may be nil, json.RawMessage, []byte (sent verbatim) or any value
// that encoding/json can marshal. Failures are *common.NetworkError after
// the error stage has run.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Send is Do without decoding: it returns the response after the success stage.
func (c *HTTPClient) Send(ctx context.Context, method, path string, body any) (*Response, error) {
	reader, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	for name, values := range c.headers {
		req.Header[name] = append([]string(nil), values...)
	}

	for _, ic := range c.requestInterceptors {
		if err := ic(ctx, req); err != nil {
			return nil, err
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, req, &common.NetworkError{Method: method, Path: req.URL.Path, Err: err})
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.fail(ctx, req, &common.NetworkError{Method: method, Path: req.URL.Path, Err: err})
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, c.fail(ctx, req, newHTTPError(method, req.URL.Path, httpResp.StatusCode, data))
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	for _, h := range c.successHandlers {
		if resp, err = h(ctx, req, resp); err != nil {
			return nil, c.fail(ctx, req, err)
		}
	}
	return resp, nil
}

func (c *HTTPClient) fail(ctx context.Context, req *http.Request, err error) error {
	for _, h := range c.errorHandlers {
		err = h(ctx, req, err)
	}
	return err
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(b) == 0 {
			return nil, nil
		}
		return bytes.NewReader(b), nil
	case []byte:
		if len(b) == 0 {
			return nil, nil
		}
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

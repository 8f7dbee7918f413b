// Package apiclient issues REST calls to the Masomo API.
//
// A Client holds an immutable configuration snapshot (base URL and default headers).
// Changing the session credentials swaps in a rebuilt snapshot; every request reads
// exactly one snapshot, so a request never observes a half-applied change.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
)

const (
	headerAuthorization = "Authorization"
	headerAccept        = "Accept"
	headerContentType   = "Content-Type"
	mimeJSON            = "application/json"
)

type (
	Options struct {
		BaseURL    string
		HTTPClient *http.Client
		Headers    map[string]string
	}

	// Client is safe for concurrent use.
	Client struct {
		rest *rest.Client

		mu   sync.RWMutex
		conf *config
	}

	config struct {
		baseURL string
		headers map[string]string // never mutated once published
	}

	// RequestOption customizes a single request.
	RequestOption func(*rest.Request)

	Response struct {
		Status int
		Header http.Header
		Body   []byte
	}
)

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	headers := map[string]string{headerAccept: mimeJSON}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return &Client{
		rest: &rest.Client{HTTPClient: httpClient},
		conf: &config{
			baseURL: strings.TrimRight(opts.BaseURL, "/"),
			headers: headers,
		},
	}
}

func (c *config) with(key, value string) *config {
	headers := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		headers[k] = v
	}
	headers[key] = value
	return &config{baseURL: c.baseURL, headers: headers}
}

func (c *config) without(key string) *config {
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		if k != key {
			headers[k] = v
		}
	}
	return &config{baseURL: c.baseURL, headers: headers}
}

func (c *Client) snapshot() *config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conf
}

// SetAuthorization makes every subsequent request carry `Authorization: Bearer <token>`.
func (c *Client) SetAuthorization(token string) {
	c.mu.Lock()
	c.conf = c.conf.with(headerAuthorization, "Bearer "+token)
	c.mu.Unlock()
}

func (c *Client) ClearAuthorization() {
	c.mu.Lock()
	c.conf = c.conf.without(headerAuthorization)
	c.mu.Unlock()
}

// Authorization returns the current default Authorization header, or "" if none is set.
func (c *Client) Authorization() string {
	return c.Header(headerAuthorization)
}

func (c *Client) Header(key string) string {
	return c.snapshot().headers[key]
}

func (c *Client) BaseURL() string {
	return c.snapshot().baseURL
}

func WithHeader(key, value string) RequestOption {
	return func(req *rest.Request) {
		req.Headers[key] = value
	}
}

// WithBearer overrides the default credentials for one request.
func WithBearer(token string) RequestOption {
	return WithHeader(headerAuthorization, "Bearer "+token)
}

func WithQuery(key, value string) RequestOption {
	return func(req *rest.Request) {
		if req.QueryParams == nil {
			req.QueryParams = make(map[string]string)
		}
		req.QueryParams[key] = value
	}
}

// Request sends body (nil, raw []byte, or any JSON-encodable value) to path.
// HTTP error statuses come back as *ResponseError; transport failures as *NetworkError.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	conf := c.snapshot()

	req := rest.Request{
		Method:  rest.Method(strings.ToUpper(method)),
		BaseURL: conf.baseURL + "/" + strings.TrimLeft(path, "/"),
		Headers: make(map[string]string, len(conf.headers)+1),
	}
	for k, v := range conf.headers {
		req.Headers[k] = v
	}

	switch b := body.(type) {
	case nil:
	case []byte:
		req.Body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		req.Body = data
		req.Headers[headerContentType] = mimeJSON
	}

	for _, opt := range opts {
		opt(&req)
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return nil, &NetworkError{Method: string(req.Method), Path: path, Err: err}
	}

	resp := &Response{
		Status: res.StatusCode,
		Header: http.Header(res.Headers),
		Body:   []byte(res.Body),
	}
	if resp.Status >= http.StatusBadRequest {
		return resp, newResponseError(resp)
	}
	return resp, nil
}

// JSON sends in and decodes the response body into out (when out is not nil).
func (c *Client) JSON(ctx context.Context, method, path string, in, out interface{}, opts ...RequestOption) error {
	resp, err := c.Request(ctx, method, path, in, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// Upload posts a multipart form made of fields and one file part.
func (c *Client) Upload(
	ctx context.Context,
	path string,
	fields map[string]string,
	fileField, filename string,
	file io.Reader,
	opts ...RequestOption,
) (*Response, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, errors.Wrapf(err, "writing field %q", k)
		}
	}
	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return nil, errors.Wrap(err, "creating file part")
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, errors.Wrap(err, "copying file")
	}
	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart writer")
	}

	opts = append([]RequestOption{WithHeader(headerContentType, w.FormDataContentType())}, opts...)
	return c.Request(ctx, http.MethodPost, path, body.Bytes(), opts...)
}

func (r *Response) Decode(out interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

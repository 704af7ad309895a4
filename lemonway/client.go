package lemonway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/congo-pay/lemonway/internal/logging"
)

const (
	contentType    = "text/xml; charset=utf-8"
	defaultTimeout = 30 * time.Second
)

// Config holds what Init installs: the service endpoint and the default
// attributes merged into every call.
type Config struct {
	BaseURL  string
	Defaults Attributes
}

// ResultHandler shapes a successful decoded response.
type ResultHandler func(Map) (any, error)

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// WithHTTPClient sends requests through hc instead of a fresh http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout bounds every call. Zero disables the client-side timeout and
// leaves the caller's context as the only limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the logger; calls are logged at debug and failures at warn.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

type settings struct {
	baseURL  string
	defaults Attributes
}

// Client talks to one DirectKit endpoint under one profile. It is safe for
// concurrent use, including concurrent calls to Init.
type Client struct {
	profile Profile
	http    *resty.Client
	logger  *slog.Logger
	state   atomic.Pointer[settings]
}

// New creates a client for profile and initializes it with cfg.
func New(profile Profile, cfg Config, opts ...Option) (*Client, error) {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	logger := logging.Child(o.logger, "lemonway").With(slog.String("profile", profile.Name))

	var hc *resty.Client
	if o.httpClient != nil {
		hc = resty.NewWithClient(o.httpClient)
	} else {
		hc = resty.New()
	}
	hc.
		SetTimeout(o.timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", contentType).
		SetLogger(logging.Resty(logger))

	c := &Client{profile: profile, http: hc, logger: logger}
	if err := c.Init(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Init replaces the endpoint and default attributes. Defaults not
// supplied again are dropped. Calls already in flight keep the settings
// they started with.
func (c *Client) Init(cfg Config) error {
	defaults := cfg.Defaults.clone()
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	err := ValidateAttributes(defaults, c.profile.Required, c.profile.Optional)
	if baseURL == "" {
		verr := &ValidationError{}
		if !errors.As(err, &verr) {
			err = verr
		}
		verr.Missing = append([]string{"baseUri"}, verr.Missing...)
	}
	if err != nil {
		return withOperation(err, "init")
	}

	c.state.Store(&settings{baseURL: baseURL, defaults: defaults})
	return nil
}

// Profile returns the profile the client was created with.
func (c *Client) Profile() Profile {
	return c.profile
}

// BaseURL returns the endpoint requests are posted to.
func (c *Client) BaseURL() string {
	return c.state.Load().baseURL
}

// Defaults returns a copy of the current default attributes.
func (c *Client) Defaults() Attributes {
	return c.state.Load().defaults.clone()
}

// Execute runs a bound operation: attrs are normalized in place, merged
// over the defaults and validated before anything is sent. The result is
// whatever the operation's extractor returns, or the decoded Map.
func (c *Client) Execute(ctx context.Context, op *Operation, attrs Attributes) (any, error) {
	s := c.state.Load()
	req, err := buildRequest(op.Method, c.profile, op, s.defaults, attrs)
	if err != nil {
		c.logger.WarnContext(ctx, "rejected call", slog.String("operation", op.Name), logging.Error(err))
		return nil, err
	}
	return c.do(ctx, s, req, op.Extract)
}

// Call runs the profile operation with the given snake_case name.
func (c *Client) Call(ctx context.Context, name string, attrs Attributes) (any, error) {
	op, ok := c.profile.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("lemonway: %w: %s", ErrUnknownOperation, name)
	}
	return c.Execute(ctx, op, attrs)
}

// Query posts method with the defaults and attrs without checking keys
// against any whitelist. handler, when not nil, shapes the decoded
// response; the error envelope never reaches it.
func (c *Client) Query(ctx context.Context, method string, attrs Attributes, handler ResultHandler) (any, error) {
	s := c.state.Load()
	req, err := buildRequest(method, c.profile, nil, s.defaults, attrs)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, s, req, handler)
}

type requestIDKey struct{}

// WithRequestID returns a context whose calls are logged with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the identifier attached by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (c *Client) do(ctx context.Context, s *settings, req *Request, handler ResultHandler) (any, error) {
	logger := c.logger.With(slog.String("operation", req.Operation))
	if id := RequestID(ctx); id != "" {
		logger = logger.With(slog.String("request_id", id))
	}

	body, err := MakeBody(req.Method, req.Fields)
	if err != nil {
		return nil, withOperation(err, req.Operation)
	}

	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(s.baseURL + "/")
	if err != nil {
		logger.WarnContext(ctx, "request failed", slog.Duration("duration", time.Since(start)), logging.Error(err))
		return nil, &TransportError{Operation: req.Operation, Err: err}
	}
	logger.DebugContext(ctx, "request completed",
		slog.Int("status", res.StatusCode()),
		slog.Duration("duration", time.Since(start)),
	)

	payload, decodeErr := Decode(res.Body())
	if decodeErr == nil {
		if apiErr, ok := apiError(req.Operation, payload); ok {
			logger.WarnContext(ctx, "service returned an error",
				slog.String("code", apiErr.Code),
				slog.String("priority", apiErr.Priority),
			)
			return nil, apiErr
		}
	}
	if !res.IsSuccess() {
		err := &TransportError{
			Operation:  req.Operation,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", res.Status()),
		}
		logger.WarnContext(ctx, "unexpected status", slog.Int("status", res.StatusCode()))
		return nil, err
	}
	if decodeErr != nil {
		logger.WarnContext(ctx, "undecodable response", logging.Error(decodeErr))
		return nil, &TransportError{Operation: req.Operation, StatusCode: res.StatusCode(), Err: decodeErr}
	}

	if handler == nil {
		return payload, nil
	}
	out, err := handler(payload)
	if err != nil {
		return nil, fmt.Errorf("lemonway: %s: %w", req.Operation, err)
	}
	return out, nil
}

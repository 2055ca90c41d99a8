package restclient

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kih-api/automation/internal/logger"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_jsonContentType = "json"
	_defaultTimeout  = 30 * time.Second
)

type Config struct {
	Address            string
	Timeout            time.Duration
	RateLimit          int
	RatePer            time.Duration
	InsecureSkipVerify bool
	AuthToken          string
}

// ClientError is a non 2xx answer from an upstream API.
type ClientError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// New builds a resty client with sonic codecs, request pacing and the shared logger.
func New(cfg Config, logger logger.Logger) *resty.Client {
	c := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.Address).
		SetTimeout(cfg.timeout()).
		SetHeader("Accept", "application/json").
		SetResponseBodyUnlimitedReads(true).
		AddContentTypeEncoder(_jsonContentType, encodeJSON).
		AddContentTypeDecoder(_jsonContentType, decodeJSON)

	if cfg.InsecureSkipVerify {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // local gateway with self-signed certificate
	}
	if cfg.AuthToken != "" {
		c.SetAuthToken(cfg.AuthToken)
	}
	if cfg.RateLimit > 0 {
		per := cfg.RatePer
		if per <= 0 {
			per = time.Second
		}
		limiter := ratelimit.New(cfg.RateLimit, ratelimit.Per(per))
		c.AddRequestMiddleware(func(*resty.Client, *resty.Request) error {
			limiter.Take()
			return nil
		})
	}

	return c
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return _defaultTimeout
	}
	return c.Timeout
}

func encodeJSON(w io.Writer, v any) error {
	return sonic.ConfigStd.NewEncoder(w).Encode(v)
}

func decodeJSON(r io.Reader, v any) error {
	return sonic.ConfigStd.NewDecoder(r).Decode(v)
}

// Check turns a transport failure or a non 2xx response into an error
// describing action. The response body is closed.
func Check(logger logger.Logger, resp *resty.Response, err error, action string) error {
	if err != nil {
		return fmt.Errorf("%w: can't %s", err, action)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	logger.Debugf("got response %s %s status: %s, %s", resp.Request.Method, resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsSuccess() {
		return nil
	}

	message := resp.String()
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: can't %s", &ClientError{
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Message:    message,
	}, action)
}

package fraudlabs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the production v3 endpoint.
const DefaultBaseURL = "https://api.fraudlabspro.com/v3"

const tracerName = "fraudlabs-cli/fraudlabs"

const (
	pathScreen  = "/order/screen"
	pathFeed    = "/order/feedback"
	pathSMSSend = "/verification/send"
	pathSMSChk  = "/verification/verify"
)

// Client calls the FraudLabs Pro REST API. Every method issues exactly one GET.
type Client struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	HTTP      *http.Client
	Tracer    trace.Tracer
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// No Timeout: the call is bounded only by the caller's context.
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP:    &http.Client{},
		Tracer:  otel.Tracer(tracerName),
	}
}

// ScreenOrder submits an order for fraud screening.
func (c *Client) ScreenOrder(ctx context.Context, req ScreenRequest) (*Response, error) {
	return c.get(ctx, pathScreen, req.Values())
}

// SubmitFeedback reports APPROVE, REJECT or REJECT_BLACKLIST for a screened order.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) (*Response, error) {
	return c.get(ctx, pathFeed, req.Values())
}

// SendSMSVerification sends an OTP by SMS or voice call.
func (c *Client) SendSMSVerification(ctx context.Context, req SMSSendRequest) (*Response, error) {
	return c.get(ctx, pathSMSSend, req.Values())
}

// VerifySMSCode checks an OTP. The service answers with result "found" on a match.
func (c *Client) VerifySMSCode(ctx context.Context, req SMSVerifyRequest) (*Response, error) {
	return c.get(ctx, pathSMSChk, req.Values())
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*Response, error) {
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	tracer := c.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	ctx, span := tracer.Start(ctx, "fraudlabs GET "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	endpoint, err := url.Parse(c.BaseURL + path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	params.Set("key", c.APIKey)
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()

	span.SetAttributes(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", redactURL(endpoint)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	log := zerolog.Ctx(ctx)
	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		err = redactError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrNoResponse.Error())
		log.Debug().Err(err).Str("path", path).Msg("fraudlabs request failed")
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("fraudlabs response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classify(resp.StatusCode, raw)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("fraudlabs: empty response body: status=%s", resp.Status)
	}

	out, err := NewResponse(raw)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

func classify(status int, raw []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrAuthentication
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return &APIError{StatusCode: status, Message: errorMessage(status, raw)}
}

// errorMessage picks the most useful text out of an error body:
// message, then error (string or {error_message}), then the body itself.
func errorMessage(status int, raw []byte) string {
	if body, err := NewResponse(raw); err == nil {
		if msg, ok := body.String("message"); ok {
			return msg
		}
		if msg, ok := body.String("error"); ok {
			return msg
		}
		if nested, ok := body.Object("error"); ok {
			if msg, ok := nested.String("error_message"); ok {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}

func redactURL(u *url.URL) string {
	c := *u
	q := c.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}

// redactError strips the API key out of *url.Error messages produced by net/http.
func redactError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, perr := url.Parse(urlErr.URL)
	if perr != nil {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: redactURL(u), Err: urlErr.Err}
}

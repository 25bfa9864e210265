// Package reservation talks to the Xbox Live gamertag reservation endpoint
package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/berckan/gamertag/internal/models"
)

// DefaultEndpoint is the reservation URL used when none is configured
const DefaultEndpoint = "https://user.mgt.xboxlive.com/gamertags/reserve"

const defaultTimeout = 30 * time.Second
const maxResponseBodyBytes int64 = 1 << 20 // 1 MiB

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the raw outcome of a reservation request
type Response struct {
	StatusCode int
	Body       []byte
	Truncated  bool
	Duration   time.Duration
}

// Client submits reservation requests on behalf of one set of credentials
type Client struct {
	http        HTTPDoer
	endpoint    string
	credentials models.Credentials
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the reservation URL
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the client used to send requests
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// New creates a reservation client
func New(credentials models.Credentials, opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: defaultTimeout},
		endpoint:    DefaultEndpoint,
		credentials: credentials,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type reservePayload struct {
	Gamertag      string `json:"gamertag"`
	ReservationID string `json:"reservationId"`
}

// Reserve asks the endpoint to reserve gamertag. Any HTTP response is
// returned as-is with its body capped at 1 MiB; only transport failures
// produce an error
func (c *Client) Reserve(ctx context.Context, gamertag string) (Response, error) {
	payload, err := json.Marshal(reservePayload{
		Gamertag:      gamertag,
		ReservationID: c.credentials.ReservationID,
	})
	if err != nil {
		return Response{}, reservationWrapError(
			err,
			goerrors.CategoryInternal,
			"reservation: encode request body",
			http.StatusInternalServerError,
			map[string]any{"gamertag": gamertag},
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, reservationWrapError(
			err,
			goerrors.CategoryBadInput,
			"reservation: create http request",
			http.StatusBadRequest,
			map[string]any{"endpoint": c.endpoint},
		)
	}
	req.Header.Set("Authorization", c.credentials.Authorization)
	req.Header.Set("Content-Type", "application/json")

	startedAt := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, reservationWrapError(
			err,
			goerrors.CategoryExternal,
			"reservation: execute http request",
			http.StatusBadGateway,
			map[string]any{"endpoint": c.endpoint, "gamertag": gamertag},
		)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes+1))
	if err != nil {
		return Response{}, reservationWrapError(
			err,
			goerrors.CategoryExternal,
			"reservation: read response body",
			http.StatusBadGateway,
			map[string]any{"status_code": resp.StatusCode},
		)
	}
	truncated := int64(len(body)) > maxResponseBodyBytes
	if truncated {
		body = body[:maxResponseBodyBytes]
	}

	return Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Truncated:  truncated,
		Duration:   time.Since(startedAt),
	}, nil
}

// ParseRateLimit decodes the throttling window sent with a 429 response
func ParseRateLimit(body []byte) (models.RateLimitInfo, error) {
	var info models.RateLimitInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return models.RateLimitInfo{}, reservationWrapError(
			err,
			goerrors.CategoryExternal,
			"reservation: decode rate limit body",
			http.StatusBadGateway,
			nil,
		)
	}
	return info, nil
}

package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berckan/gamertag/internal/models"
)

func TestClient_ReserveSendsCredentialsAndPayload(t *testing.T) {
	var (
		gotAuth        string
		gotContentType string
		gotPayload     map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"taken"}`))
	}))
	defer server.Close()

	client := New(
		models.Credentials{Authorization: "XBL3.0 x=1;token", ReservationID: "res-42"},
		WithEndpoint(server.URL),
		WithHTTPClient(server.Client()),
	)

	resp, err := client.Reserve(context.Background(), "Player1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.JSONEq(t, `{"code":"taken"}`, string(resp.Body))
	assert.Equal(t, "XBL3.0 x=1;token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{"gamertag": "Player1", "reservationId": "res-42"}, gotPayload)
}

func TestClient_ReserveTransportFailureReturnsRichError(t *testing.T) {
	client := New(
		models.Credentials{Authorization: "token", ReservationID: "id"},
		WithHTTPClient(failingDoer{err: errors.New("connection reset")}),
	)

	_, err := client.Reserve(context.Background(), "Player1")
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich), "expected go-errors envelope, got %T", err)
	assert.Equal(t, goerrors.CategoryExternal, rich.Category)
	assert.Equal(t, TextCodeExternalFailure, rich.TextCode)
	assert.Equal(t, http.StatusBadGateway, rich.Code)
}

func TestClient_ReserveTruncatesOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("a", int(maxResponseBodyBytes)+512)))
	}))
	defer server.Close()

	client := New(models.Credentials{}, WithEndpoint(server.URL), WithHTTPClient(server.Client()))

	resp, err := client.Reserve(context.Background(), "Player1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.Truncated)
	assert.Len(t, resp.Body, int(maxResponseBodyBytes))
}

func TestClient_ReserveSmallBodyNotTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("taken"))
	}))
	defer server.Close()

	client := New(models.Credentials{}, WithEndpoint(server.URL), WithHTTPClient(server.Client()))

	resp, err := client.Reserve(context.Background(), "Player1")
	require.NoError(t, err)

	assert.False(t, resp.Truncated)
	assert.Equal(t, "taken", string(resp.Body))
}

func TestNew_Defaults(t *testing.T) {
	client := New(models.Credentials{}, WithEndpoint("  "), WithHTTPClient(nil))

	assert.Equal(t, DefaultEndpoint, client.endpoint)
	assert.NotNil(t, client.http)
}

func TestParseRateLimit(t *testing.T) {
	info, err := ParseRateLimit([]byte(`{"currentRequests":11,"maxRequests":10,"periodInSeconds":15}`))
	require.NoError(t, err)
	assert.Equal(t, models.RateLimitInfo{CurrentRequests: 11, MaxRequests: 10, PeriodInSeconds: 15}, info)

	_, err = ParseRateLimit([]byte("<html>slow down</html>"))
	assert.Error(t, err)
}

type failingDoer struct {
	err error
}

func (d failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, d.err
}

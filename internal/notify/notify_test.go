package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("://not-a-url")
	assert.Error(t, err)
}

func TestNewClientTimeoutOverride(t *testing.T) {
	t.Setenv("SLIPWAY_HTTP_TIMEOUT_SECONDS", "3")
	c, err := NewClient("https://hooks.example.com/deploy")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
}

func TestTriggerDeployOK(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	id, err := c.TriggerDeploy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "42", id)
}

func TestTriggerDeployCreatedNestedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"deploy": {"id": "dep-1"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	id, err := c.TriggerDeploy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dep-1", id)
}

func TestTriggerDeployUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("deploy started"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	id, err := c.TriggerDeploy(context.Background())
	require.NoError(t, err, "unparseable body must not be an error")
	assert.Empty(t, id)
}

func TestTriggerDeployNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.TriggerDeploy(context.Background())
	require.Error(t, err)

	var whErr *WebhookError
	require.True(t, errors.As(err, &whErr))
	assert.Equal(t, http.StatusServiceUnavailable, whErr.StatusCode)
	assert.Contains(t, whErr.Error(), "maintenance")
}

func TestTriggerDeployTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.TriggerDeploy(context.Background())
	assert.Error(t, err)
}

package bc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBlocked = errors.New("blocked")

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, "debug:"+msg)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, "info:"+msg)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, "warn:"+msg)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, "error:"+msg)
}

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	t.Parallel()

	chain := bc.NewInterceptorChain()

	var executionOrder []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *bc.Request) error {
		executionOrder = append(executionOrder, "first")

		return nil
	}).AddRequestInterceptor(func(ctx context.Context, req *bc.Request) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &bc.Request{Method: http.MethodGet, Path: "/test"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_RequestInterceptorError(t *testing.T) {
	t.Parallel()

	called := false
	chain := bc.NewInterceptorChain().
		AddRequestInterceptor(func(ctx context.Context, req *bc.Request) error {
			return errBlocked
		}).
		AddRequestInterceptor(func(ctx context.Context, req *bc.Request) error {
			called = true

			return nil
		})

	err := chain.ExecuteRequestInterceptors(context.Background(), &bc.Request{})
	require.ErrorIs(t, err, errBlocked)
	assert.False(t, called)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	req := &bc.Request{Method: http.MethodGet, Path: "/companies"}
	err := bc.HeaderInterceptor(map[string]string{"Data-Access-Intent": "ReadOnly"})(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ReadOnly", req.Headers.Get("Data-Access-Intent"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	req := &bc.Request{Method: http.MethodGet, Path: "/vendors"}

	require.NoError(t, bc.LoggingInterceptor(logger)(context.Background(), req))
	require.NoError(t, bc.LoggingResponseInterceptor(logger)(context.Background(), req, &bc.Response{StatusCode: http.StatusOK}))
	require.NoError(t, bc.LoggingResponseInterceptor(logger)(context.Background(), req, &bc.Response{
		StatusCode: http.StatusNotFound,
		Error:      bc.ParseResponseError(http.StatusNotFound, nil),
	}))

	assert.Equal(t, []string{"debug:API Request", "debug:API Response", "error:API Response Error"}, logger.messages)
}

func TestMetricsCollector(t *testing.T) {
	t.Parallel()

	collector := bc.NewMetricsCollector()
	chain := collector.Install(bc.NewInterceptorChain())
	ctx := context.Background()

	var notified []string

	collector.SetOnChange(func(endpoint string, metrics bc.Metrics) {
		notified = append(notified, endpoint)
	})

	for _, status := range []int{http.StatusOK, http.StatusBadRequest} {
		req := &bc.Request{Method: http.MethodPost, Path: "/vendors"}
		require.NoError(t, chain.ExecuteRequestInterceptors(ctx, req))
		require.NoError(t, chain.ExecuteResponseInterceptors(ctx, req, &bc.Response{StatusCode: status}))
	}

	metrics := collector.GetMetrics("POST /vendors")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.False(t, metrics.LastRequestTime.IsZero())
	assert.Equal(t, []string{"POST /vendors", "POST /vendors"}, notified)

	assert.Nil(t, collector.GetMetrics("GET /vendors"))
}

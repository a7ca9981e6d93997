package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{}

func (pingHandler) Init(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
}

type starterFunc func(ctx context.Context) error

func (f starterFunc) Start(ctx context.Context) error { return f(ctx) }

type countingCloser struct {
	closed atomic.Int32
	err    error
}

func (c *countingCloser) Close() error {
	c.closed.Add(1)
	return c.err
}

type blockingConsumer struct {
	countingCloser
	started chan struct{}
}

func (c *blockingConsumer) Consume(ctx context.Context) {
	close(c.started)
	<-ctx.Done()
}

func testConfig() config.Config {
	return config.Config{
		Http: config.Http{Host: "127.0.0.1", Port: "0"},
		Cors: config.CORS{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func TestApplication_Routes(t *testing.T) {
	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig())
	a.SetHTTPHandlers(pingHandler{})

	testCases := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/ping", wantStatus: http.StatusOK, wantBody: "pong"},
		{path: "/metrics", wantStatus: http.StatusOK, wantBody: "go_goroutines"},
		{path: "/missing", wantStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}

func TestApplication_Lifecycle(t *testing.T) {
	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig())

	var started atomic.Int32
	a.SetStarters(
		starterFunc(func(context.Context) error { started.Add(1); return nil }),
		starterFunc(func(context.Context) error { started.Add(1); return nil }),
	)

	consumer := &blockingConsumer{started: make(chan struct{})}
	a.SetConsumers(consumer)

	closer := &countingCloser{}
	a.SetClosers(closer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Start(ctx))
	<-consumer.started
	assert.Equal(t, int32(2), started.Load())

	cancel()
	require.NoError(t, a.Stop())
	assert.Equal(t, int32(1), consumer.closed.Load())
	assert.Equal(t, int32(1), closer.closed.Load())
}

func TestApplication_StarterError(t *testing.T) {
	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig())

	pingErr := errors.New("redis unavailable")
	a.SetStarters(starterFunc(func(context.Context) error { return pingErr }))

	err := a.Start(context.Background())
	assert.ErrorIs(t, err, pingErr)
}

func TestApplication_StopJoinsErrors(t *testing.T) {
	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig())

	closeErr := errors.New("close failed")
	a.SetClosers(&countingCloser{err: closeErr}, &countingCloser{})

	require.NoError(t, a.Start(context.Background()))
	assert.ErrorIs(t, a.Stop(), closeErr)
}

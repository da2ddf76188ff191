package httpclient

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestClient_GetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<buses/>"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	logger := log.New(&testWriter{}, "", 0)
	client := New(logger, 50*time.Millisecond)

	t.Run("body is returned", func(t *testing.T) {
		is := is.New(t)
		body, err := client.GetBytes(context.Background(), server.URL+"/ok")
		is.NoErr(err)
		is.Equal(string(body), "<buses/>")
	})
	t.Run("non 2xx status is an error", func(t *testing.T) {
		is := is.New(t)
		_, err := client.GetBytes(context.Background(), server.URL+"/missing")
		var statusErr *StatusError
		is.True(errors.As(err, &statusErr))
		is.Equal(statusErr.StatusCode, http.StatusServiceUnavailable)
	})
	t.Run("timeout is an error", func(t *testing.T) {
		is := is.New(t)
		_, err := client.GetBytes(context.Background(), server.URL+"/slow")
		is.True(err != nil)
	})
	t.Run("cancelled context is an error", func(t *testing.T) {
		is := is.New(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.GetBytes(ctx, server.URL+"/ok")
		is.True(err != nil)
	})
}

type testWriter struct{}

func (w *testWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, Options{ShutdownTimeout: time.Second}, h, zerolog.Nop()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = http.Get("http://" + ln.Addr().String() + "/")
	assert.Error(t, err)
}

func TestRunReportsListenError(t *testing.T) {
	err := Run(context.Background(), Options{Host: "127.0.0.1", Port: -1}, http.NotFoundHandler(), zerolog.Nop())
	assert.Error(t, err)
}

func TestOptionsAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8000", Options{Host: "127.0.0.1", Port: 8000}.Addr())
	assert.Equal(t, "[::1]:80", Options{Host: "::1", Port: 80}.Addr())
}

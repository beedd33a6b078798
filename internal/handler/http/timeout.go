package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout caps how long a handler may run. Past the deadline it answers
// 504 and the request context is canceled so query execution downstream
// stops. The handler keeps running in its goroutine until it observes the
// cancellation; the guarded writer makes sure only one side produces a
// response.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			gw := &guardedWriter{ResponseWriter: w}
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(gw, r)
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				gw.mu.Lock()
				gw.expired = true
				if !gw.wrote {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					_, _ = w.Write([]byte(`{"error":"request timeout"}`))
				}
				gw.mu.Unlock()
			}
		})
	}
}

// guardedWriter drops handler writes that arrive after the deadline
// response has already gone out.
type guardedWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	wrote   bool
}

func (g *guardedWriter) WriteHeader(statusCode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired || g.wrote {
		return
	}
	g.wrote = true
	g.ResponseWriter.WriteHeader(statusCode)
}

func (g *guardedWriter) Write(data []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !g.wrote {
		g.wrote = true
		g.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return g.ResponseWriter.Write(data)
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
	"github.com/tartampluch/go-age-calculator/internal/locale"
)

// AgeServer serves the age calculator form and its JSON API over HTTP.
type AgeServer struct {
	Addr       string
	Calc       *engine.Calculator
	Translator *locale.Translator
	Metrics    *Metrics

	// DefaultLang is used when neither ?lang= nor Accept-Language match a locale.
	DefaultLang string

	// boundAddr is set once the listener is open; it resolves ":0" in tests.
	boundAddr atomic.Pointer[string]
}

// NewAgeServer creates a new instance of the server.
func NewAgeServer(addr string, calc *engine.Calculator, tr *locale.Translator, m *Metrics) *AgeServer {
	return &AgeServer{
		Addr:        addr,
		Calc:        calc,
		Translator:  tr,
		Metrics:     m,
		DefaultLang: config.DefaultLanguage,
	}
}

// BoundAddr returns the address actually listened on, or "" before Start binds.
func (s *AgeServer) BoundAddr() string {
	if p := s.boundAddr.Load(); p != nil {
		return *p
	}
	return ""
}

// Handler builds the router with its middleware chain.
func (s *AgeServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(s.observe)
	r.Use(secureHeaders)

	r.Get(config.RouteRoot, s.handleForm)
	r.Post(config.RouteRoot, s.handleFormSubmit)
	r.Post(config.RouteAPIAge, s.handleAPIAge)
	r.Get(config.RouteHealth, handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, config.RouteMetrics, s.Metrics.Handler())
	}

	r.MethodNotAllowed(handleMethodNotAllowed)

	return r
}

// Start listens on Addr and blocks until the context is cancelled.
func (s *AgeServer) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	bound := ln.Addr().String()
	s.boundAddr.Store(&bound)

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, bound,
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// observe logs every request and records its latency under the route pattern.
func (s *AgeServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := config.MetricRouteUnmatched
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		s.Metrics.observeLatency(route, elapsed.Seconds())

		slog.Debug(config.MsgRequestServed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRequestID, chimw.GetReqID(r.Context()),
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, ww.Status(),
			config.LogKeyDuration, elapsed.Milliseconds(),
		)
	})
}

// secureHeaders disables MIME sniffing and shared caching on every response.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		next.ServeHTTP(w, r)
	})
}

// Package server exposes the encoded catalog over HTTP.
//
// The server is deliberately thin: it routes a format name to a codec,
// serves cached payload bytes when it has them, and otherwise asks storage
// for the preloaded books and encodes them. No decoding happens here; that
// is the client's half of the transfer.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/bookwire/bookwire/pkg/cache"
	"github.com/bookwire/bookwire/pkg/codec"
	"github.com/bookwire/bookwire/pkg/errors"
	"github.com/bookwire/bookwire/pkg/store"
)

// Server wires storage, the payload cache, and the codecs behind a router.
type Server struct {
	store    *store.Store
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *log.Logger
}

// New creates a server. Pass a [cache.NullCache] to disable caching.
func New(st *store.Store, c cache.Cache, cacheTTL time.Duration, logger *log.Logger) *Server {
	return &Server{store: st, cache: c, cacheTTL: cacheTTL, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLog)
	r.Get("/catalog/{format}", s.handleCatalog)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// handleCatalog serves one format's encoded payload, from cache when warm.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := chi.URLParam(r, "format")

	c, err := codec.ByName(format)
	if err != nil {
		http.Error(w, errors.UserMessage(err), http.StatusNotFound)
		return
	}

	key := cache.PayloadKey(c.Name())
	if data, hit, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache get failed", "key", key, "err", err)
	} else if hit {
		s.logger.Debug("serving cached payload", "format", c.Name(), "bytes", len(data))
		s.writePayload(w, c.ContentType(), data)
		return
	}

	data, err := s.encodeCatalog(ctx, c)
	if err != nil {
		s.logger.Error("encode failed", "format", c.Name(), "err", err)
		http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
		return
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
	}
	s.writePayload(w, c.ContentType(), data)
}

func (s *Server) encodeCatalog(ctx context.Context, c codec.Codec) ([]byte, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return c.Encode(books)
}

func (s *Server) writePayload(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// requestLog logs one line per request with method, path, and duration.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start).Round(time.Millisecond))
	})
}

// ListenAndServe runs the server on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "shutdown")
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeNetwork, err, "serve on %s", addr)
		}
		return nil
	}
}

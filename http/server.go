package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/hq"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RequestIDHeader carries the identifier assigned to every request.
const RequestIDHeader = "X-Request-Id"

// Server answers HTML queries over HTTP. Each request names a remote
// document with the url parameter; the fetched markup is run through the
// Processor with options taken from the remaining query parameters.
type Server struct {
	router    chi.Router
	fetcher   hq.Fetcher
	processor hq.Processor
	log       *slog.Logger
}

// NewServer creates a Server and registers its routes.
func NewServer(fetcher hq.Fetcher, processor hq.Processor, log *slog.Logger) *Server {
	s := &Server{
		fetcher:   fetcher,
		processor: processor,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleQuery)
	r.Get("/query", s.handleQuery)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc, ok := parseLocation(q)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing 'url' query parameter"})
		return
	}

	html, err := s.fetcher.Fetch(r.Context(), loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Failed to fetch URL", Message: err.Error()})
		return
	}

	out, err := s.processor.Process(html, parseConfig(q))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "HTML processing failed", Message: err.Error()})
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64String(out), 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// parseLocation reads url, offset and length. A range is only requested
// when both offset and length parse as non-negative integers.
func parseLocation(q map[string][]string) (hq.Location, bool) {
	loc := hq.Location{URL: first(q, "url")}
	if loc.URL == "" {
		return loc, false
	}
	offset, errOffset := strconv.ParseInt(first(q, "offset"), 10, 64)
	length, errLength := strconv.ParseInt(first(q, "length"), 10, 64)
	if errOffset == nil && errLength == nil && offset >= 0 && length >= 0 {
		loc.Offset = offset
		loc.Length = length
	}
	return loc, true
}

func parseConfig(q map[string][]string) hq.Config {
	cfg := hq.NewConfig()
	if sel := first(q, "selector"); sel != "" {
		cfg.Selector = sel
	}
	cfg.Base = first(q, "base")
	cfg.DetectBase = flag(q, "detect_base")
	cfg.TextOnly = flag(q, "text")
	cfg.PrettyPrint = flag(q, "pretty")
	cfg.Markdown = flag(q, "markdown")
	cfg.DecodeJS = flag(q, "decode_js")
	cfg.Compact = flag(q, "compact")
	cfg.Attributes = q["attribute"]
	cfg.RemoveNodes = q["remove"]
	return cfg
}

func first(q map[string][]string, key string) string {
	if v := q[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func flag(q map[string][]string, key string) bool {
	v := first(q, key)
	return v == "true" || v == "1"
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"id", w.Header().Get(RequestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

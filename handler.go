package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"time"
)

// fileReader loads a resolved target; os.ReadFile outside tests.
type fileReader func(name string) ([]byte, error)

// server answers every request. Its fields are set once in newServer and
// never modified, so concurrent requests share them without locking.
type server struct {
	nav      *navigation
	resolver resolver
	composer *composer
	watcher  *staleWatcher // nil unless -watch
	mcp      http.Handler  // nil unless -mcp
	readFile fileReader
}

func newServer(nav *navigation, res resolver, comp *composer, watcher *staleWatcher, enableMCP bool) *server {
	s := &server{
		nav:      nav,
		resolver: res,
		composer: comp,
		watcher:  watcher,
		readFile: os.ReadFile,
	}
	if enableMCP {
		s.mcp = newMCPHandler(nav, res, watcher, s.mcpReader())
	}
	return s
}

// mcpReader reads through s.readFile at call time, so MCP tools see the same
// reader as the HTTP routes
func (s *server) mcpReader() fileReader {
	return func(name string) ([]byte, error) {
		return s.readFile(name)
	}
}

// handler returns the full middleware chain. Paths are routed by hand rather
// than through http.ServeMux, which would redirect "/../x" to a cleaned path
// instead of letting the resolver reject it.
func (s *server) handler() http.Handler {
	return withRecovery(withAccessLog(s))
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/healthz":
		s.serveHealth(w, r)
	case r.URL.Path == "/mcp" && s.mcp != nil:
		s.mcp.ServeHTTP(w, r)
	default:
		s.serveContent(w, r)
	}
}

func (s *server) serveContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t := s.resolver.confine(s.resolver.resolve(r.URL.EscapedPath()))
	switch t.Kind {
	case targetHTML:
		s.servePage(w, r, t)
	case targetAsset:
		s.serveAsset(w, r, t)
	default:
		if t.Reason == reasonOutOfBounds {
			log.Printf("Forbidden: %s escapes the served roots", r.URL.EscapedPath())
			plainError(w, "Forbidden", http.StatusForbidden)
			return
		}
		plainError(w, "Not Found", http.StatusNotFound)
	}
}

func (s *server) servePage(w http.ResponseWriter, r *http.Request, t target) {
	content, err := s.readFile(t.Path)
	if err != nil {
		plainError(w, "Not Found", http.StatusNotFound)
		return
	}

	page, err := s.composer.compose(string(content), r.URL.EscapedPath())
	if err != nil {
		log.Printf("Failed to compose %s: %v", t.Path, err)
		plainError(w, "Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write([]byte(page)); err != nil {
		log.Printf("Failed to write page response: %v", err)
	}
}

func (s *server) serveAsset(w http.ResponseWriter, r *http.Request, t target) {
	data, err := s.readFile(t.Path)
	if err != nil {
		plainError(w, "Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(t.Ext))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write asset response: %v", err)
	}
}

func (s *server) serveHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"pages":     s.nav.Pages,
		"nav_stale": s.watcher.Stale(),
	}); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}

// plainError writes a short plain-text error body
func plainError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}

// withRecovery wraps an HTTP handler with panic recovery
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for the access log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses (the MCP endpoint) working through the wrapper
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.EscapedPath(), rec.status, time.Since(start).Round(time.Microsecond))
	})
}

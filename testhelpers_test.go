package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestFile writes content to dir/name, creating parent directories
func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file %s: %v", path, err)
	}
	return path
}

// setupSite creates a content root holding files (slash-separated name to
// content) and the given empty directories
func setupSite(t *testing.T, files map[string]string, emptyDirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		createTestFile(t, root, name, content)
	}
	for _, d := range emptyDirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatalf("failed to create dir %s: %v", d, err)
		}
	}
	return root
}

// newTestServer runs the startup path against contentDir and returns the
// assembled server
func newTestServer(t *testing.T, cfg config) *server {
	t.Helper()
	a, err := setup(cfg)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	t.Cleanup(a.watcher.close)
	return a.server
}

// doRequest sends one request through the full middleware chain
func doRequest(t *testing.T, s *server, method, target string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.handler().ServeHTTP(w, req)

	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, string(body)
}

// assertValidHTML checks for required HTML structure elements
func assertValidHTML(t *testing.T, html string) {
	t.Helper()
	required := []string{
		"<!DOCTYPE html>",
		"<html",
		"<head>",
		"<body>",
		"</body>",
		"</html>",
	}
	for _, tag := range required {
		if !strings.Contains(html, tag) {
			t.Errorf("HTML missing required tag: %s", tag)
		}
	}
}

// assertContains is a helper for checking string containment with clear error messages
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected string to contain %q, got: %s", substr, s)
	}
}

// assertNotContains is a helper for checking string non-containment
func assertNotContains(t *testing.T, s, substr string) {
	t.Helper()
	if strings.Contains(s, substr) {
		t.Errorf("expected string NOT to contain %q, but it does", substr)
	}
}

// assertStatusCode checks HTTP status code with clear error message
func assertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected status code %d, got %d", want, got)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

const defaultContentDir = "src"

var (
	// Build info (set via ldflags)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type config struct {
	contentDir  string
	assetDir    string
	host        string
	port        int
	title       string
	notePath    string
	watch       bool
	enableMCP   bool
	openBrowser bool
	showVersion bool
}

func (c config) addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// parseFlags reads options followed by an optional content directory
func parseFlags(args []string, output io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("htmlnav", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage: htmlnav [options] [content-dir]")
		fmt.Fprintln(output, "\nOptions:")
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.port, "port", 3000, "Port to serve on")
	fs.StringVar(&cfg.host, "host", "localhost", "Host to listen on")
	fs.StringVar(&cfg.assetDir, "files", "", "Directory served under /files/")
	fs.StringVar(&cfg.title, "title", "", "Site title (default: name of the content directory)")
	fs.StringVar(&cfg.notePath, "note", "", "Markdown file rendered above the navigation")
	fs.BoolVar(&cfg.watch, "watch", false, "Report when the content tree changes after startup")
	fs.BoolVar(&cfg.enableMCP, "mcp", false, "Serve MCP tools at /mcp")
	fs.BoolVar(&cfg.openBrowser, "browser", false, "Open browser automatically")
	fs.BoolVar(&cfg.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	switch fs.NArg() {
	case 0:
		cfg.contentDir = defaultContentDir
	case 1:
		cfg.contentDir = fs.Arg(0)
	default:
		fs.Usage()
		return config{}, fmt.Errorf("expected at most one content directory, got %d", fs.NArg())
	}

	if cfg.port < 0 || cfg.port > 65535 {
		return config{}, fmt.Errorf("invalid port %d", cfg.port)
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("htmlnav %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// app holds everything built at startup
type app struct {
	root    string
	nav     *navigation
	watcher *staleWatcher
	server  *server
}

// setup scans the content tree and assembles the request handler. A tree
// that cannot be scanned is fatal.
func setup(cfg config) (*app, error) {
	root, err := filepath.Abs(cfg.contentDir)
	if err != nil {
		return nil, fmt.Errorf("resolve content directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content directory %s is not a directory", root)
	}

	res, err := newResolver(root, cfg.assetDir)
	if err != nil {
		return nil, err
	}

	// With an asset root, /files/ no longer reaches the content directory of
	// the same name, so its pages are left out of the navigation
	var reserved []string
	if res.assetRoot != "" {
		if info, err := os.Stat(res.assetRoot); err != nil || !info.IsDir() {
			log.Printf("Warning: asset directory %s is not readable; /files/ requests will 404", res.assetRoot)
		}
		reserved = append(reserved, assetDirName)
		if info, err := os.Stat(filepath.Join(root, assetDirName)); err == nil && info.IsDir() {
			log.Printf("Warning: %s is shadowed by %s and left out of the navigation",
				filepath.Join(root, assetDirName), assetPrefix)
		}
	}

	nav, err := newNavigation(os.DirFS(root), filepath.Base(root), reserved...)
	if err != nil {
		return nil, fmt.Errorf("build navigation: %w", err)
	}

	note, err := loadSidebarNote(cfg.notePath)
	if err != nil {
		return nil, err
	}

	title := cfg.title
	if title == "" {
		title = formatName(filepath.Base(root))
	}
	comp, err := newComposer(nav, title, note)
	if err != nil {
		return nil, err
	}

	var watcher *staleWatcher
	if cfg.watch {
		watcher = newStaleWatcher()
		if err := watcher.watchDirectory(root); err != nil {
			log.Printf("Warning: Cannot watch directory for changes: %v", err)
			watcher = nil
		}
	}

	return &app{
		root:    root,
		nav:     nav,
		watcher: watcher,
		server:  newServer(nav, res, comp, watcher, cfg.enableMCP),
	}, nil
}

func run(cfg config) error {
	a, err := setup(cfg)
	if err != nil {
		return err
	}

	addr := cfg.addr()
	url := fmt.Sprintf("http://%s", addr)
	fmt.Printf("Serving %s (%d pages)\n", a.root, a.nav.Pages)
	if cfg.assetDir != "" {
		fmt.Printf("Assets from %s at %s/files/\n", cfg.assetDir, url)
	}
	if cfg.enableMCP {
		fmt.Printf("MCP endpoint at %s/mcp\n", url)
	}
	fmt.Printf("Listening on %s\n", url)
	fmt.Println("Press Ctrl+C to quit")

	if cfg.openBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			openURL(url)
		}()
	}

	server := &http.Server{
		Addr:        addr,
		Handler:     a.server.handler(),
		ReadTimeout: 15 * time.Second,
		// WriteTimeout omitted: the MCP endpoint can hold a stream open
		IdleTimeout: 60 * time.Second,
	}

	// Handle shutdown signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigint

		log.Println("\nShutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		a.watcher.close()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func openURL(url string) {
	var cmd string
	var args []string

	switch {
	case fileExists("/usr/bin/open"): // macOS
		cmd = "open"
		args = []string{url}
	case fileExists("/usr/bin/xdg-open"): // Linux
		cmd = "xdg-open"
		args = []string{url}
	default: // Windows
		cmd = "cmd"
		args = []string{"/c", "start", url}
	}

	exec := exec.Command(cmd, args...)
	if err := exec.Start(); err != nil {
		log.Printf("Failed to open URL %s: %v", url, err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/net/html"
)

type ListPagesRequest struct{}

type PageSummary struct {
	Path       string `json:"path"`       // root-relative page path
	URL        string `json:"url"`        // link used by the sidebar
	Name       string `json:"name"`       // sidebar label
	Breadcrumb string `json:"breadcrumb"` // trail shown above the page
}

type ListPagesResponse struct {
	Pages []PageSummary `json:"pages"`
	Stale bool          `json:"stale"` // content changed since startup
}

type GetPageRequest struct {
	Path string `json:"path"` // root-relative page path, e.g. "docs/intro.html"
}

type GetPageResponse struct {
	PageSummary
	Title string `json:"title"` // <title> of the page itself, if any
	HTML  string `json:"html"`  // raw page content, without sidebar
}

// newMCPServer exposes the navigation tree and the raw pages as MCP tools.
func newMCPServer(nav *navigation, res resolver, watcher *staleWatcher, readFile fileReader) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"htmlnav",
		version,
		mcpserver.WithToolCapabilities(false),
	)

	listTool := mcp.NewTool("list_pages",
		mcp.WithDescription("List every page in the site navigation, in sidebar order"),
	)
	s.AddTool(listTool, mcp.NewTypedToolHandler(listPagesHandler(nav, watcher)))

	getTool := mcp.NewTool("get_page",
		mcp.WithDescription("Get the raw HTML of one page, without the generated sidebar"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root-relative page path as returned by list_pages (e.g. 'docs/intro.html')"),
		),
	)
	s.AddTool(getTool, mcp.NewTypedToolHandler(getPageHandler(res, readFile)))

	return s
}

func newMCPHandler(nav *navigation, res resolver, watcher *staleWatcher, readFile fileReader) http.Handler {
	return mcpserver.NewStreamableHTTPServer(newMCPServer(nav, res, watcher, readFile))
}

func summarize(rel string) PageSummary {
	return PageSummary{
		Path:       rel,
		URL:        pageHref(rel),
		Name:       formatName(rel[strings.LastIndex(rel, "/")+1:]),
		Breadcrumb: breadcrumb(rel),
	}
}

func listPagesHandler(nav *navigation, watcher *staleWatcher) func(ctx context.Context, request mcp.CallToolRequest, args ListPagesRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ListPagesRequest) (*mcp.CallToolResult, error) {
		files := collectFiles(nav.Tree)
		resp := ListPagesResponse{
			Pages: make([]PageSummary, 0, len(files)),
			Stale: watcher.Stale(),
		}
		for _, f := range files {
			resp.Pages = append(resp.Pages, summarize(f.Path))
		}
		return jsonResult(resp)
	}
}

func getPageHandler(res resolver, readFile fileReader) func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
		rel := strings.TrimPrefix(strings.TrimSpace(args.Path), "/")
		if rel == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		t := res.confine(res.resolve(pageHref(rel)))
		if t.Kind != targetHTML {
			return mcp.NewToolResultError(fmt.Sprintf("page %q not found", args.Path)), nil
		}

		content, err := readFile(t.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("page %q not found", args.Path)), nil
		}

		resp := GetPageResponse{
			PageSummary: summarize(rel),
			HTML:        string(content),
		}
		if doc, err := html.Parse(strings.NewReader(resp.HTML)); err == nil {
			resp.Title = extractTitle(doc)
		}
		return jsonResult(resp)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// extractTitle returns the text of the first <title> element
func extractTitle(doc *html.Node) string {
	var title string
	var findTitle func(*html.Node) bool

	findTitle = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if findTitle(c) {
				return true
			}
		}
		return false
	}

	findTitle(doc)
	return title
}

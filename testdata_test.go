package main

// Test page content constants
// These eliminate magic values scattered throughout test files

const (
	testPageIndex  = "<h1>Welcome</h1>"
	testPageReport = "<h1>Q1</h1><p>Numbers</p>"
	testPageIntro  = "<h1>Intro</h1>"
	testPageTitled = "<html><head><title>Getting Started</title></head><body><p>Hello</p></body></html>"

	testNoteMarkdown = "# Notes\n\nRead the **intro** first.\n\n```go\nfunc main() {}\n```"

	// Security test paths
	testPathTraversal     = "/../../etc/passwd"
	testPathURLEncoded    = "/%2e%2e/%2e%2e/etc/passwd"
	testPathEncodedSlash  = "/docs%2f..%2f..%2fsecret.html"
	testPathAssetEscape   = "/files/../secret.html"
	testPathNullByte      = "/index.html%00.txt"
	testPathInvalidEscape = "/bad%zz.html"
)

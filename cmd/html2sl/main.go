// html2sl converts an HTML file into builder-style DSL text.
//
// Usage:
//
//	html2sl [flags] <file.html>
//
// Examples:
//
//	# Convert a file
//	html2sl page.html
//
//	# Convert stdin, only the <main> element
//	curl -s https://example.com | html2sl --select main -
//
//	# Show the effective configuration
//	html2sl config
package main

import (
	"fmt"
	"os"
)

// Build-time variables set via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

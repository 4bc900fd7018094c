// Command build holds llmport's developer tasks. Run it with
// "go run ./build [flags] <task>"; without a task it lists them.
package main

import (
	"flag"

	"github.com/goyek/goyek/v2"
	"github.com/goyek/goyek/v2/middleware"
)

var (
	// debug-proxy
	targetURL = flag.String("target", "", "Provider API URL debug-proxy forwards to, e.g. https://api.anthropic.com")
	port      = flag.String("port", "8080", "Port debug-proxy listens on")

	// lint
	lintFix     = flag.Bool("lint-fix", false, "Let golangci-lint fix what it can")
	lintVerbose = flag.Bool("lint-verbose", false, "Verbose golangci-lint output")

	// test
	testRace = flag.Bool("race", false, "Run tests with the race detector")
	testRun  = flag.String("run", "", "Only run tests matching this pattern")

	// gen-schema
	schemaOut = flag.String("schema-out", "schema/llmport-config-schema.json", "Schema destination, relative to the module root")
)

func main() {
	flag.Parse()
	goyek.SetDefault(List)
	goyek.Use(middleware.ReportStatus)
	goyek.Main(flag.Args())
}

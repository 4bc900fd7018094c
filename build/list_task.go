package main

import (
	"flag"
	"fmt"

	"github.com/goyek/goyek/v2"
)

// List prints the tasks and the flags they read.
var List = goyek.Define(goyek.Task{
	Name:  "list",
	Usage: "List tasks and flags",
	Action: func(a *goyek.A) {
		out := a.Output()
		fmt.Fprintln(out, "Usage: go run ./build [flags] <task>...")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Tasks:")
		for _, task := range goyek.Tasks() {
			fmt.Fprintf(out, "  %-12s %s\n", task.Name(), task.Usage())
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Flags:")
		flag.VisitAll(func(f *flag.Flag) {
			def := ""
			if f.DefValue != "" && f.DefValue != "false" {
				def = fmt.Sprintf(" (default %q)", f.DefValue)
			}
			fmt.Fprintf(out, "  -%-12s %s%s\n", f.Name, f.Usage, def)
		})
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Inspect provider traffic by running debug-proxy and pointing llmport at it:")
		fmt.Fprintln(out, "  go run ./build -target=https://api.anthropic.com debug-proxy")
		fmt.Fprintln(out, "  LLMPORT_BASE_URL=http://localhost:8080 llmport -i src -o out")
	},
})

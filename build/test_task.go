package main

import (
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

// Test runs the unit tests of every package
var Test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "Run go test ./... Use -race for the race detector, -run=PATTERN to filter",
	Action: func(a *goyek.A) {
		args := []string{"test"}
		if *testRace {
			args = append(args, "-race")
		}
		if *testRun != "" {
			args = append(args, "-run", *testRun)
		}
		args = append(args, "./...")

		cmd := exec.CommandContext(a.Context(), "go", args...)
		cmd.Stdout = a.Output()
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			a.Fatalf("go test failed: %v", err)
		}
	},
})

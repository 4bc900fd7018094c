package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

const golangciLint = "github.com/golangci/golangci-lint/v2/cmd/golangci-lint@v2.8.0"

// Lint runs golangci-lint on the codebase
var Lint = goyek.Define(goyek.Task{
	Name:  "lint",
	Usage: "Run golangci-lint. Use -lint-fix to auto-fix, -lint-verbose for details",
	Action: func(a *goyek.A) {
		args := []string{"run", golangciLint, "run"}
		if *lintFix {
			args = append(args, "--fix")
		}
		if *lintVerbose {
			args = append(args, "-v")
		}
		args = append(args, "./...")

		cmd := exec.CommandContext(a.Context(), "go", args...)
		cmd.Stdout = a.Output()
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				// golangci-lint returns exit code 1 when issues found
				a.Errorf("Linting issues found (exit code %d)", exitErr.ExitCode())
			} else {
				a.Fatalf("Failed to run golangci-lint: %v", err)
			}
		}
	},
})

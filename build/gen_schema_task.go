package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goyek/goyek/v2"
	"github.com/invopop/jsonschema"

	"github.com/spachava753/llmport/internal/config"
)

// GenSchema generates the JSON schema for llmport configuration files
var GenSchema = goyek.Define(goyek.Task{
	Name:  "gen-schema",
	Usage: "Generate JSON schema for llmport.yaml. Use -schema-out=PATH to change the destination",
	Action: func(a *goyek.A) {
		reflector := &jsonschema.Reflector{
			AllowAdditionalProperties:  false,
			RequiredFromJSONSchemaTags: true,
		}

		schema := reflector.Reflect(config.Defaults())
		schema.Title = "llmport Configuration Schema"
		schema.Description = "JSON Schema for llmport configuration files"
		schema.Version = "https://json-schema.org/draft/2020-12/schema"

		schemaJSON, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			a.Fatalf("Failed to marshal schema: %v", err)
		}

		moduleRoot := os.Getenv("GOMOD")
		if moduleRoot != "" {
			moduleRoot = filepath.Dir(moduleRoot)
		} else {
			wd, err := os.Getwd()
			if err != nil {
				a.Fatalf("Failed to get working directory: %v", err)
			}
			moduleRoot = findModuleRoot(wd)
		}

		schemaPath := filepath.Join(moduleRoot, *schemaOut)
		if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
			a.Fatalf("Failed to create schema directory: %v", err)
		}
		if err := os.WriteFile(schemaPath, append(schemaJSON, '\n'), 0644); err != nil {
			a.Fatalf("Failed to write schema file: %v", err)
		}
		fmt.Fprintf(a.Output(), "Generated schema: %s\n", schemaPath)
	},
})

func findModuleRoot(start string) string {
	current := start
	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return start
		}
		current = parent
	}
}

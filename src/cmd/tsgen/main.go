// Command tsgen writes TypeScript declarations for the console API types.
package main

import (
	"flag"
	"os"

	"github.com/coder/guts"
	"github.com/coder/guts/config"

	"github.com/rbac-console/admin-console/src/internal/log"
)

var packages = []string{
	"github.com/rbac-console/admin-console/src/internal/api",
	"github.com/rbac-console/admin-console/src/internal/console",
	"github.com/rbac-console/admin-console/src/internal/forms",
	"github.com/rbac-console/admin-console/src/internal/settings",
	"github.com/rbac-console/admin-console/src/internal/apiclient",
}

func main() {
	output := flag.String("o", "", "Output file (stdout when empty)")
	flag.Parse()

	gen, err := guts.NewGolangParser()
	if err != nil {
		log.Fatalf("Failed to create parser: %v", err)
	}
	gen.IncludeCustomDeclaration(config.StandardMappings())

	for _, pkg := range packages {
		if err := gen.IncludeGenerate(pkg); err != nil {
			log.Fatalf("Failed to include %s: %v", pkg, err)
		}
	}

	ts, err := gen.ToTypescript()
	if err != nil {
		log.Fatalf("Failed to convert to TypeScript: %v", err)
	}
	ts.ApplyMutations(
		config.EnumAsTypes,
		config.ExportTypes,
		config.ReadOnly,
	)

	out, err := ts.Serialize()
	if err != nil {
		log.Fatalf("Failed to serialize: %v", err)
	}

	if *output == "" {
		_, _ = os.Stdout.WriteString(out)
		return
	}
	if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Infof("Wrote %s", *output)
}

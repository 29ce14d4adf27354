// Package main provides the entry point for the wait-for-vercel-preview CLI.
package main

import (
	"context"
	"os"

	"github.com/coprime/wait-for-vercel-preview/internal/cli"
)

// Build information, set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	os.Exit(cli.ExitCodeForError(err))
}

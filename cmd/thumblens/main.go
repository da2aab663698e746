// Command thumblens is the thumbnail statistics dashboard: a CLI over the
// statistics service and, with "serve", its HTTP dashboard.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/thumblens/thumblens/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	// THUMBLENS_* settings may live in a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("warning: .env: " + err.Error() + "\n")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the bucketkeeper CLI.
//
// bucketkeeper configures retention of deleted objects on a Hetzner Object
// Storage bucket. It enables versioning (after confirmation) and installs a
// lifecycle rule that expires noncurrent object versions after 60 days and
// aborts incomplete multipart uploads after 7 days. A report mode lists the
// delete markers and noncurrent versions currently held in the bucket.
//
// For detailed usage information, run:
//
//	bucketkeeper --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/bucketkeeper/cmd/bucketkeeper/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

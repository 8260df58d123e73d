// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/bucketkeeper/cmd/bucketkeeper/handlers"
)

// Root returns the root command for the bucketkeeper CLI.
//
// Running the root command starts the interactive retention setup: it shows
// the bucket's current settings and walks through enabling versioning and
// installing the retention lifecycle rule. With --deleted it instead prints
// a read-only report of delete markers and noncurrent versions.
func Root() *cobra.Command {
	var configPath string
	var deleted bool

	cmd := &cobra.Command{
		Use:   "bucketkeeper",
		Short: "Configure deleted-object retention on a Hetzner Object Storage bucket",
		Long: `bucketkeeper configures retention of deleted objects on a Hetzner Object
Storage bucket (or any S3-compatible bucket).

Without flags it runs interactively: it shows the bucket's location,
versioning state and lifecycle rules, then offers to enable versioning and
install a lifecycle rule that expires noncurrent (deleted) object versions
after 60 days and aborts incomplete multipart uploads after 7 days.
Existing lifecycle rules with other IDs are left untouched.

With --deleted it only lists the bucket's delete markers and noncurrent
versions and makes no changes.

Connection settings come from an optional YAML config file and from the
environment: BUCKETKEEPER_BUCKET, BUCKETKEEPER_REGION,
BUCKETKEEPER_ENDPOINT, HETZNER_S3_ACCESS_KEY, HETZNER_S3_SECRET_KEY.
A missing secret key is prompted for.

Examples:
  bucketkeeper -c bucketkeeper.yaml
  bucketkeeper --deleted
  BUCKETKEEPER_BUCKET=backups bucketkeeper`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deleted {
				return handlers.Deleted(cmd.Context(), configPath)
			}
			return handlers.Apply(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (optional)")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "List deleted objects (delete markers and noncurrent versions) and exit")

	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

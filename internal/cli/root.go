package cli

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/namerelay/internal/relay"
)

// RootOptions holds global flags and test seams for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	// Environ replaces the process environment when non-nil (for testing).
	Environ map[string]string
	// Transport replaces the HTTP transport of both API clients (for testing).
	Transport http.RoundTripper
	// FS holds the submitted names log; defaults to the OS filesystem.
	FS afero.Fs
	// RunIDs defaults to relay.UUIDv7Generator.
	RunIDs relay.RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Invoked without a subcommand it
// performs one relay run.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions is NewRootCommand with preset options.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	runOpts := &RunOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "namerelay",
		Short: "Forward new league name changes to Wise Old Man",
		Long: `Fetch the most recent name changes from the league Wise Old Man API,
submit the ones not forwarded before to the main API in one batch and record
them in the submitted names log.

Meant to be run periodically by an external scheduler. Overlapping runs are
not supported.

Example:
  namerelay
  namerelay --config /etc/namerelay.yaml
  NAMERELAY_LEDGER_PATH=/data/submitted_names.json namerelay --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelay(runOpts, cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "force debug log level")
	cmd.Flags().BoolVar(&runOpts.DryRun, "dry-run", false, "fetch and filter only, do not submit or store")

	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func validateFormat(format string) error {
	if !isValidFormat(format) {
		return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
	}
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/hailer-chat/pushgate/internal/parity"
)

// ParityOptions holds flags for the parity command.
type ParityOptions struct {
	*RootOptions
	NoValidate bool
}

// NewParityCommand creates the parity command.
func NewParityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParityOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parity <trace-batch.json>",
		Short: "Compare delivery traces across wake sources",
		Long: `Aggregate a backend-exported trace batch into per-wake-source
buckets and build the cross-source reason comparison and shadow drift
tables used before a cutover.

The batch is validated against the wire schema unless --no-validate.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParity(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NoValidate, "no-validate", false, "skip schema validation of the batch")

	return cmd
}

func runParity(opts *ParityOptions, batchPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	records, err := LoadTraceBatch(batchPath, !opts.NoValidate)
	if err != nil {
		formatter.Failure("E_BATCH", err.Error())
		return WrapExitError(ExitCommandError, "load trace batch", err)
	}

	sum := parity.Aggregate(records)
	return formatter.SuccessText(renderParity(sum), sum)
}

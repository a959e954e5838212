package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <trace-batch.json>",
		Short:         "Validate a trace batch against the wire schema",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, batchPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	data, err := os.ReadFile(batchPath)
	if err != nil {
		formatter.Failure("E_READ", err.Error())
		return WrapExitError(ExitCommandError, "read trace batch", err)
	}

	if err := ValidateTraceBatch(data); err != nil {
		formatter.Failure("E_SCHEMA", err.Error())
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	return formatter.SuccessText(
		fmt.Sprintf("%s: valid", batchPath),
		map[string]string{"file": batchPath, "result": "valid"},
	)
}

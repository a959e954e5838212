package cli

import (
	"github.com/spf13/cobra"

	"github.com/hailer-chat/pushgate/internal/queuehealth"
)

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health <snapshot.yaml>",
		Short: "Build queue health alerts from a diagnostics snapshot",
		Long: `Evaluate the dispatch-queue diagnostics in a snapshot file and
print the triggered alerts. A snapshot without a "queue" section yields
no alerts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runHealth(opts *RootOptions, snapshotPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	snap, err := LoadSnapshotFile(snapshotPath)
	if err != nil {
		formatter.Failure("E_SNAPSHOT", err.Error())
		return WrapExitError(ExitCommandError, "load snapshot", err)
	}

	alerts := queuehealth.Build(snap.Queue)
	if err := formatter.SuccessText(renderAlerts(alerts), alerts); err != nil {
		return err
	}
	if queuehealth.HasLevel(alerts, queuehealth.LevelCritical) {
		return NewExitError(ExitFailure, "critical queue alerts present")
	}
	return nil
}

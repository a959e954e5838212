package cli

import (
	"github.com/spf13/cobra"

	"github.com/hailer-chat/pushgate/internal/cutover"
	"github.com/hailer-chat/pushgate/internal/parity"
	"github.com/hailer-chat/pushgate/internal/queuehealth"
	"github.com/hailer-chat/pushgate/internal/tracelog"
)

// ReadinessOptions holds flags for the readiness command.
type ReadinessOptions struct {
	*RootOptions
	Traces     string // trace batch path, overrides the snapshot reference
	NoValidate bool
}

// readinessReport is the JSON payload: the verdict plus the evidence it
// was derived from.
type readinessReport struct {
	Readiness cutover.Readiness   `json:"readiness"`
	Alerts    []queuehealth.Alert `json:"alerts"`
	Parity    parity.Summary      `json:"parity"`
}

// NewReadinessCommand creates the readiness command.
func NewReadinessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadinessOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "readiness <snapshot.yaml>",
		Short: "Evaluate cutover readiness for the wakeup dispatch path",
		Long: `Combine the wakeup scheduler state and queue diagnostics from a
snapshot file with a delivery trace batch, and classify cutover
readiness as ready, caution, blocked, or active.

Exits non-zero when the verdict is blocked.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReadiness(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Traces, "traces", "", "trace batch path (overrides the snapshot's traces field)")
	cmd.Flags().BoolVar(&opts.NoValidate, "no-validate", false, "skip schema validation of the batch")

	return cmd
}

func runReadiness(opts *ReadinessOptions, snapshotPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	snap, err := LoadSnapshotFile(snapshotPath)
	if err != nil {
		formatter.Failure("E_SNAPSHOT", err.Error())
		return WrapExitError(ExitCommandError, "load snapshot", err)
	}

	var records []tracelog.Record
	batchPath := opts.Traces
	if batchPath == "" {
		batchPath = snap.TracesPath(snapshotPath)
	}
	if batchPath != "" {
		records, err = LoadTraceBatch(batchPath, !opts.NoValidate)
		if err != nil {
			formatter.Failure("E_BATCH", err.Error())
			return WrapExitError(ExitCommandError, "load trace batch", err)
		}
	}

	alerts := queuehealth.Build(snap.Queue)
	sum := parity.Aggregate(records)
	verdict := cutover.Evaluate(snap.Wakeup, alerts, sum, sum.Drift)

	report := readinessReport{Readiness: verdict, Alerts: alerts, Parity: sum}
	if err := formatter.SuccessText(renderReadiness(verdict), report); err != nil {
		return err
	}
	if verdict.Status == cutover.StatusBlocked {
		return NewExitError(ExitFailure, "cutover readiness is blocked")
	}
	return nil
}

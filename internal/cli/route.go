package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hailer-chat/pushgate/internal/policy"
	"github.com/hailer-chat/pushgate/internal/tracelog"
)

// RouteOptions holds flags for the route command.
type RouteOptions struct {
	*RootOptions
	Record   bool   // append the decision to the local trace store
	Database string // trace database path
}

// NewRouteCommand creates the route command.
func NewRouteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RouteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "route <input-file>",
		Short: "Resolve a delivery routing decision from a client state snapshot",
		Long: `Resolve the delivery routing decision for a client state snapshot.

The input file (YAML or JSON) carries the raw client state under "input"
and optional developer overrides under "overrides". Overrides are merged
before the pure decision runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the decision in the trace database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "trace database path (default $PUSHGATE_DB or "+DefaultDBPath+")")

	return cmd
}

func runRoute(opts *RouteOptions, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	doc, err := LoadPolicyInputFile(inputPath)
	if err != nil {
		formatter.Failure("E_INPUT", err.Error())
		return WrapExitError(ExitCommandError, "load input", err)
	}

	input := policy.ApplyOverrides(doc.Input, doc.Overrides)
	decision := policy.Resolve(input)

	if opts.Record {
		if err := recordDecision(opts, decision); err != nil {
			// Trace recording is diagnostic; a broken store does not
			// fail the command.
			slog.Warn("trace recording failed", "error", err)
		}
	}

	return formatter.SuccessText(renderDecision(decision), decision)
}

func recordDecision(opts *RouteOptions, d policy.RouteDecision) error {
	store, err := tracelog.OpenSQLite(resolveDBPath(opts.Database))
	if err != nil {
		return err
	}
	defer store.Close()

	reason := ""
	if len(d.Reasons) > 0 {
		reason = string(d.Reasons[0])
	}
	decision := tracelog.DecisionSend
	if !d.AllowOSPushDisplay {
		decision = tracelog.DecisionSkip
	}

	recorder := tracelog.NewRecorder(store)
	recorder.Record(tracelog.Entry{
		Transport: tracelog.TransportRoutePolicy,
		Stage:     tracelog.StageClientRoute,
		Decision:  decision,
		Reason:    reason,
		Details:   map[string]any{"route_mode": string(d.RouteMode)},
	})
	return nil
}

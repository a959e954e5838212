package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hailer-chat/pushgate/internal/tracelog"
)

// TraceOptions holds flags shared by the trace subcommands.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command group.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect and manage the local delivery trace store",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "trace database path (default $PUSHGATE_DB or "+DefaultDBPath+")")

	cmd.AddCommand(newTraceListCommand(opts))
	cmd.AddCommand(newTraceRecordCommand(opts))
	cmd.AddCommand(newTraceClearCommand(opts))

	return cmd
}

func openTraceStore(opts *TraceOptions) (*tracelog.SQLiteStore, error) {
	return tracelog.OpenSQLite(resolveDBPath(opts.Database))
}

func newTraceListCommand(opts *TraceOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recent delivery trace records, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			store, err := openTraceStore(opts)
			if err != nil {
				formatter.Failure("E_DB", err.Error())
				return WrapExitError(ExitCommandError, "open trace database", err)
			}
			defer store.Close()

			records := tracelog.NewRecorder(store).List(limit)
			return formatter.SuccessText(renderTraceList(records), records)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to return (clamped to 1..500)")
	return cmd
}

func newTraceRecordCommand(opts *TraceOptions) *cobra.Command {
	var (
		transport  string
		stage      string
		decision   string
		reason     string
		wakeSource string
		recipient  string
		event      string
	)

	cmd := &cobra.Command{
		Use:           "record",
		Short:         "Append a delivery trace record",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			store, err := openTraceStore(opts)
			if err != nil {
				formatter.Failure("E_DB", err.Error())
				return WrapExitError(ExitCommandError, "open trace database", err)
			}
			defer store.Close()

			var details map[string]any
			if wakeSource != "" {
				details = map[string]any{tracelog.DetailWakeSource: wakeSource}
			}
			rec := tracelog.NewRecorder(store).Record(tracelog.Entry{
				RecipientID: recipient,
				EventID:     event,
				Transport:   tracelog.Transport(transport),
				Stage:       tracelog.Stage(stage),
				Decision:    tracelog.Decision(decision),
				Reason:      reason,
				Details:     details,
			})
			return formatter.SuccessText("recorded "+rec.ID, rec)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(tracelog.TransportRoutePolicy), "transport tag (in_app|web_push|simulated_push|route_policy)")
	cmd.Flags().StringVar(&stage, "stage", string(tracelog.StageClientRoute), "decision stage (enqueue|claim|send_time|client_route)")
	cmd.Flags().StringVar(&decision, "decision", string(tracelog.DecisionSend), "decision (send|skip|defer)")
	cmd.Flags().StringVar(&reason, "reason", "", "reason code")
	cmd.Flags().StringVar(&wakeSource, "wake-source", "", "wake source detail (shadow|cron|wakeup|manual)")
	cmd.Flags().StringVar(&recipient, "recipient", "", "notification recipient id")
	cmd.Flags().StringVar(&event, "event", "", "event id")
	return cmd
}

func newTraceClearCommand(opts *TraceOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Delete all delivery trace records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			store, err := openTraceStore(opts)
			if err != nil {
				formatter.Failure("E_DB", err.Error())
				return WrapExitError(ExitCommandError, "open trace database", err)
			}
			defer store.Close()

			tracelog.NewRecorder(store).Clear()
			return formatter.SuccessText("trace store cleared", map[string]string{"cleared": "ok"})
		},
	}
}

func renderTraceList(records []tracelog.Record) string {
	if len(records) == 0 {
		return "(no trace records)"
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "%s  %-12s %-12s %-5s %-40s %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Transport, rec.Stage, rec.Decision, rec.Reason, rec.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

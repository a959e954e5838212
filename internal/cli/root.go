package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// DefaultDBPath is used when neither --db nor PUSHGATE_DB is set.
const DefaultDBPath = "pushgate-traces.db"

// EnvDBPath is the environment variable naming the trace database.
const EnvDBPath = "PUSHGATE_DB"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pushgate CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pushgate",
		Short: "Notification delivery routing and cutover diagnostics",
		Long: `pushgate decides which transports a notification event may use
(in-app visual, in-app sound, OS push) and evaluates whether the wakeup
dispatch path is ready to take live sends over from the cron path.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRouteCommand(opts))
	cmd.AddCommand(NewParityCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))
	cmd.AddCommand(NewReadinessCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// resolveDBPath picks the trace database path: explicit flag, then
// PUSHGATE_DB, then the default.
func resolveDBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvDBPath); env != "" {
		return env
	}
	return DefaultDBPath
}

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/ukern/internal/logging"
)

var (
	flagVerbose   bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// logFormat picks text output for a terminal, and JSON otherwise.
func logFormat() string {
	if flagLogFormat != "" {
		return flagLogFormat
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		return "text"
	}

	return "json"
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ukern",
		Short: "ukern - round-robin kernel on an emulated board",
		Long: `ukern assembles user programs, links them into their memory regions,
and runs them as processes of a preemptive round-robin kernel.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				flagLogLevel = "debug"
			}
			level := logging.ParseLevel(flagLogLevel)
			logger = logging.NewLogger(level, logFormat(), cmd.ErrOrStderr())
			logging.Install(logger, slog.LevelDebug)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging of the kernel and devices")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json; default by terminal)")

	root.AddCommand(
		newRunCmd(),
		newAsmCmd(),
		newDefinesCmd(),
	)

	return root
}

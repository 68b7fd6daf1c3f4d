package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ezrec/ukern/emulator"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var ticks int
	var trace bool

	cmd := &cobra.Command{
		Use:   "run -c <machine.yaml>",
		Short: "Run the programs of a machine under the kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := emulator.LoadConfig(configPath)
			if err != nil {
				return err
			}

			emu, err := emulator.NewEmulator(config)
			if err != nil {
				return err
			}
			emu.Verbose = flagVerbose
			emu.Uart.Output = cmd.OutOrStdout()

			boot := logger.With("boot", uuid.New().String())
			boot.Info("reset", "config", configPath, "capacity", config.Kernel.Capacity, "trap_mode", config.Kernel.TrapMode.String())

			err = emu.Reset()
			if err != nil {
				return err
			}

			err = emu.Run(ticks)
			if err != nil {
				boot.Error("halted", "error", err)
				return err
			}

			stats := emu.Kernel.Stats
			boot.Info("done",
				"ticks", humanize.Comma(int64(ticks)),
				"instructions", humanize.Comma(int64(emu.Cpu.Ticks)),
				"irqs", humanize.Comma(int64(stats.Irqs)),
				"switches", humanize.Comma(int64(stats.Switches)),
				"yields", humanize.Comma(int64(stats.Yields)),
				"output", humanize.Bytes(uint64(emu.Uart.Transmitted)),
			)

			if trace {
				for n, pcb := range emu.Kernel.Table().All() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d: pid %d %v %v\n", n, pcb.Pid, config.Programs[n].Name, pcb.Status)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", emu.Trace)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Machine configuration (YAML)")
	cmd.Flags().IntVar(&ticks, "ticks", 1_000_000, "Number of emulator ticks to run")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the process table and scheduling trace on exit")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

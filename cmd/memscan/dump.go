package main

import (
	"fmt"

	"memscan/process"

	"github.com/spf13/cobra"
)

func dumpCmd() *cobra.Command {
	var (
		pid int
		out string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Save the readable memory of a process for offline scanning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pid <= 0 {
				return fmt.Errorf("--pid is required")
			}
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			proc, err := openProcess(process.ProcessID(pid))
			if err != nil {
				return err
			}
			defer proc.Close()

			if err := proc.Save(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dump of %d saved to %s\n", pid, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "process ID")
	cmd.Flags().StringVar(&out, "out", "", "output directory")
	return cmd
}

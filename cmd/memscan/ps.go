package main

import (
	"fmt"
	"text/tabwriter"

	"memscan/process"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func psCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ps [pattern]",
		Short: "List processes, optionally filtered by a name regexp",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := processFinder()
			if err != nil {
				return err
			}

			var procs []process.ProcessInfo
			if len(args) == 1 {
				procs, err = finder.FindProcessByNamePattern(args[0])
			} else {
				procs, err = finder.FindAllProcesses()
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PID\tSTATE\tUID\tRSS\tNAME\tEXE")
			for _, p := range procs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.PID, p.State, p.UID, humanize.IBytes(p.Memory), p.Name, p.Exe)
			}
			return tw.Flush()
		},
	}
}

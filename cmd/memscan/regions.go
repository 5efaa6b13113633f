package main

import (
	"fmt"
	"text/tabwriter"

	"memscan/process"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func regionsCmd() *cobra.Command {
	var (
		pid     int
		dumpDir string
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the memory regions of a process or dump",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openTarget(pid, "", dumpDir)
			if err != nil {
				return err
			}
			defer src.Close()

			regions, err := src.Regions()
			if err != nil {
				return err
			}
			return printRegions(cmd, regions, all)
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "process ID")
	cmd.Flags().StringVar(&dumpDir, "dump", "", "dump directory instead of a live process")
	cmd.Flags().BoolVar(&all, "all", false, "include unreadable regions")
	return cmd
}

func printRegions(cmd *cobra.Command, regions []process.Region, all bool) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tPERM\tSIZE\tKIND\tPATH")

	var total uint64
	for _, r := range regions {
		if !all && !r.Readable {
			continue
		}
		perms := []byte("--")
		if r.Readable {
			perms[0] = 'r'
		}
		if r.Writable {
			perms[1] = 'w'
		}
		fmt.Fprintf(tw, "%016x\t%016x\t%s\t%s\t%s\t%s\n", uint64(r.Base), uint64(r.End()), perms, humanize.IBytes(uint64(r.Size)), r.Kind, r.Path)
		total += uint64(r.Size)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "total %s\n", humanize.IBytes(total))
	return nil
}

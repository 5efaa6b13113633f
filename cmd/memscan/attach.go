package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"memscan/process"
	"memscan/process_blob"
	"memscan/scanner"
	"memscan/value"

	"github.com/go-delve/liner"
	"github.com/spf13/cobra"
)

func attachCmd(g *globalFlags) *cobra.Command {
	var (
		pid      int
		name     string
		dumpDir  string
		typeName string
		noColor  bool
	)
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach to a process or dump and start an interactive scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, opts, err := g.scannerOptions(cmd)
			if err != nil {
				return err
			}
			typ, err := value.ParseType(typeName)
			if err != nil {
				return err
			}

			target, err := resolvePID(pid, name, dumpDir)
			if err != nil {
				return err
			}

			session := scanner.NewSession(newOpener(dumpDir), opts...)
			if err := session.Attach(target); err != nil {
				return err
			}
			defer session.Detach()

			r := newREPL(session, cmd.OutOrStdout(), typ, conf.MaxList)
			r.color = !noColor
			return r.run(cmd)
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "process ID")
	cmd.Flags().StringVar(&name, "name", "", "process name (lowest matching PID)")
	cmd.Flags().StringVar(&dumpDir, "dump", "", "scan a saved dump instead of a live process")
	cmd.Flags().StringVar(&typeName, "type", "auto", "value type of the first scan")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors in hex dumps")
	cmd.MarkFlagsMutuallyExclusive("pid", "name", "dump")
	return cmd
}

// newOpener returns an opener for live processes, or for the dump in
// dumpDir when it is set. A dump is reloaded on every attach so that writes
// from an earlier attach are discarded.
func newOpener(dumpDir string) scanner.Opener {
	if dumpDir == "" {
		return openSource
	}
	return func(process.ProcessID) (process.RegionSource, error) {
		return process_blob.OpenDump(dumpDir)
	}
}

func resolvePID(pid int, name, dumpDir string) (process.ProcessID, error) {
	switch {
	case dumpDir != "":
		return 0, nil
	case name != "":
		return pidByName(name)
	case pid > 0:
		return process.ProcessID(pid), nil
	}
	return 0, errors.New("one of --pid, --name or --dump is required")
}

// openTarget opens a live process or a dump for one-shot commands
func openTarget(pid int, name, dumpDir string) (process.RegionSource, error) {
	target, err := resolvePID(pid, name, dumpDir)
	if err != nil {
		return nil, err
	}
	return newOpener(dumpDir)(target)
}

// run reads commands until exit or end of input. Ctrl-C at the prompt clears
// the line; during a scan it aborts the scan.
func (r *repl) run(cmd *cobra.Command) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(text string) []string {
		var out []string
		for _, c := range replCommands {
			if strings.HasPrefix(c.name, text) {
				out = append(out, c.name)
			}
		}
		return out
	})

	fmt.Fprintf(r.out, "attached to %d, type help for commands\n", r.session.PID())

	for {
		text, err := line.Prompt(fmt.Sprintf("%d> ", r.session.Count()))
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt for input failed: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		line.AppendHistory(text)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		quit, err := r.exec(ctx, text)
		stop()

		if err != nil {
			fmt.Fprintln(r.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

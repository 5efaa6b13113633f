package main

import (
	"fmt"

	"memscan/config"
	"memscan/scanner"

	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every subcommand. Flags the
// user did not set leave the config file values alone.
type globalFlags struct {
	configPath  string
	workers     int
	alignment   int
	regionLevel string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "memscan",
		Short:         "Search and refine typed values in a running process's memory",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/memscan/config.yml)")
	cmd.PersistentFlags().IntVar(&g.workers, "workers", 0, "regions scanned in parallel")
	cmd.PersistentFlags().IntVar(&g.alignment, "alignment", 0, "address step in bytes, 0 for natural alignment")
	cmd.PersistentFlags().StringVar(&g.regionLevel, "region-level", "", "regions to scan: all, heap-stack-exe, heap-stack-exe-bss")

	cmd.AddCommand(psCmd())
	cmd.AddCommand(regionsCmd())
	cmd.AddCommand(dumpCmd())
	cmd.AddCommand(attachCmd(g))
	cmd.AddCommand(configCmd(g))
	return cmd
}

// load reads the config file and applies the flags set on cmd
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	path := g.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		conf.Workers = g.workers
	}
	if flags.Changed("alignment") {
		conf.Alignment = g.alignment
	}
	if flags.Changed("region-level") {
		conf.RegionLevel = g.regionLevel
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (g *globalFlags) scannerOptions(cmd *cobra.Command) (*config.Config, []scanner.Option, error) {
	conf, err := g.load(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts, err := conf.ScannerOptions()
	if err != nil {
		return nil, nil, err
	}
	return conf, opts, nil
}

func configCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := g.load(cmd)
			if err != nil {
				return err
			}
			out, err := conf.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

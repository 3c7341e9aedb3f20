package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/poolplan/pkg/interfaces/cli/commands"
	"github.com/vsinha/poolplan/pkg/interfaces/cli/output"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "poolplan",
		Short: "Component pool allocation for fleet changeouts",
		Long: `poolplan assigns every future component changeout of a mining fleet to a
slot of its component's repair pool, matches confirmed repair returns to the
slots waiting on them and reports where a pool runs out of capacity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./poolplan.yaml)")

	root.AddCommand(
		newAllocateCommand(&configFile),
		newGenerateCommand(),
		newRunsCommand(&configFile),
	)
	return root
}

func newAllocateCommand(configFile *string) *cobra.Command {
	var config commands.Config

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate changeouts to pool slots",
		Example: `  poolplan allocate --input data/sample --epoch 2024-07-29
  poolplan allocate --workbook pool.xlsx --format xlsx --output results/
  poolplan allocate --input data/sample --format csv --output results/ --record --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.ConfigFile = *configFile
			config.Out = cmd.OutOrStdout()
			return commands.NewAllocateCommand(config).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.InputDir, "input", "", "directory with changeouts.csv, baseline.csv, arrivals.csv and blocked.csv")
	flags.StringVar(&config.Workbook, "workbook", "", "xlsx workbook with one sheet per source table")
	flags.StringVar(&config.Epoch, "epoch", "", "first allocated date, YYYY-MM-DD (overrides the config file)")
	flags.StringVar(&config.OutputDir, "output", "", "output directory for results")
	flags.StringVar(&config.Format, "format", "text", "output format: "+strings.Join(output.Formats, ", "))
	flags.BoolVar(&config.Verbose, "verbose", false, "log every allocation event and print the allocation log")
	flags.BoolVar(&config.Parallel, "parallel", false, "allocate components concurrently")
	flags.BoolVar(&config.Record, "record", false, "save the run to the run catalog")
	flags.StringVar(&config.StorePath, "store", "", "run catalog path (overrides the config file)")
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var config commands.GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic CSV scenario",
		Example: `  poolplan generate --output data/synthetic --seed 12345
  poolplan generate --output data/large --trucks 120 --weeks 52 --rate 1.5 --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Out = cmd.OutOrStdout()
			return commands.NewGenerateCommand(config).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&config.Trucks, "trucks", 40, "haul truck fleet size")
	flags.IntVar(&config.Components, "components", 0, "number of catalog components, 0 for all")
	flags.IntVar(&config.Weeks, "weeks", 26, "planning horizon in weeks")
	flags.Float64Var(&config.Rate, "rate", 0.5, "expected changeouts per component per week")
	flags.Float64Var(&config.Blocked, "blocked", 0.05, "share of changeouts waiting on a blocked lane")
	flags.StringVar(&config.Epoch, "epoch", "2024-07-29", "first allocated date, YYYY-MM-DD")
	flags.StringVar(&config.OutputDir, "output", "", "output directory for generated files")
	flags.Int64Var(&config.Seed, "seed", 0, "random seed for reproducible generation")
	flags.BoolVar(&config.Verbose, "verbose", false, "enable verbose output")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newRunsCommand(configFile *string) *cobra.Command {
	var config commands.RunsConfig

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, show or delete recorded runs",
		Example: `  poolplan runs --limit 10
  poolplan runs --show 3f0c... --verbose
  poolplan runs --show 3f0c... --format csv > allocation.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.ConfigFile = *configFile
			config.Out = cmd.OutOrStdout()
			return commands.NewRunsCommand(config).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.StorePath, "store", "", "run catalog path (overrides the config file)")
	flags.IntVar(&config.Limit, "limit", 20, "number of runs to list, 0 for all")
	flags.StringVar(&config.Show, "show", "", "print the allocation table of a run")
	flags.StringVar(&config.Delete, "delete", "", "delete a run")
	flags.StringVar(&config.Format, "format", "text", "table format for --show: text or csv")
	flags.BoolVar(&config.Verbose, "verbose", false, "also print the allocation log with --show")
	return cmd
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/aggbench/cmd/bench"
	"github.com/ValentinKolb/aggbench/cmd/fixture"
	"github.com/ValentinKolb/aggbench/cmd/util"
	libbench "github.com/ValentinKolb/aggbench/lib/bench"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "aggbench",
		Short: "serialization benchmark for aggregation results",
		Long: fmt.Sprintf(`aggbench (v%s)

Benchmarks and validates serialization codecs on the recursive
intermediate result tree of a search aggregation engine.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of aggbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aggbench v%s\n", Version)
		},
	}

	// codecsCmd lists the registered codecs
	codecsCmd = &cobra.Command{
		Use:   "codecs",
		Short: "List all codecs in reporting order",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(libbench.Names(libbench.DefaultEntries()), "\n"))
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(fixture.FixtureCmd)
	RootCmd.AddCommand(codecsCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("Log level (debug, info, warn, error)"))
}

// setup binds the flags of the executed command and configures logging
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return util.InitLogging()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

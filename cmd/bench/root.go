package bench

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/aggbench/cmd/util"
	"github.com/ValentinKolb/aggbench/lib/bench"
	"github.com/ValentinKolb/aggbench/lib/common"
	"github.com/ValentinKolb/aggbench/lib/fixture"
	"github.com/ValentinKolb/aggbench/lib/generator"
	"github.com/ValentinKolb/aggbench/lib/model"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var (
	log = logger.GetLogger("cli")

	// BenchCmd runs all scenarios and prints one table per scenario
	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Benchmark all codecs on the artificial tree and fixtures",
		Long: `Benchmark all codecs on the artificial aggregation tree and on the given
fixture files. Every scenario prints one markdown table with one row per
codec in registration order.`,
		RunE: run,
	}
)

func init() {
	key := "codecs"
	BenchCmd.Flags().String(key, "", util.WrapString("Codecs to benchmark (comma separated, e.g. json,cbor). Empty means all; see 'aggbench codecs'"))
	key = "fixtures"
	BenchCmd.Flags().String(key, "", util.WrapString("Fixture files to benchmark (comma separated, .json or .yaml). Each file is one scenario"))
	key = "size"
	BenchCmd.Flags().Int(key, generator.DefaultSize, util.WrapString("Number of percentile counts and histogram entries of the artificial tree. 0 disables the artificial scenario"))
	key = "gc"
	BenchCmd.Flags().Bool(key, true, util.WrapString("Run a garbage collection before each measurement"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics-out"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save per codec metrics in Prometheus text format"))
}

// scenario is a named benchmark input
type scenario struct {
	name  string
	value model.AggregationResults
}

func run(_ *cobra.Command, _ []string) error {
	conf := util.GetBenchConfig()

	fmt.Println("Configuration:")
	fmt.Println(conf.String())

	entries, err := util.GetEntries(conf)
	if err != nil {
		return err
	}

	scenarios, err := loadScenarios(conf)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("nothing to benchmark: no fixtures given and the artificial scenario is disabled")
	}

	metrics := bench.NewMetrics()
	results := bench.NewResults()
	for _, s := range scenarios {
		rs := bench.RunScenario(s.name, s.value, entries,
			bench.WithGC(conf.GCBetweenRuns),
			bench.WithMetrics(metrics),
			bench.WithResults(results),
		)
		if err := WriteMarkdown(os.Stdout, rs); err != nil {
			return err
		}
		fmt.Println()
	}

	// Write results to csv is specified
	if conf.CSVPath != "" {
		fmt.Printf("Exporting results to CSV: %s\n", conf.CSVPath)
		if err := writeFile(conf.CSVPath, func(f *os.File) error { return WriteCSV(f, results.All()) }); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
	}

	if conf.MetricsPath != "" {
		fmt.Printf("Exporting metrics: %s\n", conf.MetricsPath)
		if err := writeFile(conf.MetricsPath, func(f *os.File) error { metrics.WritePrometheus(f); return nil }); err != nil {
			return fmt.Errorf("failed to export metrics: %v", err)
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// loadScenarios reads all fixtures first, then appends the artificial tree,
// so a broken fixture fails before any measurement. Scenario names are
// unique across the run.
func loadScenarios(conf *common.BenchConfig) ([]scenario, error) {
	var reserved []string
	if conf.SyntheticSize > 0 {
		reserved = append(reserved, generator.ArtificialScenario)
	}
	names, err := fixture.ScenarioNames(conf.Fixtures, reserved...)
	if err != nil {
		return nil, err
	}

	scenarios := make([]scenario, 0, len(conf.Fixtures)+1)
	for i, path := range conf.Fixtures {
		format, err := fixture.DetectFormat(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture: %w", err)
		}
		value, err := fixture.Parse(data, format)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", path, err)
		}
		log.Infof("loaded fixture %s: %+v", path, model.Summarize(value))
		scenarios = append(scenarios, scenario{name: names[i], value: value})
	}

	if conf.SyntheticSize > 0 {
		scenarios = append(scenarios, scenario{
			name:  generator.ArtificialScenario,
			value: generator.Artificial(conf.SyntheticSize),
		})
	}
	return scenarios, nil
}

// writeFile creates path and passes it to write
func writeFile(path string, write func(f *os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
